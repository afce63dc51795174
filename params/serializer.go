package params

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/joshuapare/paramkit/internal/writer"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
	"github.com/joshuapare/paramkit/pkg/units"
)

// DefaultDTD is the DOCTYPE system identifier written when none is set.
const DefaultDTD = "params.dtd"

const (
	indentStep   = "  "
	lineEnd      = "\n"
	numPrecision = 12
)

// outState is a serializer state. Each NextLine call advances through
// the states until exactly one line has been produced.
type outState uint8

const (
	stateProlog outState = iota
	stateDoctype
	stateComment
	stateBlank
	stateOpenParams
	stateOpenSection
	stateParam
	stateDescend
	stateCloseSection
	stateSibling
	stateCloseParams
	stateDone
)

// output is a Handle's serializer cursor.
type output struct {
	state  outState
	sec    *ast.Section
	pos    int // index of sec among its parent's children when opened
	next   int // index of the next param of sec to emit
	open   []frame
	indent string
}

// frame is an enclosing section still open in the output.
type frame struct {
	sec *ast.Section
	pos int
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
	"\r", "&#13;",
	"\n", "&#10;",
	"\t", "&#9;",
)

// SetWriteOptions changes how h serializes its document.
func (h *Handle) SetWriteOptions(opts WriteOptions) {
	if h.valid("SetWriteOptions") {
		h.wopts = opts
	}
}

// Rewind resets the serializer cursor to the start of the document.
func (h *Handle) Rewind() {
	if h.valid("Rewind") {
		h.out = output{}
	}
}

// NextLine returns the next line of the serialized document, including
// its line terminator. It returns false once the document is complete;
// Rewind starts over.
//
// The cursor walks the live tree. Changes made between calls show up in
// the rest of the output, which stays well formed; Rewind after a change
// to get a consistent document.
func (h *Handle) NextLine() (string, bool) {
	if !h.valid("NextLine") {
		return "", false
	}
	hdr := h.hdr
	o := &h.out
	for {
		switch o.state {
		case stateProlog:
			o.state = stateDoctype
			return `<?xml version="1.0" encoding="UTF-8"?>` + lineEnd, true

		case stateDoctype:
			o.state = stateComment
			dtd := hdr.dtd
			if dtd == "" {
				dtd = DefaultDTD
			}
			return `<!DOCTYPE params SYSTEM "` + escaper.Replace(dtd) + `">` + lineEnd, true

		case stateComment:
			o.state = stateBlank
			if hdr.comment != "" {
				return "<!--" + hdr.comment + "-->" + lineEnd, true
			}

		case stateBlank:
			o.state = stateOpenParams
			return lineEnd, true

		case stateOpenParams:
			o.sec = hdr.tree.Root
			o.pos, o.next = 0, 0
			o.open = o.open[:0]
			o.indent = indentStep
			o.state = stateParam
			line := `<params name="` + escaper.Replace(hdr.name) + `"`
			if hdr.major != 0 || hdr.minor != 0 {
				line += fmt.Sprintf(` version="%d.%d"`, hdr.major, hdr.minor)
			}
			return line + ">" + lineEnd, true

		case stateOpenSection:
			line := o.indent + `<section name="` + escaper.Replace(o.sec.Name) + `">` + lineEnd
			o.indent += indentStep
			o.next = 0
			o.state = stateParam
			return line, true

		case stateParam:
			if o.next >= len(o.sec.Params) {
				o.state = stateDescend
				continue
			}
			p := o.sec.Params[o.next]
			o.next++
			if line, ok := h.paramLine(p); ok {
				return o.indent + line + lineEnd, true
			}

		case stateDescend:
			if len(o.sec.Children) > 0 {
				o.open = append(o.open, frame{sec: o.sec, pos: o.pos})
				o.sec, o.pos = o.sec.Children[0], 0
				o.state = stateOpenSection
			} else {
				o.state = stateCloseSection
			}

		case stateCloseSection:
			o.indent = o.indent[:len(o.indent)-len(indentStep)]
			if len(o.open) == 0 {
				o.state = stateCloseParams
				continue
			}
			o.state = stateSibling
			return o.indent + "</section>" + lineEnd, true

		case stateSibling:
			// A section removed since it was opened is no longer among
			// its parent's children; its successor took its position.
			top := o.open[len(o.open)-1]
			i := slices.Index(top.sec.Children, o.sec)
			if i >= 0 {
				i++
			} else {
				i = o.pos
			}
			if i < len(top.sec.Children) {
				o.sec, o.pos = top.sec.Children[i], i
				o.state = stateOpenSection
			} else {
				o.open = o.open[:len(o.open)-1]
				o.sec, o.pos = top.sec, top.pos
				o.state = stateCloseSection
			}

		case stateCloseParams:
			o.state = stateDone
			o.sec = nil
			o.open = nil
			return "</params>" + lineEnd, true

		default:
			return "", false
		}
	}
}

// paramLine formats one param element. Params without a kind are skipped.
func (h *Handle) paramLine(p *ast.Param) (string, bool) {
	var b strings.Builder
	switch p.Kind {
	case types.KindNumber:
		b.WriteString(`<attnum name="` + escaper.Replace(p.Name) + `"`)
		if p.Unit != "" {
			b.WriteString(` unit="` + escaper.Replace(p.Unit) + `"`)
		}
		if h.wopts.ForceBounds || p.Min != p.Num || p.Max != p.Num {
			b.WriteString(` min="` + formatNum(units.FromSI(p.Unit, p.Min), p.Unit) + `"`)
			b.WriteString(` max="` + formatNum(units.FromSI(p.Unit, p.Max), p.Unit) + `"`)
		}
		b.WriteString(` val="` + formatNum(units.FromSI(p.Unit, p.Num), p.Unit) + `"/>`)
	case types.KindString:
		b.WriteString(`<attstr name="` + escaper.Replace(p.Name) + `"`)
		if len(p.Within) > 0 {
			b.WriteString(` in="` + escaper.Replace(strings.Join(p.Within, withinSeparator)) + `"`)
		}
		b.WriteString(` val="` + escaper.Replace(p.Str) + `"/>`)
	case types.KindFormula:
		b.WriteString(`<attform name="` + escaper.Replace(p.Name) + `" val="` + escaper.Replace(p.Str) + `"/>`)
	default:
		return "", false
	}
	return b.String(), true
}

// WriteBuf serializes the document into buf and returns the number of
// bytes used. A line that does not fit fails the write with
// types.ErrTruncated; buf then holds every complete line before it.
func (h *Handle) WriteBuf(buf []byte) (int, error) {
	if !h.valid("WriteBuf") {
		return 0, types.ErrInvalidHandle
	}
	if len(buf) == 0 {
		return 0, types.Wrapf(types.ErrTruncated, "empty buffer")
	}
	mw := &writer.MemWriter{Buf: buf[:0], Limit: len(buf)}
	h.Rewind()
	for {
		line, ok := h.NextLine()
		if !ok {
			return len(mw.Buf), nil
		}
		if _, err := mw.WriteString(line); err != nil {
			if errors.Is(err, writer.ErrFull) {
				return len(mw.Buf), types.Wrapf(types.ErrTruncated, "%d byte buffer", len(buf))
			}
			return len(mw.Buf), err
		}
	}
}

// WriteString serializes the whole document into a string.
func (h *Handle) WriteString() (string, error) {
	var b strings.Builder
	if _, err := h.WriteTo(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteTo streams the document to w line by line.
func (h *Handle) WriteTo(w io.Writer) (int64, error) {
	if !h.valid("WriteTo") {
		return 0, types.ErrInvalidHandle
	}
	var n int64
	h.Rewind()
	for {
		line, ok := h.NextLine()
		if !ok {
			return n, nil
		}
		written, err := io.WriteString(w, line)
		n += int64(written)
		if err != nil {
			return n, &types.Error{Kind: types.ErrKindIO, Msg: "write document", Err: err}
		}
	}
}

// WriteFile writes the document to path atomically. An empty path means
// the document's own file name. Nothing is left at path on failure.
func (h *Handle) WriteFile(path string) error {
	if !h.valid("WriteFile") {
		return types.ErrInvalidHandle
	}
	if path == "" {
		path = h.hdr.filename
	}
	if path == "" {
		return types.Wrapf(types.ErrInvalidPath, "document has no file name")
	}

	fw, err := writer.Create(path)
	if err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: "write document", Err: err}
	}
	if _, err := h.WriteTo(fw); err != nil {
		fw.Abort()
		return err
	}
	if err := fw.Commit(); err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: "write document", Err: err}
	}
	return nil
}

// formatNum writes v in unit. Unitless values use the shortest form that
// reloads exactly; converted values are rounded to numPrecision digits.
func formatNum(v float64, unit string) string {
	if unit == "" {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', numPrecision, 64)
}
