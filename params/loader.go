package params

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/joshuapare/paramkit/internal/xmlsax"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
	"github.com/joshuapare/paramkit/pkg/units"
)

// Element and attribute names of the file format.
const (
	elemParams  = "params"
	elemSection = "section"
	elemNum     = "attnum"
	elemStr     = "attstr"
	elemForm    = "attform"

	attrName    = "name"
	attrVal     = "val"
	attrMin     = "min"
	attrMax     = "max"
	attrUnit    = "unit"
	attrIn      = "in"
	attrVersion = "version"

	withinSeparator = ","
)

// loader receives parser callbacks for one Handle. Once the Handle's
// parse error is set, every callback is a no-op for the rest of the load.
type loader struct {
	h *Handle
}

// parse feeds r into h's document. The tree is not rolled back on error.
func (h *Handle) parse(r io.Reader, baseDir string) error {
	h.cur = h.hdr.tree.Root
	h.parseErr = nil

	p := &xmlsax.Parser{
		Handler:  loader{h: h},
		Resolver: h.reg.opts.Resolver,
		BaseDir:  baseDir,
		Logger:   h.logger(),
	}
	if err := p.Parse(r); err != nil {
		h.fail(types.Wrap(types.ErrParse, err))
	}
	h.cur = nil
	return h.parseErr
}

// reread clears the document and parses its file again.
func (h *Handle) reread() error {
	hdr := h.hdr
	hdr.tree.Reset()
	hdr.name, hdr.dtd, hdr.comment = "", "", ""
	hdr.major, hdr.minor = 0, 0

	rc, err := h.reg.resolver()(hdr.filename)
	if err != nil {
		return openError(err)
	}
	defer rc.Close()
	return h.parse(rc, dirOf(hdr.filename))
}

// fail records the first structural error of the current load.
func (h *Handle) fail(err error) {
	if h.parseErr != nil {
		return
	}
	h.parseErr = err
	h.logger().Error("document load failed", "file", h.hdr.filename, "err", err)
}

func (l loader) StartElement(name string, attrs xmlsax.Attrs) {
	h := l.h
	if h.parseErr != nil {
		return
	}
	switch name {
	case elemParams:
		l.params(attrs)
	case elemSection:
		l.section(attrs)
	case elemNum:
		l.number(attrs)
	case elemStr:
		l.str(attrs)
	case elemForm:
		l.form(attrs)
	}
}

func (l loader) EndElement(name string) {
	h := l.h
	if h.parseErr != nil || name != elemSection {
		return
	}
	if h.cur == nil || h.cur.Parent == nil {
		h.fail(types.Wrapf(types.ErrParse, "unbalanced </section>"))
		return
	}
	h.cur = h.cur.Parent
}

func (l loader) Doctype(systemID string) {
	if l.h.parseErr == nil {
		l.h.hdr.dtd = systemID
	}
}

func (l loader) Comment(text string) {
	if l.h.parseErr == nil && l.h.hdr.comment == "" {
		l.h.hdr.comment = text
	}
}

func (l loader) params(attrs xmlsax.Attrs) {
	h := l.h
	name, ok := attrs.Get(attrName)
	if !ok {
		h.fail(types.Wrapf(types.ErrParse, "missing %q in <%s>", attrName, elemParams))
		return
	}
	h.hdr.name = name
	if v, ok := attrs.Get(attrVersion); ok {
		h.hdr.major, h.hdr.minor = parseVersion(v)
	}
	h.cur = h.hdr.tree.Root
}

func (l loader) section(attrs xmlsax.Attrs) {
	h := l.h
	name, ok := attrs.Get(attrName)
	if !ok || ast.CleanPath(name) == "" {
		h.fail(types.Wrapf(types.ErrParse, "missing %q in <%s>", attrName, elemSection))
		return
	}
	sec, err := h.hdr.tree.AddSection(ast.JoinPath(h.cur.FullName, name))
	if err != nil {
		h.fail(types.Wrap(types.ErrParse, err))
		return
	}
	h.cur = sec
}

func (l loader) number(attrs xmlsax.Attrs) {
	h := l.h
	name, raw, ok := required(attrs)
	if !ok {
		h.fail(types.Wrapf(types.ErrParse, "missing %q or %q in <%s> under %q", attrName, attrVal, elemNum, h.cur.FullName))
		return
	}
	unit, _ := attrs.Get(attrUnit)
	if unit != "" && !units.Valid(unit) {
		h.logger().Warn("unknown unit, value kept as is", "file", h.hdr.filename, "param", name, "unit", unit)
	}

	val, err := parseFloat(raw)
	if err != nil {
		h.fail(types.Wrapf(types.ErrParse, "%s %q: bad %s %q", elemNum, name, attrVal, raw))
		return
	}
	lo, hi := val, val
	if v, ok := attrs.Get(attrMin); ok {
		if lo, err = parseFloat(v); err != nil {
			h.fail(types.Wrapf(types.ErrParse, "%s %q: bad %s %q", elemNum, name, attrMin, v))
			return
		}
	}
	if v, ok := attrs.Get(attrMax); ok {
		if hi, err = parseFloat(v); err != nil {
			h.fail(types.Wrapf(types.ErrParse, "%s %q: bad %s %q", elemNum, name, attrMax, v))
			return
		}
	}

	val, lo, hi = units.ToSI(unit, val), units.ToSI(unit, lo), units.ToSI(unit, hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	if val < lo || val > hi {
		h.logger().Warn("loaded value outside bounds, bounds widened",
			"file", h.hdr.filename, "param", ast.JoinPath(h.cur.FullName, name),
			"value", val, "min", lo, "max", hi)
		lo, hi = min(lo, val), max(hi, val)
	}

	p, ok := l.param(name)
	if !ok {
		return
	}
	p.SetNumber(val, lo, hi, unit)
}

func (l loader) str(attrs xmlsax.Attrs) {
	h := l.h
	name, val, ok := required(attrs)
	if !ok {
		h.fail(types.Wrapf(types.ErrParse, "missing %q or %q in <%s> under %q", attrName, attrVal, elemStr, h.cur.FullName))
		return
	}
	var within []string
	if in, ok := attrs.Get(attrIn); ok {
		within = splitWithin(in)
	}

	p, ok := l.param(name)
	if !ok {
		return
	}
	p.SetString(val, within)
	if !p.Allows(val) {
		h.logger().Warn("loaded value not in enumeration",
			"file", h.hdr.filename, "param", p.FullName, "value", val, "in", strings.Join(within, withinSeparator))
	}
}

func (l loader) form(attrs xmlsax.Attrs) {
	h := l.h
	name, text, ok := required(attrs)
	if !ok {
		h.fail(types.Wrapf(types.ErrParse, "missing %q or %q in <%s> under %q", attrName, attrVal, elemForm, h.cur.FullName))
		return
	}
	p, ok := l.param(name)
	if !ok {
		return
	}
	expr, err := h.reg.formulas().Parse(text)
	if err != nil {
		h.logger().Warn("formula does not parse, kept as text", "file", h.hdr.filename, "param", p.FullName, "err", err)
		expr = nil
	}
	p.SetFormula(text, expr)
}

// param creates or fetches name under the current section.
func (l loader) param(name string) (*ast.Param, bool) {
	p, err := l.h.hdr.tree.Param(l.h.cur.FullName, name, true)
	if err != nil {
		l.h.fail(types.Wrap(types.ErrParse, err))
		return nil, false
	}
	return p, true
}

func required(attrs xmlsax.Attrs) (name, val string, ok bool) {
	name, okName := attrs.Get(attrName)
	val, okVal := attrs.Get(attrVal)
	return name, val, okName && okVal && name != ""
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number: %w", err)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("parse number: %q is not a number", s)
	}
	return f, nil
}

// parseVersion reads "<major>.<minor>". Characters other than digits and
// the first '.' are skipped.
func parseVersion(s string) (major, minor int) {
	dst := &major
	for _, c := range s {
		switch {
		case c == '.' && dst == &major:
			dst = &minor
		case c >= '0' && c <= '9':
			*dst = *dst*10 + int(c-'0')
		}
	}
	return major, minor
}

// splitWithin turns "a, b,c" into [a b c].
func splitWithin(in string) []string {
	var out []string
	for _, item := range strings.Split(in, withinSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
