// Package snapshot stores parameter documents in a compact binary form.
//
// A Snapshot captures everything the XML form carries (metadata,
// sections in document order, every param with its SI payload) plus the
// formula variable bindings, which the XML form drops. Values are kept in
// SI so a restore reproduces them bit for bit.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/joshuapare/paramkit/internal/writer"
	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
)

// FormatVersion is bumped whenever the encoded layout changes.
const FormatVersion = 1

// ErrFormatVersion is returned when decoding a snapshot written by an
// incompatible version.
var ErrFormatVersion = errors.New("snapshot: unsupported format version")

// encMode is deterministic so equal documents encode to equal bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// Snapshot is the encoded form of one document.
type Snapshot struct {
	Format   int                `cbor:"1,keyasint"`
	Name     string             `cbor:"2,keyasint"`
	FileName string             `cbor:"3,keyasint,omitempty"`
	DTD      string             `cbor:"4,keyasint,omitempty"`
	Comment  string             `cbor:"5,keyasint,omitempty"`
	Major    int                `cbor:"6,keyasint,omitempty"`
	Minor    int                `cbor:"7,keyasint,omitempty"`
	Sections []string           `cbor:"8,keyasint,omitempty"`
	Params   []Param            `cbor:"9,keyasint,omitempty"`
	Vars     map[string]float64 `cbor:"10,keyasint,omitempty"`
}

// Param is one encoded param. Numeric fields are in SI.
type Param struct {
	Path   string          `cbor:"1,keyasint"`
	Kind   types.ParamKind `cbor:"2,keyasint"`
	Num    float64         `cbor:"3,keyasint,omitempty"`
	Min    float64         `cbor:"4,keyasint,omitempty"`
	Max    float64         `cbor:"5,keyasint,omitempty"`
	Unit   string          `cbor:"6,keyasint,omitempty"`
	Str    string          `cbor:"7,keyasint,omitempty"`
	Within []string        `cbor:"8,keyasint,omitempty"`
}

// Take captures the document behind h.
func Take(h *params.Handle) (*Snapshot, error) {
	tree := h.Tree()
	if tree == nil {
		return nil, types.ErrInvalidHandle
	}

	s := &Snapshot{
		Format:   FormatVersion,
		Name:     h.Name(),
		FileName: h.FileName(),
		Vars:     h.Variables(),
	}
	s.DTD, s.Comment = h.DTD()
	s.Major, s.Minor = h.Version()

	tree.Walk(func(sec *ast.Section) {
		if sec.FullName != "" {
			s.Sections = append(s.Sections, sec.FullName)
		}
		for _, p := range sec.Params {
			if p.Kind == types.KindNone {
				continue
			}
			s.Params = append(s.Params, Param{
				Path:   p.FullName,
				Kind:   p.Kind,
				Num:    p.Num,
				Min:    p.Min,
				Max:    p.Max,
				Unit:   p.Unit,
				Str:    p.Str,
				Within: p.Within,
			})
		}
	})
	return s, nil
}

// Restore builds a new private document from s in reg. Formulas that no
// longer parse are kept as text, the same way the XML loader keeps them.
func (s *Snapshot) Restore(reg *params.Registry) (*params.Handle, error) {
	if s.Format != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrFormatVersion, s.Format)
	}

	h := reg.New(s.FileName, s.Name)
	_ = h.SetDTD(s.DTD, s.Comment)
	_ = h.SetVersion(s.Major, s.Minor)
	tree := h.Tree()

	for _, path := range s.Sections {
		if _, err := tree.EnsureSection(path); err != nil {
			h.Release()
			return nil, fmt.Errorf("restore section %q: %w", path, err)
		}
	}

	for _, sp := range s.Params {
		if err := restoreParam(h, tree, sp); err != nil {
			h.Release()
			return nil, fmt.Errorf("restore param %q: %w", sp.Path, err)
		}
	}

	for name, v := range s.Vars {
		if err := h.SetVariable("", name, v); err != nil {
			h.Release()
			return nil, err
		}
	}
	return h, nil
}

func restoreParam(h *params.Handle, tree *ast.Tree, sp Param) error {
	if sp.Kind == types.KindFormula {
		if err := h.SetFormula("", sp.Path, sp.Str); err == nil {
			return nil
		}
	}

	p, err := tree.Param("", sp.Path, true)
	if err != nil {
		return err
	}
	switch sp.Kind {
	case types.KindNumber:
		if math.IsNaN(sp.Num) || math.IsNaN(sp.Min) || math.IsNaN(sp.Max) {
			tree.RemoveParam(p)
			return types.Wrapf(types.ErrInvalidValue, "NaN in %q", sp.Path)
		}
		p.SetNumber(sp.Num, sp.Min, sp.Max, sp.Unit)
	case types.KindString:
		p.SetString(sp.Str, sp.Within)
	case types.KindFormula:
		p.SetFormula(sp.Str, nil)
	default:
		tree.RemoveParam(p)
		return fmt.Errorf("unknown kind %s", sp.Kind)
	}
	return nil
}

// Encode returns the CBOR encoding of the document behind h.
func Encode(h *params.Handle) ([]byte, error) {
	s, err := Take(h)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(s)
}

// Decode parses CBOR bytes into a Snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := decMode.Unmarshal(data, &s); err != nil {
		return nil, types.Wrap(types.ErrParse, err)
	}
	return &s, nil
}

// Write encodes the document behind h to w.
func Write(w io.Writer, h *params.Handle) error {
	s, err := Take(h)
	if err != nil {
		return err
	}
	return encMode.NewEncoder(w).Encode(s)
}

// Read decodes one snapshot from r.
func Read(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := decMode.NewDecoder(r).Decode(&s); err != nil {
		return nil, types.Wrap(types.ErrParse, err)
	}
	return &s, nil
}

// SaveFile atomically writes the snapshot of h to path.
func SaveFile(path string, h *params.Handle) error {
	data, err := Encode(h)
	if err != nil {
		return err
	}
	return writer.WriteFile(path, data)
}

// LoadFile reads a snapshot file and restores it into reg.
func LoadFile(reg *params.Registry, path string) (*params.Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, types.Wrap(types.ErrNotFound, err)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Restore(reg)
}
