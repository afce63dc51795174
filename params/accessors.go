package params

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/joshuapare/paramkit/internal/formula"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
	"github.com/joshuapare/paramkit/pkg/units"
)

// GetNum returns the numeric value at path/key converted to unit
// ("" means SI). Formula params are evaluated. Anything else, including
// a missing param, yields deflt.
func (h *Handle) GetNum(path, key, unit string, deflt float64) float64 {
	if !h.valid("GetNum") {
		return deflt
	}
	return h.numOf(h.hdr.tree.FindParam(path, key), unit, deflt)
}

// GetNumBounds returns the bounds of the numeric param at path/key
// converted to unit. ok is false when there is no such numeric param.
func (h *Handle) GetNumBounds(path, key, unit string) (lo, hi float64, ok bool) {
	if !h.valid("GetNumBounds") {
		return 0, 0, false
	}
	p := h.hdr.tree.FindParam(path, key)
	if p == nil || p.Kind != types.KindNumber {
		return 0, 0, false
	}
	return units.FromSI(unit, p.Min), units.FromSI(unit, p.Max), true
}

// GetUnit returns the display unit recorded for the numeric param at
// path/key.
func (h *Handle) GetUnit(path, key string) string {
	if !h.valid("GetUnit") {
		return ""
	}
	if p := h.hdr.tree.FindParam(path, key); p != nil && p.Kind == types.KindNumber {
		return p.Unit
	}
	return ""
}

// SetNum sets the numeric value at path/key, given in unit.
//
// A new param (or one of another kind) gets the point range [val, val].
// An existing numeric param keeps its bounds: a value outside them is
// clamped and a warning is logged. A non-empty unit becomes the param's
// display unit. NaN is rejected with types.ErrInvalidValue.
func (h *Handle) SetNum(path, key, unit string, val float64) error {
	if !h.valid("SetNum") {
		return types.ErrInvalidHandle
	}
	if math.IsNaN(val) {
		return types.Wrapf(types.ErrInvalidValue, "NaN for %q", ast.JoinPath(path, key))
	}
	p, err := h.hdr.tree.Param(path, key, true)
	if err != nil {
		return err
	}
	h.setNum(p, unit, val)
	return nil
}

// SetNumEx sets value and bounds at path/key, all given in unit.
// Reversed bounds are swapped; a value outside them is clamped with a
// warning. NaN in any of them is rejected with types.ErrInvalidValue.
func (h *Handle) SetNumEx(path, key, unit string, val, lo, hi float64) error {
	if !h.valid("SetNumEx") {
		return types.ErrInvalidHandle
	}
	if math.IsNaN(val) || math.IsNaN(lo) || math.IsNaN(hi) {
		return types.Wrapf(types.ErrInvalidValue, "NaN for %q", ast.JoinPath(path, key))
	}
	p, err := h.hdr.tree.Param(path, key, true)
	if err != nil {
		return err
	}
	if p.SetNumber(units.ToSI(unit, val), units.ToSI(unit, lo), units.ToSI(unit, hi), unit) {
		h.warnClamped(p, units.ToSI(unit, val))
	}
	return nil
}

// GetStr returns the string value at path/key. Formula params are
// evaluated and numeric results formatted. Anything else yields deflt.
func (h *Handle) GetStr(path, key, deflt string) string {
	if !h.valid("GetStr") {
		return deflt
	}
	return h.strOf(h.hdr.tree.FindParam(path, key), deflt)
}

// SetStr sets the string value at path/key. When the param already
// carries an enumeration that does not list val, a warning is logged
// and the old value is kept.
func (h *Handle) SetStr(path, key, val string) error {
	if !h.valid("SetStr") {
		return types.ErrInvalidHandle
	}
	p, err := h.hdr.tree.Param(path, key, true)
	if err != nil {
		return err
	}
	h.setStr(p, val)
	return nil
}

// SetStrIn sets the string value and its enumeration at path/key.
// A value outside a non-empty enumeration is stored with a warning.
// Enumeration entries must be non-empty, free of ',' and of surrounding
// spaces, since the file format stores them as one comma separated list.
func (h *Handle) SetStrIn(path, key, val string, within []string) error {
	if !h.valid("SetStrIn") {
		return types.ErrInvalidHandle
	}
	for _, w := range within {
		if w == "" || w != strings.TrimSpace(w) || strings.Contains(w, withinSeparator) {
			return types.Wrapf(types.ErrInvalidValue, "enumeration entry %q for %q", w, ast.JoinPath(path, key))
		}
	}
	p, err := h.hdr.tree.Param(path, key, true)
	if err != nil {
		return err
	}
	p.SetString(val, within)
	if !p.Allows(val) {
		h.logger().Warn("value not in enumeration", "file", h.hdr.filename, "param", p.FullName, "value", val)
	}
	return nil
}

// GetWithin returns a copy of the enumeration of the string param at
// path/key.
func (h *Handle) GetWithin(path, key string) []string {
	if !h.valid("GetWithin") {
		return nil
	}
	p := h.hdr.tree.FindParam(path, key)
	if p == nil || p.Kind != types.KindString {
		return nil
	}
	return slices.Clone(p.Within)
}

// GetFormula returns the raw text of the formula param at path/key.
func (h *Handle) GetFormula(path, key string) (string, bool) {
	if !h.valid("GetFormula") {
		return "", false
	}
	p := h.hdr.tree.FindParam(path, key)
	if p == nil || p.Kind != types.KindFormula {
		return "", false
	}
	return p.Str, true
}

// SetFormula parses text and stores it at path/key. A text that does not
// parse leaves the param untouched and returns an error wrapping
// types.ErrFormula.
func (h *Handle) SetFormula(path, key, text string) error {
	if !h.valid("SetFormula") {
		return types.ErrInvalidHandle
	}
	expr, err := h.reg.formulas().Parse(text)
	if err != nil {
		return types.Wrap(types.ErrFormula, err)
	}
	p, err := h.hdr.tree.Param(path, key, true)
	if err != nil {
		expr.Release()
		return err
	}
	p.SetFormula(text, expr)
	return nil
}

// IsFormula reports whether path/key is a formula param.
func (h *Handle) IsFormula(path, key string) bool {
	return h.Kind(path, key) == types.KindFormula
}

// Kind returns the kind of the param at path/key, KindNone when missing.
func (h *Handle) Kind(path, key string) types.ParamKind {
	if !h.valid("Kind") {
		return types.KindNone
	}
	if p := h.hdr.tree.FindParam(path, key); p != nil {
		return p.Kind
	}
	return types.KindNone
}

// ExistsSection reports whether a section exists at path. The root
// always exists.
func (h *Handle) ExistsSection(path string) bool {
	if !h.valid("ExistsSection") {
		return false
	}
	return h.hdr.tree.FindSection(path) != nil
}

// ExistsParam reports whether a param exists at path/key.
func (h *Handle) ExistsParam(path, key string) bool {
	if !h.valid("ExistsParam") {
		return false
	}
	return h.hdr.tree.FindParam(path, key) != nil
}

// RemoveParam deletes the param at path/key. Sections left empty are
// pruned up to the root.
func (h *Handle) RemoveParam(path, key string) error {
	if !h.valid("RemoveParam") {
		return types.ErrInvalidHandle
	}
	p := h.hdr.tree.FindParam(path, key)
	if p == nil {
		return types.Wrapf(types.ErrNotFound, "param %q", ast.JoinPath(path, key))
	}
	h.hdr.tree.RemoveParam(p)
	return nil
}

// RemoveSection deletes the section at path with everything below it.
// Removing the root clears the document.
func (h *Handle) RemoveSection(path string) error {
	if !h.valid("RemoveSection") {
		return types.ErrInvalidHandle
	}
	s := h.hdr.tree.FindSection(path)
	if s == nil {
		return types.Wrapf(types.ErrNotFound, "section %q", ast.CleanPath(path))
	}
	h.hdr.tree.RemoveSection(s)
	return nil
}

// SetVariable binds a number that formulas read as path.key with '/'
// turned into attribute steps. NaN and infinities are rejected with
// types.ErrInvalidValue.
func (h *Handle) SetVariable(path, key string, val float64) error {
	if !h.valid("SetVariable") {
		return types.ErrInvalidHandle
	}
	name := ast.JoinPath(path, key)
	if name == "" {
		return types.Wrapf(types.ErrInvalidPath, "empty variable name")
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return types.Wrapf(types.ErrInvalidValue, "variable %q = %v", name, val)
	}
	h.hdr.vars[name] = val
	return nil
}

// GetVariable returns a variable binding.
func (h *Handle) GetVariable(path, key string) (float64, bool) {
	if !h.valid("GetVariable") {
		return 0, false
	}
	v, ok := h.hdr.vars[ast.JoinPath(path, key)]
	return v, ok
}

// RemoveVariable drops a variable binding.
func (h *Handle) RemoveVariable(path, key string) {
	if h.valid("RemoveVariable") {
		delete(h.hdr.vars, ast.JoinPath(path, key))
	}
}

// Variables returns a copy of every variable binding.
func (h *Handle) Variables() map[string]float64 {
	if !h.valid("Variables") {
		return nil
	}
	return maps.Clone(map[string]float64(h.hdr.vars))
}

// numOf reads p as a number in unit.
func (h *Handle) numOf(p *ast.Param, unit string, deflt float64) float64 {
	if p == nil {
		return deflt
	}
	switch p.Kind {
	case types.KindNumber:
		return units.FromSI(unit, p.Num)
	case types.KindFormula:
		v, ok := h.eval(p)
		if !ok {
			return deflt
		}
		f, ok := v.Float()
		if !ok {
			return deflt
		}
		return units.FromSI(unit, f)
	}
	return deflt
}

// strOf reads p as a string.
func (h *Handle) strOf(p *ast.Param, deflt string) string {
	if p == nil {
		return deflt
	}
	switch p.Kind {
	case types.KindString:
		return p.Str
	case types.KindFormula:
		v, ok := h.eval(p)
		if !ok {
			return deflt
		}
		if v.IsNum {
			return strconv.FormatFloat(v.Num, 'g', -1, 64)
		}
		return v.Str
	}
	return deflt
}

func (h *Handle) eval(p *ast.Param) (formula.Value, bool) {
	if p.Expr == nil {
		return formula.Value{}, false
	}
	v, err := p.Expr.Eval(h.hdr.vars)
	if err != nil {
		h.logger().Warn("formula evaluation failed", "file", h.hdr.filename, "param", p.FullName, "err", err)
		return formula.Value{}, false
	}
	return v, true
}

func (h *Handle) setNum(p *ast.Param, unit string, val float64) {
	si := units.ToSI(unit, val)
	if p.Kind != types.KindNumber {
		p.SetNumber(si, si, si, unit)
		return
	}
	if unit != "" {
		p.Unit = unit
	}
	p.Num = si
	if p.Clamp() {
		h.warnClamped(p, si)
	}
}

func (h *Handle) setStr(p *ast.Param, val string) {
	if p.Kind != types.KindString {
		p.SetString(val, nil)
		return
	}
	if !p.Allows(val) {
		h.logger().Warn("value not in enumeration, kept previous value",
			"file", h.hdr.filename, "param", p.FullName, "value", val, "kept", p.Str)
		return
	}
	p.Str = val
}

func (h *Handle) warnClamped(p *ast.Param, requested float64) {
	h.logger().Warn("value out of bounds, clamped",
		"file", h.hdr.filename, "param", p.FullName,
		"value", requested, "min", p.Min, "max", p.Max, "stored", p.Num)
}
