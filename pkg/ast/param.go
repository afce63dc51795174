package ast

import (
	"slices"

	"github.com/joshuapare/paramkit/internal/formula"
	"github.com/joshuapare/paramkit/pkg/types"
)

// Param is a named leaf value inside a Section.
type Param struct {
	// Identity
	Name     string   // unique within the owning section
	FullName string   // section full name + "/" + Name
	Section  *Section // owning section (non-owning back reference)

	Kind types.ParamKind

	// Numeric payload, stored in SI units.
	Num  float64
	Min  float64
	Max  float64
	Unit string // display unit, "" when the value is unitless

	// String payload, or the raw text of a formula.
	Str    string
	Within []string // allowed values; empty means unconstrained

	// Parsed formula, owned by this param.
	Expr formula.Expr
}

// SetNumber turns p into a numeric param. Bounds given in reverse order
// are swapped. The value is clamped into the bounds; the return value
// reports whether clamping happened.
func (p *Param) SetNumber(val, lo, hi float64, unit string) bool {
	p.reset(types.KindNumber)
	if lo > hi {
		lo, hi = hi, lo
	}
	p.Num, p.Min, p.Max, p.Unit = val, lo, hi, unit
	return p.Clamp()
}

// SetString turns p into a string param with an optional enumeration.
func (p *Param) SetString(val string, within []string) {
	p.reset(types.KindString)
	p.Str = val
	p.Within = slices.Clone(within)
}

// SetFormula turns p into a formula param. p takes ownership of expr.
func (p *Param) SetFormula(text string, expr formula.Expr) {
	p.reset(types.KindFormula)
	p.Str = text
	p.Expr = expr
}

// Clamp forces Num into [Min, Max] and reports whether it moved.
func (p *Param) Clamp() bool {
	switch {
	case p.Num < p.Min:
		p.Num = p.Min
		return true
	case p.Num > p.Max:
		p.Num = p.Max
		return true
	}
	return false
}

// Widen grows [Min, Max] to include Num and reports whether it moved.
func (p *Param) Widen() bool {
	switch {
	case p.Num < p.Min:
		p.Min = p.Num
		return true
	case p.Num > p.Max:
		p.Max = p.Num
		return true
	}
	return false
}

// InBounds reports whether v lies within [Min, Max].
func (p *Param) InBounds(v float64) bool {
	return v >= p.Min && v <= p.Max
}

// Allows reports whether v is acceptable under the enumeration.
// An empty enumeration allows everything.
func (p *Param) Allows(v string) bool {
	return len(p.Within) == 0 || slices.Contains(p.Within, v)
}

// IsWithin reports whether v is listed in the enumeration.
func (p *Param) IsWithin(v string) bool {
	return slices.Contains(p.Within, v)
}

// Release drops the formula handle, if any.
func (p *Param) Release() {
	if p.Expr != nil {
		p.Expr.Release()
		p.Expr = nil
	}
}

// reset clears every payload and switches the kind.
func (p *Param) reset(kind types.ParamKind) {
	p.Release()
	p.Kind = kind
	p.Num, p.Min, p.Max = 0, 0, 0
	p.Unit = ""
	p.Str = ""
	p.Within = nil
}
