package units

import (
	"math"
	"sort"
	"strings"
)

const (
	tokenMul    = '.'
	tokenDiv    = '/'
	tokenSquare = '2'
)

// coefficients maps a unit token to its multiplier into SI.
var coefficients = map[string]float64{
	// base units
	"m":   1,
	"kg":  1,
	"s":   1,
	"rad": 1,
	"Pa":  1,
	"N":   1,

	// length
	"feet":   0.304801,
	"ft":     0.304801,
	"km":     1000,
	"mm":     0.001,
	"cm":     0.01,
	"in":     0.0254,
	"inch":   0.0254,
	"inches": 0.0254,

	// angle
	"deg": math.Pi / 180,

	// time
	"h":     3600,
	"hour":  3600,
	"hours": 3600,
	"min":   60,
	"ms":    0.001,
	"day":   24 * 3600,
	"days":  24 * 3600,

	// mass
	"lbs":   0.45359237,
	"lb":    0.45359237,
	"slug":  14.59484546,
	"slugs": 14.59484546,
	"g":     0.001,

	// pressure
	"kPa": 1000,
	"MPa": 1000000,
	"PSI": 6894.76,
	"psi": 6894.76,
	"bar": 100000,

	// rotation and speed
	"rpm": 0.104719755,
	"RPM": 0.104719755,
	"mph": 0.44704,
	"MPH": 0.44704,

	// ratio
	"percent": 0.01,
	"%":       0.01,
}

// Coefficient returns the SI multiplier of a single unit token and
// whether the token is known.
func Coefficient(token string) (float64, bool) {
	c, ok := coefficients[token]
	return c, ok
}

// Known returns every registered unit token in sorted order.
func Known() []string {
	out := make([]string, 0, len(coefficients))
	for k := range coefficients {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ToSI converts val expressed in unit into SI.
// An empty unit returns val unchanged.
func ToSI(unit string, val float64) float64 {
	return convert(unit, val, false)
}

// FromSI converts an SI value into unit.
// An empty unit returns val unchanged.
func FromSI(unit string, val float64) float64 {
	return convert(unit, val, true)
}

// Factor returns the multiplier that converts one unit of the compound
// expression into SI, i.e. ToSI(unit, 1).
func Factor(unit string) float64 {
	return ToSI(unit, 1)
}

// Valid reports whether every token of a compound expression is known.
func Valid(unit string) bool {
	if unit == "" {
		return true
	}
	ok := true
	walk(unit, func(token string, _ bool) {
		if token == "" {
			return
		}
		if _, known := coefficients[token]; !known {
			ok = false
		}
	})
	return ok
}

// convert applies every token of unit to val. toUnit selects the
// direction: false multiplies numerators into SI, true divides.
func convert(unit string, val float64, toUnit bool) float64 {
	if unit == "" {
		return val
	}
	dest := val
	walk(unit, func(token string, divisor bool) {
		dest = apply(token, dest, divisor != toUnit)
	})
	return dest
}

// walk splits a compound unit expression and calls fn for every token
// application, in order. A squared token is reported twice.
func walk(unit string, fn func(token string, divisor bool)) {
	var b strings.Builder
	divisor := false
	for i := 0; i < len(unit); i++ {
		switch unit[i] {
		case tokenMul:
			fn(b.String(), divisor)
			b.Reset()
		case tokenDiv:
			fn(b.String(), divisor)
			b.Reset()
			divisor = true
		case tokenSquare:
			fn(b.String(), divisor)
			fn(b.String(), divisor)
			b.Reset()
		default:
			b.WriteByte(unit[i])
		}
	}
	fn(b.String(), divisor)
}

func apply(token string, val float64, inverse bool) float64 {
	coeff, ok := coefficients[token]
	if !ok {
		return val
	}
	if inverse {
		return val / coeff
	}
	return val * coeff
}
