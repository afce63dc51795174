package formula

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// PathSeparator separates binding path segments.
const PathSeparator = "/"

var (
	// ErrReleased is returned when evaluating a released expression.
	ErrReleased = errors.New("formula: expression released")

	// ErrResultType is returned when an expression yields neither a number nor a string.
	ErrResultType = errors.New("formula: result is neither number nor string")
)

// Bindings maps variable paths to numeric values.
type Bindings map[string]float64

// Value is the result of an evaluation.
type Value struct {
	IsNum bool
	Num   float64
	Str   string
}

// Float returns the numeric form of v. Strings are parsed; unparsable
// strings report false.
func (v Value) Float() (float64, bool) {
	if v.IsNum {
		return v.Num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// String returns the textual form of v.
func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return v.Str
}

// Expr is an opaque parsed formula.
type Expr interface {
	// Source returns the raw text the expression was parsed from.
	Source() string

	// Eval evaluates the expression against vars.
	Eval(vars Bindings) (Value, error)

	// Release drops the parsed form. Eval fails afterwards.
	Release()
}

// Parser turns formula text into an Expr.
type Parser interface {
	Parse(text string) (Expr, error)
}

// HCL is the default Parser.
type HCL struct{}

// Parse implements Parser.
func (HCL) Parse(text string) (Expr, error) {
	parsed, diags := hclsyntax.ParseExpression([]byte(text), "attform", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("formula: parse %q: %s", text, diags.Error())
	}
	return &hclExpr{src: text, expr: parsed}, nil
}

// Parse parses text with the default HCL parser.
func Parse(text string) (Expr, error) {
	return HCL{}.Parse(text)
}

// functions available to every formula.
var functions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"pow":    stdlib.PowFunc,
	"signum": stdlib.SignumFunc,
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"format": stdlib.FormatFunc,
}

type hclExpr struct {
	src  string
	expr hclsyntax.Expression
}

func (e *hclExpr) Source() string { return e.src }

func (e *hclExpr) Release() { e.expr = nil }

// Variables returns the root names the expression references.
func (e *hclExpr) Variables() []string {
	if e.expr == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, tr := range e.expr.Variables() {
		name := tr.RootName()
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (e *hclExpr) Eval(vars Bindings) (Value, error) {
	if e.expr == nil {
		return Value{}, ErrReleased
	}
	ctx := &hcl.EvalContext{
		Variables: bindingsToCty(vars),
		Functions: functions,
	}
	val, diags := e.expr.Value(ctx)
	if diags.HasErrors() {
		return Value{}, fmt.Errorf("formula: eval %q: %s", e.src, diags.Error())
	}
	return fromCty(val)
}

func fromCty(val cty.Value) (Value, error) {
	if val.IsNull() || !val.IsKnown() {
		return Value{}, ErrResultType
	}
	switch val.Type() {
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return Value{IsNum: true, Num: f}, nil
	case cty.String:
		return Value{Str: val.AsString()}, nil
	case cty.Bool:
		if val.True() {
			return Value{IsNum: true, Num: 1}, nil
		}
		return Value{IsNum: true, Num: 0}, nil
	default:
		return Value{}, ErrResultType
	}
}

// node is an intermediate tree used to turn flat path bindings into
// nested cty objects.
type node struct {
	leaf     bool
	value    float64
	children map[string]*node
}

// bindingsToCty converts path-keyed bindings into nested objects.
// When a path is both a leaf and a prefix of another path, the nested
// object wins.
func bindingsToCty(vars Bindings) map[string]cty.Value {
	root := &node{children: make(map[string]*node)}
	for path, v := range vars {
		cur := root
		for _, seg := range splitPath(path) {
			next, ok := cur.children[seg]
			if !ok {
				next = &node{children: make(map[string]*node)}
				cur.children[seg] = next
			}
			cur = next
		}
		if cur != root {
			cur.leaf = true
			cur.value = v
		}
	}
	out := make(map[string]cty.Value, len(root.children))
	for name, child := range root.children {
		out[name] = child.toCty()
	}
	return out
}

func (n *node) toCty() cty.Value {
	if len(n.children) == 0 {
		if math.IsNaN(n.value) {
			return cty.DynamicVal
		}
		return cty.NumberVal(new(big.Float).SetFloat64(n.value))
	}
	attrs := make(map[string]cty.Value, len(n.children))
	for name, child := range n.children {
		attrs[name] = child.toCty()
	}
	return cty.ObjectVal(attrs)
}

func splitPath(path string) []string {
	parts := strings.Split(path, PathSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
