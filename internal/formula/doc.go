// Package formula implements the formula boundary of the parameter store.
//
// An attform parameter keeps its raw expression text plus an opaque Expr
// produced by a Parser. Reading the parameter evaluates the Expr against
// the document's variable bindings and yields a number or a string.
//
// The default Parser uses HCL native syntax, so formulas are ordinary
// arithmetic and conditional expressions:
//
//	expr, _ := formula.Parse("car.engine.rpm > 6000 ? 1 : 0.5 * gain")
//	v, _ := expr.Eval(formula.Bindings{"car/engine/rpm": 6500, "gain": 2})
//	// v.Num == 1
//
// Binding keys are '/'-separated paths. Each path segment becomes an
// attribute step, so "car/engine/rpm" is read as car.engine.rpm.
package formula
