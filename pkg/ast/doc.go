// Package ast provides the in-memory tree behind a parameter document.
//
// A Tree is a hierarchy of named sections. Each section owns an ordered
// list of params and an ordered list of child sections. Two path-keyed
// hash indexes (one for sections, one for params) make lookup by full
// path O(1) no matter how deep the tree is.
//
// # Paths
//
// Section paths are '/'-separated without a leading separator
// ("Car/Engine"); the root section's path is the empty string. A param's
// full name is its section's path, a '/', and the param name
// ("Car/Engine/rpm", or "/version" for a param held by the root).
// CleanPath normalizes user input such as "/Car/Engine/" before lookup.
//
// # Consistency
//
// The tree maintains one automatic invariant: a non-root section with no
// params and no children is unused, and is removed as soon as a removal
// leaves it empty. The check cascades to the parent, so removing the last
// param of a deep branch removes the whole branch up to the first
// ancestor that still holds something. The root is never removed.
//
// # Usage Example
//
//	tree := ast.NewTree()
//	engine, _ := tree.AddSection("Car/Engine") // creates "Car" too
//	p, _ := tree.Param("Car/Engine", "rpm", true)
//	p.SetNumber(418.88, 0, 837.76, "rpm")
//
//	tree.RemoveParam(p) // removes "Car/Engine" and "Car"
//
// Trees are not safe for concurrent mutation.
package ast
