// Package index provides the path-keyed hash indexes behind the section
// tree.
//
// A document keeps two of them: one mapping a section's full path
// ("Car/Engine") to the section, one mapping a param's full path
// ("Car/Engine/rpm") to the param. Both give O(1) lookup regardless of
// tree depth, so accessors never walk the tree.
//
// Keys are case-sensitive and stored exactly as given; normalization of
// leading or trailing separators is the caller's job.
//
//	idx := index.New[*Section](64)
//	idx.Insert("Car/Engine", engine)
//	sec, ok := idx.Get("Car/Engine")
//
// Indexes are not safe for concurrent mutation.
package index
