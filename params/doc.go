// Package params is a hierarchical parameter store backed by XML files.
//
// A document is a tree of named sections holding typed parameters:
//
//   - numeric (attnum): a value with [min, max] bounds and an optional
//     display unit; values are stored in SI units
//   - string (attstr): a value with an optional enumeration of allowed values
//   - formula (attform): an expression evaluated on read against the
//     document's variable bindings
//
// Documents are opened through a Registry, which hands out Handles.
// Opening the same file twice in shared mode yields two Handles on one
// reference-counted document; private mode always loads an independent copy.
//
// Basic usage:
//
//	reg := params.NewRegistry(params.Options{})
//	defer reg.Close()
//
//	h, err := reg.ReadFile("car.xml", params.ReadShared)
//	if err != nil {
//	    return err
//	}
//	defer h.Release()
//
//	rpm := h.GetNum("Car/Engine", "rpm", "rpm", 0)
//	_ = h.SetNum("Car/Engine", "rpm", "rpm", 9000) // clamped to max, warning logged
//	if err := h.WriteFile(""); err != nil {
//	    return err
//	}
//
// Every path is a '/'-separated section path. Leading and trailing
// separators are ignored, so "/Car/Engine" and "Car/Engine" name the same
// section. The key may itself contain separators: ("Car", "Engine/rpm")
// addresses the same param as ("Car/Engine", "rpm").
//
// Error policy:
//
//   - Getters never fail. A missing param yields the caller's default.
//   - Out-of-range numbers and disallowed enumeration values are corrected
//     (clamped, widened or ignored) and logged at Warn; mutators return nil.
//   - A released Handle logs at Error and returns the neutral value or
//     types.ErrInvalidHandle.
//
// Concurrency: a document has no internal locking. Handles on the same
// document may serialize concurrently, since each Handle owns its output
// cursor, but every mutation must be serialized by the caller.
package params
