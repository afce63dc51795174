// Package types defines the shared vocabulary of the parameter store:
// typed errors with stable categories, parameter kinds, and the
// validation report produced when a document is checked against a
// reference schema.
//
// Design goals:
//   - Typed errors with stable categories (format/notfound/type/state/...).
//   - Lookups never fail loudly; misses return the caller's default.
//   - Out-of-range data is corrected and reported, never rejected.
//
// This package has no dependencies beyond the standard library.
package types
