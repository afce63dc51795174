package params

import (
	"log/slog"

	"github.com/joshuapare/paramkit/internal/formula"
	"github.com/joshuapare/paramkit/internal/xmlsax"
)

// ReadMode selects how ReadFile opens a document. Modes combine with |.
type ReadMode uint8

const (
	// ReadShared reuses an already open document with the same file name.
	ReadShared ReadMode = 1 << iota

	// ReadReread forces a full re-parse of a shared document that is
	// already open. Every Handle on it observes the new content.
	ReadReread

	// ReadCreate yields an empty document when the file does not exist.
	ReadCreate

	// ReadPrivate always loads an independent document. Overrides ReadShared.
	ReadPrivate
)

// Has reports whether every bit of flag is set in m.
func (m ReadMode) Has(flag ReadMode) bool { return m&flag == flag }

// MergeMode selects the merge passes and what happens to the inputs.
type MergeMode uint8

const (
	// MergeRefDriven copies every reference param, reconciled against the
	// target when the target has it too.
	MergeRefDriven MergeMode = 1 << iota

	// MergeTargetDriven copies every target param, reconciled against the
	// reference when the reference has it too.
	MergeTargetDriven

	// MergeReleaseRef releases the reference Handle after a successful merge.
	MergeReleaseRef

	// MergeReleaseTarget releases the target Handle after a successful merge.
	MergeReleaseTarget

	// MergeBoth runs both passes.
	MergeBoth = MergeRefDriven | MergeTargetDriven
)

// Has reports whether every bit of flag is set in m.
func (m MergeMode) Has(flag MergeMode) bool { return m&flag == flag }

// WriteOptions controls serialization.
type WriteOptions struct {
	// ForceBounds emits min and max on every numeric param, even when
	// they equal the value.
	ForceBounds bool
}

// Options configures a Registry.
type Options struct {
	// Logger receives warnings and errors. Nil means logger.L.
	Logger *slog.Logger

	// Formulas parses attform expressions. Nil means the HCL parser.
	Formulas formula.Parser

	// Resolver opens files for ReadFile and external entities.
	// Nil means the local file system.
	Resolver xmlsax.Resolver
}
