package params

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/joshuapare/paramkit/internal/logger"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
)

// handleMagic marks a live Handle. Release clears it.
const handleMagic uint32 = 0x50524d48

// Handle is a consumer's view of one document.
//
// Each Handle owns its load state and its serializer cursor, so two
// Handles on one shared document can write it out independently.
type Handle struct {
	magic   uint32
	reg     *Registry
	hdr     *header
	private bool

	// load state
	cur      *ast.Section
	parseErr error

	// output state
	out   output
	wopts WriteOptions
}

// Release gives up the Handle. The document is freed when its last
// Handle is released. Using h afterwards logs an error and returns
// neutral values.
func (h *Handle) Release() {
	if !h.valid("Release") {
		return
	}
	h.reg.drop(h)
	h.magic = 0
	h.hdr = nil
	h.cur = nil
	h.out = output{}
}

// Valid reports whether h is live.
func (h *Handle) Valid() bool {
	return h != nil && h.magic == handleMagic && h.hdr != nil
}

// Private reports whether h was opened on an unshared document.
func (h *Handle) Private() bool { return h.Valid() && h.private }

// RefCount returns the number of Handles on h's document.
func (h *Handle) RefCount() int {
	if !h.valid("RefCount") {
		return 0
	}
	return h.hdr.refcount
}

// Name returns the logical document name.
func (h *Handle) Name() string {
	if !h.valid("Name") {
		return ""
	}
	return h.hdr.name
}

// SetName changes the logical document name.
func (h *Handle) SetName(name string) error {
	if !h.valid("SetName") {
		return types.ErrInvalidHandle
	}
	h.hdr.name = name
	return nil
}

// FileName returns the file the document was read from or will be
// written to.
func (h *Handle) FileName() string {
	if !h.valid("FileName") {
		return ""
	}
	return h.hdr.filename
}

// Version returns the document's major and minor version.
func (h *Handle) Version() (major, minor int) {
	if !h.valid("Version") {
		return 0, 0
	}
	return h.hdr.major, h.hdr.minor
}

// SetVersion sets the document version.
func (h *Handle) SetVersion(major, minor int) error {
	if !h.valid("SetVersion") {
		return types.ErrInvalidHandle
	}
	h.hdr.major, h.hdr.minor = major, minor
	return nil
}

// DTD returns the DOCTYPE system identifier and the leading comment.
func (h *Handle) DTD() (dtd, comment string) {
	if !h.valid("DTD") {
		return "", ""
	}
	return h.hdr.dtd, h.hdr.comment
}

// SetDTD sets the DOCTYPE system identifier and the leading comment.
// An empty dtd is written as the default "params.dtd".
func (h *Handle) SetDTD(dtd, comment string) error {
	if !h.valid("SetDTD") {
		return types.ErrInvalidHandle
	}
	h.hdr.dtd, h.hdr.comment = dtd, comment
	return nil
}

// Tree exposes the document's section tree for read-only traversal.
// It returns nil for a released Handle.
func (h *Handle) Tree() *ast.Tree {
	if !h.valid("Tree") {
		return nil
	}
	return h.hdr.tree
}

// valid logs misuse of a released or zero Handle.
func (h *Handle) valid(op string) bool {
	if h.Valid() {
		return true
	}
	h.logger().Error("invalid parameter handle", "op", op)
	return false
}

func (h *Handle) logger() *slog.Logger {
	if h == nil || h.reg == nil {
		return logger.L
	}
	return h.reg.logger()
}

func bytesReader(data []byte) io.Reader { return bytes.NewReader(data) }
