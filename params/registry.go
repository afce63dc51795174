package params

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/joshuapare/paramkit/internal/formula"
	"github.com/joshuapare/paramkit/internal/logger"
	"github.com/joshuapare/paramkit/internal/xmlsax"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
)

// header is one loaded document. It is shared by every Handle opened on
// it and freed when the last one is released.
type header struct {
	tree *ast.Tree

	filename string // cleaned path, registry key for shared documents
	name     string // logical name from <params name="...">
	dtd      string
	comment  string // leading comment text, without <!-- -->
	major    int
	minor    int

	vars     formula.Bindings
	refcount int
	shared   bool
}

func newHeader(filename string) *header {
	return &header{
		tree:     ast.NewTree(),
		filename: filename,
		vars:     make(formula.Bindings),
	}
}

// free drops the tree and the bindings.
func (hdr *header) free() {
	hdr.tree.Reset()
	hdr.vars = nil
}

// Registry tracks open documents and the Handles on them.
//
// Shared documents are keyed by cleaned file name. The Registry is not
// safe for concurrent use.
type Registry struct {
	opts   Options
	shared map[string]*header
	open   map[*Handle]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:   opts,
		shared: make(map[string]*header),
		open:   make(map[*Handle]struct{}),
	}
}

// ReadFile opens the document at path.
//
// Unless mode has ReadPrivate, a document already open under the same
// file name is reused and its refcount incremented; with ReadReread it
// is re-parsed first. A missing file is an error unless mode has
// ReadCreate, in which case an empty document is returned.
//
// A structural parse error is returned wrapped around types.ErrParse
// together with the Handle: the partially loaded tree is kept and the
// caller must still Release the Handle.
func (r *Registry) ReadFile(path string, mode ReadMode) (*Handle, error) {
	key := filepath.Clean(path)
	private := mode.Has(ReadPrivate)

	if !private {
		if hdr, ok := r.shared[key]; ok {
			hdr.refcount++
			h := r.newHandle(hdr, false)
			if mode.Has(ReadReread) {
				return h, h.reread()
			}
			return h, nil
		}
	}

	hdr := newHeader(key)
	hdr.shared = !private
	if hdr.shared {
		r.shared[key] = hdr
	}
	hdr.refcount = 1
	h := r.newHandle(hdr, private)

	rc, err := r.resolver()(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && mode.Has(ReadCreate) {
			return h, nil
		}
		h.Release()
		return nil, openError(err)
	}
	defer rc.Close()

	return h, h.parse(rc, dirOf(path))
}

// ReadBuf loads a private document from memory. External entities
// resolve relative to the working directory.
func (r *Registry) ReadBuf(data []byte) (*Handle, error) {
	hdr := newHeader("")
	hdr.refcount = 1
	h := r.newHandle(hdr, true)
	return h, h.parse(bytesReader(data), ".")
}

// New creates an empty private document that will be written to
// filename. name is the logical document name.
func (r *Registry) New(filename, name string) *Handle {
	if filename != "" {
		filename = filepath.Clean(filename)
	}
	hdr := newHeader(filename)
	hdr.name = name
	hdr.refcount = 1
	return r.newHandle(hdr, true)
}

// Len returns the number of live Handles.
func (r *Registry) Len() int { return len(r.open) }

// SharedFiles lists the file names of open shared documents, sorted.
func (r *Registry) SharedFiles() []string {
	out := make([]string, 0, len(r.shared))
	for name := range r.shared {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close releases every Handle still open.
func (r *Registry) Close() {
	for h := range r.open {
		h.Release()
	}
}

func (r *Registry) newHandle(hdr *header, private bool) *Handle {
	h := &Handle{
		magic:   handleMagic,
		reg:     r,
		hdr:     hdr,
		private: private,
	}
	r.open[h] = struct{}{}
	return h
}

// drop forgets h and frees its document when h held the last reference.
func (r *Registry) drop(h *Handle) {
	delete(r.open, h)
	hdr := h.hdr
	hdr.refcount--
	if hdr.refcount > 0 {
		return
	}
	if hdr.shared && r.shared[hdr.filename] == hdr {
		delete(r.shared, hdr.filename)
	}
	hdr.free()
}

func (r *Registry) logger() *slog.Logger {
	if r != nil && r.opts.Logger != nil {
		return r.opts.Logger
	}
	return logger.L
}

func (r *Registry) formulas() formula.Parser {
	if r.opts.Formulas != nil {
		return r.opts.Formulas
	}
	return formula.HCL{}
}

func (r *Registry) resolver() xmlsax.Resolver {
	if r.opts.Resolver != nil {
		return r.opts.Resolver
	}
	return xmlsax.OpenFile
}

// openError classifies a failure to open a document.
func openError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return types.Wrap(types.ErrNotFound, err)
	}
	return &types.Error{Kind: types.ErrKindIO, Msg: "open document", Err: err}
}

// dirOf returns the directory relative entity paths resolve against.
func dirOf(filename string) string {
	if filename == "" {
		return "."
	}
	return filepath.Dir(filename)
}
