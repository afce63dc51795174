package params

import (
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
)

// A list is the set of child sections of the section at path. Every
// section carries one cursor, shared by all callers: two traversals of
// the same list interleaved from different places move the same cursor.
// Use ListNames for a traversal that cannot be disturbed.

// ListSeekFirst moves the cursor of the list at path to its first
// element. It returns types.ErrNotFound when there is no such section
// and types.ErrEndOfList when the list is empty.
func (h *Handle) ListSeekFirst(path string) error {
	s, err := h.list("ListSeekFirst", path)
	if err != nil {
		return err
	}
	if !s.SeekFirst() {
		return types.ErrEndOfList
	}
	return nil
}

// ListSeekNext advances the cursor of the list at path. It returns
// types.ErrEndOfList after the last element.
func (h *Handle) ListSeekNext(path string) error {
	s, err := h.list("ListSeekNext", path)
	if err != nil {
		return err
	}
	if !s.SeekNext() {
		return types.ErrEndOfList
	}
	return nil
}

// ListCurName returns the name of the element under the cursor of the
// list at path, or "" when the cursor is not set.
func (h *Handle) ListCurName(path string) string {
	s, err := h.list("ListCurName", path)
	if err != nil || s.Current == nil {
		return ""
	}
	return s.Current.Name
}

// ListCount returns the number of elements of the list at path.
func (h *Handle) ListCount(path string) int {
	s, err := h.list("ListCount", path)
	if err != nil {
		return 0
	}
	return len(s.Children)
}

// ListNames returns the element names of the list at path in document
// order.
func (h *Handle) ListNames(path string) []string {
	s, err := h.list("ListNames", path)
	if err != nil {
		return nil
	}
	return s.ChildNames()
}

// ParamNames returns the names of the params held directly by the
// section at path, in document order.
func (h *Handle) ParamNames(path string) []string {
	s, err := h.list("ParamNames", path)
	if err != nil {
		return nil
	}
	return s.ParamNames()
}

// ListRename renames element oldName of the list at path.
func (h *Handle) ListRename(path, oldName, newName string) error {
	s, err := h.list("ListRename", path)
	if err != nil {
		return err
	}
	elt := h.hdr.tree.Child(s, oldName)
	if elt == nil {
		return types.Wrapf(types.ErrNotFound, "section %q", ast.JoinPath(path, oldName))
	}
	return h.hdr.tree.RenameSection(elt, newName)
}

// ListRemove removes element name of the list at path.
func (h *Handle) ListRemove(path, name string) error {
	s, err := h.list("ListRemove", path)
	if err != nil {
		return err
	}
	elt := h.hdr.tree.Child(s, name)
	if elt == nil {
		return types.Wrapf(types.ErrNotFound, "section %q", ast.JoinPath(path, name))
	}
	h.hdr.tree.RemoveSection(elt)
	return nil
}

// ListClean removes every element of the list at path. The section is
// pruned when it holds no params either.
func (h *Handle) ListClean(path string) error {
	s, err := h.list("ListClean", path)
	if err != nil {
		return err
	}
	h.hdr.tree.Clean(s)
	return nil
}

// GetCurNum reads key from the element under the cursor of the list at
// path.
func (h *Handle) GetCurNum(path, key, unit string, deflt float64) float64 {
	cur := h.current("GetCurNum", path)
	if cur == nil {
		return deflt
	}
	return h.numOf(h.hdr.tree.FindParam(cur.FullName, key), unit, deflt)
}

// GetCurStr reads key from the element under the cursor of the list at
// path.
func (h *Handle) GetCurStr(path, key, deflt string) string {
	cur := h.current("GetCurStr", path)
	if cur == nil {
		return deflt
	}
	return h.strOf(h.hdr.tree.FindParam(cur.FullName, key), deflt)
}

// SetCurNum sets key in the element under the cursor of the list at path.
func (h *Handle) SetCurNum(path, key, unit string, val float64) error {
	cur := h.current("SetCurNum", path)
	if cur == nil {
		return h.noCurrent(path)
	}
	return h.SetNum(cur.FullName, key, unit, val)
}

// SetCurStr sets key in the element under the cursor of the list at path.
func (h *Handle) SetCurStr(path, key, val string) error {
	cur := h.current("SetCurStr", path)
	if cur == nil {
		return h.noCurrent(path)
	}
	return h.SetStr(cur.FullName, key, val)
}

func (h *Handle) list(op, path string) (*ast.Section, error) {
	if !h.valid(op) {
		return nil, types.ErrInvalidHandle
	}
	s := h.hdr.tree.FindSection(path)
	if s == nil {
		return nil, types.Wrapf(types.ErrNotFound, "section %q", ast.CleanPath(path))
	}
	return s, nil
}

func (h *Handle) current(op, path string) *ast.Section {
	s, err := h.list(op, path)
	if err != nil {
		return nil
	}
	return s.Current
}

func (h *Handle) noCurrent(path string) error {
	if !h.Valid() {
		return types.ErrInvalidHandle
	}
	return types.Wrapf(types.ErrEndOfList, "no current element in %q", ast.CleanPath(path))
}
