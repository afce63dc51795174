package ast

import (
	"strings"

	"github.com/joshuapare/paramkit/internal/index"
	"github.com/joshuapare/paramkit/pkg/types"
)

// PathSeparator is the character used to separate components in
// section and param paths.
const PathSeparator = "/"

// Tree represents the complete section hierarchy of one document.
type Tree struct {
	Root *Section

	sections *index.PathIndex[*Section] // full name -> section
	params   *index.PathIndex[*Param]   // full name -> param
}

// Section is a named node that owns params and child sections.
type Section struct {
	// Identity
	Name     string // last path segment ("" for the root)
	FullName string // full path ("" for the root)

	// Tree structure
	Parent   *Section
	Children []*Section
	Params   []*Param

	// Current is the list cursor used by SeekFirst/SeekNext. There is a
	// single cursor per section; interleaved traversals share it.
	Current *Section
}

// NewTree creates a new empty tree.
func NewTree() *Tree {
	return &Tree{
		Root: &Section{
			Children: make([]*Section, 0),
			Params:   make([]*Param, 0),
		},
		sections: index.New[*Section](0),
		params:   index.New[*Param](0),
	}
}

// Reset drops every section and param, keeping the root.
func (t *Tree) Reset() {
	t.EachParam(func(p *Param) { p.Release() })
	t.Root.Children = t.Root.Children[:0]
	t.Root.Params = t.Root.Params[:0]
	t.Root.Current = nil
	t.sections.Reset()
	t.params.Reset()
}

// FindSection finds a section by path. Returns nil if not found.
func (t *Tree) FindSection(path string) *Section {
	full := CleanPath(path)
	if full == "" {
		return t.Root
	}
	s, _ := t.sections.Get(full)
	return s
}

// FindParam finds a param by section path and key. The key may itself
// contain separators ("Engine/rpm" under "Car"). Returns nil if not found.
func (t *Tree) FindParam(path, key string) *Param {
	full, _, _ := ParamPath(path, key)
	p, _ := t.params.Get(full)
	return p
}

// ParamByFullName looks up a param by its full name.
func (t *Tree) ParamByFullName(fullName string) *Param {
	p, _ := t.params.Get(fullName)
	return p
}

// AddSection creates a section at path, creating any missing ancestors.
// Fails with ErrDuplicate if a section already exists at path.
func (t *Tree) AddSection(path string) (*Section, error) {
	full := CleanPath(path)
	if full == "" {
		return nil, types.Wrapf(types.ErrInvalidPath, "empty section path %q", path)
	}
	if t.sections.Has(full) {
		return nil, types.Wrapf(types.ErrDuplicate, "%q", full)
	}
	dir, name := splitLast(full)
	parent, err := t.EnsureSection(dir)
	if err != nil {
		return nil, err
	}
	return t.attach(parent, name, full), nil
}

// EnsureSection returns the section at path, creating it (and its
// ancestors) when missing.
func (t *Tree) EnsureSection(path string) (*Section, error) {
	full := CleanPath(path)
	if full == "" {
		return t.Root, nil
	}
	if s, ok := t.sections.Get(full); ok {
		return s, nil
	}
	return t.AddSection(full)
}

// Param returns the param at path/key. With create set, a missing param
// (and its sections) is created with no kind; the caller sets the payload.
// Without create, a miss returns (nil, nil).
func (t *Tree) Param(path, key string, create bool) (*Param, error) {
	full, dir, name := ParamPath(path, key)
	if name == "" {
		return nil, types.Wrapf(types.ErrInvalidPath, "empty param name under %q", path)
	}
	if p, ok := t.params.Get(full); ok {
		return p, nil
	}
	if !create {
		return nil, nil
	}
	sec, err := t.EnsureSection(dir)
	if err != nil {
		return nil, err
	}
	p := &Param{Name: name, FullName: full, Section: sec}
	sec.Params = append(sec.Params, p)
	t.params.Put(full, p)
	return p, nil
}

// RemoveParam detaches p from its section and from the index, then
// prunes the section if it became unused.
func (t *Tree) RemoveParam(p *Param) {
	sec := p.Section
	t.destroyParam(p)
	for i, q := range sec.Params {
		if q == p {
			sec.Params = append(sec.Params[:i], sec.Params[i+1:]...)
			break
		}
	}
	t.prune(sec)
}

// RemoveSection removes s with all its descendants and params, then
// prunes the parent if it became unused. The root cannot be removed;
// passing it clears the whole tree instead.
func (t *Tree) RemoveSection(s *Section) {
	if s == t.Root {
		t.Reset()
		return
	}
	parent := s.Parent
	t.destroySection(s)
	t.detach(s)
	t.prune(parent)
}

// Clean removes every child section of s, leaving its params in place.
// s itself is pruned if nothing remains.
func (t *Tree) Clean(s *Section) {
	for _, child := range s.Children {
		t.destroySection(child)
	}
	s.Children = s.Children[:0]
	s.Current = nil
	t.prune(s)
}

// RenameSection gives s a new last path segment and re-keys it and all
// of its descendants.
func (t *Tree) RenameSection(s *Section, newName string) error {
	if s == t.Root {
		return types.Wrapf(types.ErrInvalidPath, "cannot rename root section")
	}
	if newName == "" || strings.Contains(newName, PathSeparator) {
		return types.Wrapf(types.ErrInvalidPath, "invalid section name %q", newName)
	}
	full := JoinPath(s.Parent.FullName, newName)
	if t.sections.Has(full) {
		return types.Wrapf(types.ErrDuplicate, "%q", full)
	}
	s.Name = newName
	t.rekey(s, full)
	return nil
}

// Prune removes every unused non-root section in the tree.
func (t *Tree) Prune() {
	var empty []*Section
	t.Walk(func(s *Section) {
		if s != t.Root && s.unused() {
			empty = append(empty, s)
		}
	})
	for _, s := range empty {
		if _, live := t.sections.Get(s.FullName); live {
			t.prune(s)
		}
	}
}

// Walk visits every section in document order (pre-order), root first.
func (t *Tree) Walk(fn func(*Section)) {
	walk(t.Root, fn)
}

// EachParam visits every param in document order.
func (t *Tree) EachParam(fn func(*Param)) {
	t.Walk(func(s *Section) {
		for _, p := range s.Params {
			fn(p)
		}
	})
}

// SectionCount returns the number of non-root sections.
func (t *Tree) SectionCount() int { return t.sections.Len() }

// ParamCount returns the number of params.
func (t *Tree) ParamCount() int { return t.params.Len() }

// SectionPaths returns the full names of every non-root section, sorted.
func (t *Tree) SectionPaths() []string { return t.sections.Keys() }

// ParamPaths returns the full names of every param, sorted.
func (t *Tree) ParamPaths() []string { return t.params.Keys() }

// Child returns the direct child of s named name, or nil.
func (t *Tree) Child(s *Section, name string) *Section {
	c, _ := t.sections.Get(JoinPath(s.FullName, name))
	return c
}

// ChildNames lists the names of s's child sections in order.
func (s *Section) ChildNames() []string {
	out := make([]string, len(s.Children))
	for i, c := range s.Children {
		out[i] = c.Name
	}
	return out
}

// ParamNames lists the names of s's params in order.
func (s *Section) ParamNames() []string {
	out := make([]string, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Name
	}
	return out
}

// SeekFirst moves the list cursor to the first child.
// Returns false when there are no children.
func (s *Section) SeekFirst() bool {
	if len(s.Children) == 0 {
		s.Current = nil
		return false
	}
	s.Current = s.Children[0]
	return true
}

// SeekNext moves the list cursor to the next child.
// Returns false when the cursor runs off the end or was never set.
func (s *Section) SeekNext() bool {
	if s.Current == nil {
		return false
	}
	for i, c := range s.Children {
		if c == s.Current {
			if i+1 < len(s.Children) {
				s.Current = s.Children[i+1]
				return true
			}
			break
		}
	}
	s.Current = nil
	return false
}

func (s *Section) unused() bool {
	return len(s.Params) == 0 && len(s.Children) == 0
}

func (t *Tree) attach(parent *Section, name, full string) *Section {
	child := &Section{
		Name:     name,
		FullName: full,
		Parent:   parent,
		Children: make([]*Section, 0),
		Params:   make([]*Param, 0),
	}
	parent.Children = append(parent.Children, child)
	t.sections.Put(full, child)
	return child
}

// detach unlinks s from its parent's child list.
func (t *Tree) detach(s *Section) {
	parent := s.Parent
	if parent == nil {
		return
	}
	for i, c := range parent.Children {
		if c == s {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	if parent.Current == s {
		parent.Current = nil
	}
	s.Parent = nil
}

// destroySection removes s's descendants first, then s's own index entry
// and params. It does not touch s's parent.
func (t *Tree) destroySection(s *Section) {
	for _, child := range s.Children {
		t.destroySection(child)
	}
	s.Children = nil
	s.Current = nil
	t.sections.Remove(s.FullName)
	for _, p := range s.Params {
		t.destroyParam(p)
	}
	s.Params = nil
}

func (t *Tree) destroyParam(p *Param) {
	t.params.Remove(p.FullName)
	p.Release()
}

// prune removes s when unused and cascades to its ancestors.
func (t *Tree) prune(s *Section) {
	for s != nil && s != t.Root && s.unused() {
		parent := s.Parent
		t.sections.Remove(s.FullName)
		t.detach(s)
		s = parent
	}
}

func (t *Tree) rekey(s *Section, full string) {
	t.sections.Remove(s.FullName)
	s.FullName = full
	t.sections.Put(full, s)
	for _, p := range s.Params {
		t.params.Remove(p.FullName)
		p.FullName = full + PathSeparator + p.Name
		t.params.Put(p.FullName, p)
	}
	for _, c := range s.Children {
		t.rekey(c, JoinPath(full, c.Name))
	}
}

func walk(s *Section, fn func(*Section)) {
	fn(s)
	for _, c := range s.Children {
		walk(c, fn)
	}
}
