// Package printer renders parameter documents for people and tools.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
)

const (
	DefaultIndentSize = 2
	DefaultMaxDepth   = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"

	// FormatYAML outputs YAML format.
	FormatYAML Format = "yaml"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json, yaml).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowValues includes params in section output.
	// Default: true
	ShowValues bool

	// ShowKinds includes the param kind (num, str, form).
	// Default: true
	ShowKinds bool

	// SIUnits prints numbers in SI instead of their recorded display unit.
	// Default: false
	SIUnits bool

	// ShowBounds includes min/max and enumerations.
	// Default: true
	ShowBounds bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:     FormatText,
		IndentSize: DefaultIndentSize,
		MaxDepth:   DefaultMaxDepth,
		ShowValues: true,
		ShowKinds:  true,
		SIUnits:    false,
		ShowBounds: true,
	}
}

// Printer handles formatted output of parameter documents.
type Printer struct {
	opts   Options
	writer io.Writer
	h      *params.Handle
}

// New creates a new Printer.
//
// Example:
//
//	h, _ := reg.ReadFile("car.xml", params.ReadShared)
//	p := printer.New(h, os.Stdout, printer.DefaultOptions())
//	p.PrintTree("Car")
func New(h *params.Handle, w io.Writer, opts Options) *Printer {
	return &Printer{
		h:      h,
		writer: w,
		opts:   opts,
	}
}

// PrintSection prints one section and its params, without descending.
func (p *Printer) PrintSection(path string) error {
	sec, err := p.section(path)
	if err != nil {
		return err
	}
	doc := p.sectionDoc(sec, 0, false)

	switch p.opts.Format {
	case FormatJSON:
		return p.writeJSON(doc)
	case FormatYAML:
		return p.writeYAML(doc)
	default:
		return p.printSectionText(doc, 0)
	}
}

// PrintParam prints a single param.
func (p *Printer) PrintParam(path, key string) error {
	tree := p.h.Tree()
	if tree == nil {
		return types.ErrInvalidHandle
	}
	prm := tree.FindParam(path, key)
	if prm == nil {
		return fmt.Errorf("find param %q: %w", ast.JoinPath(path, key), types.ErrNotFound)
	}
	doc := p.paramDoc(prm)

	switch p.opts.Format {
	case FormatJSON:
		return p.writeJSON(doc)
	case FormatYAML:
		return p.writeYAML(doc)
	default:
		return p.printParamText(doc, 0)
	}
}

// PrintTree prints the subtree rooted at path.
func (p *Printer) PrintTree(path string) error {
	sec, err := p.section(path)
	if err != nil {
		return err
	}
	doc := p.sectionDoc(sec, 0, true)

	switch p.opts.Format {
	case FormatJSON:
		return p.writeJSON(doc)
	case FormatYAML:
		return p.writeYAML(doc)
	default:
		return p.printTreeText(doc, 0)
	}
}

func (p *Printer) section(path string) (*ast.Section, error) {
	tree := p.h.Tree()
	if tree == nil {
		return nil, types.ErrInvalidHandle
	}
	sec := tree.FindSection(path)
	if sec == nil {
		return nil, fmt.Errorf("find section %q: %w", ast.CleanPath(path), types.ErrNotFound)
	}
	return sec, nil
}
