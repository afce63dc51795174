package printer

import (
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
)

// RootName is shown for the document root.
const RootName = "/"

// sectionDoc is the format-neutral view of a section.
type sectionDoc struct {
	Name     string        `json:"name" yaml:"name"`
	Path     string        `json:"path" yaml:"path"`
	Params   []paramDoc    `json:"params,omitempty" yaml:"params,omitempty"`
	Sections []*sectionDoc `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// paramDoc is the format-neutral view of a param.
type paramDoc struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Value   any      `json:"value" yaml:"value"`
	Unit    string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	In      []string `json:"in,omitempty" yaml:"in,omitempty"`
	Formula string   `json:"formula,omitempty" yaml:"formula,omitempty"`
}

func (p *Printer) sectionDoc(sec *ast.Section, depth int, recursive bool) *sectionDoc {
	doc := &sectionDoc{Name: sec.Name, Path: sec.FullName}
	if sec.FullName == "" {
		doc.Name = RootName
		doc.Path = RootName
	}
	if p.opts.ShowValues {
		for _, prm := range sec.Params {
			if prm.Kind == types.KindNone {
				continue
			}
			doc.Params = append(doc.Params, p.paramDoc(prm))
		}
	}
	if !recursive || (p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth) {
		return doc
	}
	for _, child := range sec.Children {
		doc.Sections = append(doc.Sections, p.sectionDoc(child, depth+1, true))
	}
	return doc
}

// paramDoc reads prm through the Handle so formulas are evaluated and
// units applied the same way consumers see them.
func (p *Printer) paramDoc(prm *ast.Param) paramDoc {
	path := prm.Section.FullName
	doc := paramDoc{Name: prm.Name}
	if p.opts.ShowKinds {
		doc.Kind = prm.Kind.String()
	}

	switch prm.Kind {
	case types.KindNumber:
		unit := prm.Unit
		if p.opts.SIUnits {
			unit = ""
		}
		doc.Unit = unit
		doc.Value = p.h.GetNum(path, prm.Name, unit, 0)
		if p.opts.ShowBounds {
			if lo, hi, ok := p.h.GetNumBounds(path, prm.Name, unit); ok && lo != hi {
				doc.Min, doc.Max = &lo, &hi
			}
		}
	case types.KindString:
		doc.Value = p.h.GetStr(path, prm.Name, "")
		if p.opts.ShowBounds {
			doc.In = p.h.GetWithin(path, prm.Name)
		}
	case types.KindFormula:
		doc.Formula, _ = p.h.GetFormula(path, prm.Name)
		doc.Value = p.h.GetStr(path, prm.Name, "")
	}
	return doc
}
