package params

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/joshuapare/paramkit/internal/formula"
	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
)

// Merge combines ref and tgt into a new private document. Neither input
// is modified.
//
// MergeRefDriven copies every reference param, MergeTargetDriven every
// target param; a param found on both sides is reconciled the same way
// in either pass:
//
//   - numeric: the merged min is the reference min if the target range
//     holds it, else the target min if the reference range holds it,
//     else the reference min (logged). The max is chosen symmetrically.
//     The value is the target's, clamped into the merged range.
//   - string: the enumeration is the reference entries the target also
//     lists, in reference order. The value is the target's when the
//     reference allows it, else the reference's. An empty enumeration on
//     either side places no constraint.
//   - formula, or kinds that differ: the target param is copied.
//
// The merged document takes its name, DTD, comment and version from ref
// and its file name from tgt. Variables from both are kept, target
// bindings winning. Sections left empty are pruned.
//
// MergeReleaseRef and MergeReleaseTarget release the inputs after a
// successful merge.
func Merge(ref, tgt *Handle, mode MergeMode) (*Handle, error) {
	if !ref.valid("Merge") || !tgt.valid("Merge") {
		return nil, types.ErrInvalidHandle
	}
	if mode&MergeBoth == 0 {
		return nil, &types.Error{Kind: types.ErrKindState, Msg: "merge mode selects no pass"}
	}

	out := newHeader(tgt.hdr.filename)
	out.name = ref.hdr.name
	out.dtd, out.comment = ref.hdr.dtd, ref.hdr.comment
	out.major, out.minor = ref.hdr.major, ref.hdr.minor
	maps.Copy(out.vars, ref.hdr.vars)
	maps.Copy(out.vars, tgt.hdr.vars)

	m := &merger{
		out:      out,
		log:      ref.logger(),
		formulas: ref.reg.formulas(),
	}

	refTree, tgtTree := ref.hdr.tree, tgt.hdr.tree
	if mode.Has(MergeRefDriven) {
		refTree.EachParam(func(p *ast.Param) {
			if q := tgtTree.ParamByFullName(p.FullName); q != nil {
				m.reconcile(p, q)
			} else {
				m.copy(p)
			}
		})
	}
	if mode.Has(MergeTargetDriven) {
		tgtTree.EachParam(func(q *ast.Param) {
			if p := refTree.ParamByFullName(q.FullName); p != nil {
				m.reconcile(p, q)
			} else {
				m.copy(q)
			}
		})
	}
	out.tree.Prune()

	out.refcount = 1
	h := ref.reg.newHandle(out, true)

	if mode.Has(MergeReleaseRef) {
		ref.Release()
	}
	if mode.Has(MergeReleaseTarget) && tgt != ref {
		tgt.Release()
	}
	return h, nil
}

type merger struct {
	out      *header
	log      *slog.Logger
	formulas formula.Parser
}

// dst returns the param of the merged tree at src's position.
func (m *merger) dst(src *ast.Param) *ast.Param {
	p, err := m.out.tree.Param(src.Section.FullName, src.Name, true)
	if err != nil {
		m.log.Error("merge: cannot create param", "param", src.FullName, "err", err)
		return nil
	}
	return p
}

// copy duplicates src into the merged tree.
func (m *merger) copy(src *ast.Param) {
	if src.Kind == types.KindNone {
		return
	}
	if dst := m.dst(src); dst != nil {
		m.assign(dst, src)
	}
}

func (m *merger) assign(dst, src *ast.Param) {
	switch src.Kind {
	case types.KindNumber:
		dst.SetNumber(src.Num, src.Min, src.Max, src.Unit)
	case types.KindString:
		dst.SetString(src.Str, src.Within)
	case types.KindFormula:
		expr, err := m.formulas.Parse(src.Str)
		if err != nil {
			expr = nil
		}
		dst.SetFormula(src.Str, expr)
	}
}

// reconcile merges ref param p with target param q.
func (m *merger) reconcile(p, q *ast.Param) {
	if p.Kind == types.KindNone && q.Kind == types.KindNone {
		return
	}
	dst := m.dst(p)
	if dst == nil {
		return
	}
	if p.Kind != q.Kind {
		m.log.Warn("param kinds differ, target kept",
			"param", p.FullName, "reference", p.Kind.String(), "target", q.Kind.String())
		m.assign(dst, q)
		return
	}

	switch p.Kind {
	case types.KindNumber:
		m.reconcileNum(dst, p, q)
	case types.KindString:
		m.reconcileStr(dst, p, q)
	default:
		m.assign(dst, q)
	}
}

func (m *merger) reconcileNum(dst, p, q *ast.Param) {
	var lo, hi float64
	switch {
	case q.InBounds(p.Min):
		lo = p.Min
	case p.InBounds(q.Min):
		lo = q.Min
	default:
		lo = p.Min
		m.log.Warn("incompatible ranges, reference min kept", "param", p.FullName, "min", p.Min, "target_min", q.Min)
	}
	switch {
	case q.InBounds(p.Max):
		hi = p.Max
	case p.InBounds(q.Max):
		hi = q.Max
	default:
		hi = p.Max
		m.log.Warn("incompatible ranges, reference max kept", "param", p.FullName, "max", p.Max, "target_max", q.Max)
	}

	unit := q.Unit
	if unit == "" {
		unit = p.Unit
	}
	if dst.SetNumber(q.Num, lo, hi, unit) {
		m.log.Warn("merged value out of bounds, clamped",
			"param", p.FullName, "value", q.Num, "min", lo, "max", hi)
	}
}

func (m *merger) reconcileStr(dst, p, q *ast.Param) {
	var within []string
	val := q.Str
	switch {
	case len(p.Within) == 0:
		within = q.Within
	case len(q.Within) == 0:
		within = p.Within
	default:
		within = make([]string, 0, len(p.Within))
		for _, w := range p.Within {
			if slices.Contains(q.Within, w) {
				within = append(within, w)
			}
		}
	}
	if !p.Allows(q.Str) {
		val = p.Str
		m.log.Warn("target value not allowed by reference, reference value kept",
			"param", p.FullName, "value", q.Str, "kept", p.Str)
	}
	dst.SetString(val, within)
}
