package params

import (
	"fmt"
	"strings"

	"github.com/joshuapare/paramkit/pkg/ast"
	"github.com/joshuapare/paramkit/pkg/types"
	"github.com/joshuapare/paramkit/pkg/units"
)

// Check compares tgt against the reference schema ref without changing
// either. Every param present in both is checked: a numeric value
// outside the reference bounds or a string outside the reference
// enumeration is an error, differing kinds are a warning.
//
// The report is always returned. When it holds errors, the returned
// error wraps types.ErrCheckFailed.
func Check(ref, tgt *Handle) (*types.Report, error) {
	if !ref.valid("Check") || !tgt.valid("Check") {
		return nil, types.ErrInvalidHandle
	}
	rep := types.NewReport()
	rep.Reference = docLabel(ref.hdr)
	rep.Target = docLabel(tgt.hdr)

	log := ref.logger()
	tgtTree := tgt.hdr.tree
	ref.hdr.tree.EachParam(func(p *ast.Param) {
		q := tgtTree.ParamByFullName(p.FullName)
		if q == nil || p.Kind == types.KindNone {
			return
		}
		rep.Checked++

		if p.Kind != q.Kind {
			rep.Add(types.Diagnostic{
				Severity: types.SevWarning,
				Category: types.DiagKind,
				Path:     p.FullName,
				Issue:    "param kind differs from reference",
				Expected: p.Kind.String(),
				Actual:   q.Kind.String(),
			})
			return
		}

		switch p.Kind {
		case types.KindNumber:
			if !p.InBounds(q.Num) {
				d := types.Diagnostic{
					Severity: types.SevError,
					Category: types.DiagBounds,
					Path:     p.FullName,
					Issue:    "value out of reference bounds",
					Expected: fmt.Sprintf("[%s, %s]%s", formatNum(units.FromSI(p.Unit, p.Min), p.Unit), formatNum(units.FromSI(p.Unit, p.Max), p.Unit), unitSuffix(p.Unit)),
					Actual:   formatNum(units.FromSI(p.Unit, q.Num), p.Unit) + unitSuffix(p.Unit),
				}
				rep.Add(d)
				log.Warn("check: "+d.Issue, "param", d.Path, "expected", d.Expected, "actual", d.Actual)
			}
		case types.KindString:
			if !p.Allows(q.Str) {
				d := types.Diagnostic{
					Severity: types.SevError,
					Category: types.DiagEnum,
					Path:     p.FullName,
					Issue:    "value not in reference enumeration",
					Expected: strings.Join(p.Within, withinSeparator),
					Actual:   q.Str,
				}
				rep.Add(d)
				log.Warn("check: "+d.Issue, "param", d.Path, "expected", d.Expected, "actual", d.Actual)
			}
		}
	})
	rep.Finalize()

	if rep.HasErrors() {
		return rep, types.Wrapf(types.ErrCheckFailed, "%d errors", rep.Summary.Errors)
	}
	return rep, nil
}

func docLabel(hdr *header) string {
	if hdr.filename != "" {
		return hdr.filename
	}
	return hdr.name
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}
