package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_AddUpdatesSummary(t *testing.T) {
	r := NewReport()
	r.Add(Diagnostic{Severity: SevError, Category: DiagBounds, Path: "Car/Engine/rpm", Issue: "out of bounds"})
	r.Add(Diagnostic{Severity: SevWarning, Category: DiagEnum, Path: "Car/Gear/mode", Issue: "widened"})
	r.Add(Diagnostic{Severity: SevError, Category: DiagEnum, Path: "Car/Body/color", Issue: "not allowed"})

	assert.Equal(t, 2, r.Summary.Errors)
	assert.Equal(t, 1, r.Summary.Warnings)
	assert.True(t, r.HasErrors())
	assert.True(t, r.HasAnyIssues())
	assert.Len(t, r.BySeverity[SevError], 2)

	r.Finalize()
	assert.Equal(t, "Car/Body/color", r.Diagnostics[0].Path)
}

func TestReport_Format(t *testing.T) {
	r := NewReport()
	assert.Contains(t, r.FormatText(), "No issues found.")
	assert.Equal(t, "No issues found.\n", r.FormatTextCompact())

	r.Add(Diagnostic{Severity: SevError, Category: DiagBounds, Path: "A/x", Issue: "value 12 outside [0, 10]"})
	text := r.FormatText()
	assert.Contains(t, text, "ERROR (1)")
	assert.Contains(t, text, "[bounds] A/x")
	assert.Equal(t, "ERROR [bounds] A/x: value 12 outside [0, 10]\n", r.FormatTextCompact())

	js, err := r.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"errors": 1`)
	assert.Contains(t, js, `"ERROR"`)
}

func TestError_IsAndWrap(t *testing.T) {
	err := Wrapf(ErrNotFound, "section %q", "Car")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, `not found: section "Car"`, err.Error())

	wrapped := fmt.Errorf("load: %w", Wrap(ErrParse, errors.New("boom")))
	assert.True(t, errors.Is(wrapped, ErrParse))

	var typed *Error
	require.True(t, errors.As(wrapped, &typed))
	assert.Equal(t, ErrKindFormat, typed.Kind)
}

func TestParamKind_String(t *testing.T) {
	assert.Equal(t, "num", KindNumber.String())
	assert.Equal(t, "str", KindString.String())
	assert.Equal(t, "form", KindFormula.String())
	assert.Equal(t, "UNKNOWN_KIND_9", ParamKind(9).String())
}
