package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Validation Report
// -----------------------------------------------------------------------------
//
// A Report collects every mismatch found while checking a loaded document
// against a reference document. Nothing is corrected; callers decide what
// to do with the findings.

// Severity classifies how serious a finding is.
type Severity int

const (
	SevInfo    Severity = iota // unusual but valid
	SevWarning                 // auto-correctable (clamp, widen)
	SevError                   // value violates the reference
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// MarshalText lets severities key JSON maps by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DiagCategory classifies the type of mismatch.
type DiagCategory string

const (
	DiagBounds DiagCategory = "bounds" // numeric value outside reference [min,max]
	DiagEnum   DiagCategory = "enum"   // string value not in reference enumeration
	DiagKind   DiagCategory = "kind"   // param kinds differ between documents
)

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity     `json:"severity"`
	Category DiagCategory `json:"category"`
	Path     string       `json:"path"`
	Issue    string       `json:"issue"`
	Expected any          `json:"expected,omitempty"`
	Actual   any          `json:"actual,omitempty"`
}

// Report collects all diagnostics found during a check.
type Report struct {
	Reference string `json:"reference,omitempty"`
	Target    string `json:"target,omitempty"`
	Checked   int    `json:"checked"`

	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     Summary      `json:"summary"`

	BySeverity map[Severity][]Diagnostic `json:"by_severity,omitempty"`
}

// Summary provides quick statistics.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		BySeverity: make(map[Severity][]Diagnostic),
	}
}

// Add adds a diagnostic to the report and updates the summary.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)

	switch d.Severity {
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}

	r.BySeverity[d.Severity] = append(r.BySeverity[d.Severity], d)
}

// Finalize orders diagnostics by path for stable output.
func (r *Report) Finalize() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		return r.Diagnostics[i].Path < r.Diagnostics[j].Path
	})
}

// HasErrors returns true if any errors were found.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasAnyIssues returns true if any issues were found (including warnings and info).
func (r *Report) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// FormatJSON returns the report as formatted JSON (2-space indentation).
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report.
func (r *Report) FormatText() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 79) + "\n")
	b.WriteString("Parameter Check Report\n")
	b.WriteString(strings.Repeat("=", 79) + "\n\n")

	if r.Reference != "" {
		b.WriteString(fmt.Sprintf("Reference: %s\n", r.Reference))
	}
	if r.Target != "" {
		b.WriteString(fmt.Sprintf("Target:    %s\n", r.Target))
	}
	b.WriteString(fmt.Sprintf("Checked:   %d params\n\n", r.Checked))

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	b.WriteString(fmt.Sprintf("  Errors:   %d\n", r.Summary.Errors))
	b.WriteString(fmt.Sprintf("  Warnings: %d\n", r.Summary.Warnings))
	b.WriteString(fmt.Sprintf("  Info:     %d\n\n", r.Summary.Info))

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("DIAGNOSTICS\n")
	b.WriteString(strings.Repeat("-", 79) + "\n\n")

	for _, severity := range []Severity{SevError, SevWarning, SevInfo} {
		diags := r.BySeverity[severity]
		if len(diags) == 0 {
			continue
		}

		b.WriteString(fmt.Sprintf("%s (%d)\n", severity, len(diags)))
		b.WriteString(strings.Repeat("~", 79) + "\n")

		for i, d := range diags {
			b.WriteString(fmt.Sprintf("\n%d. [%s] %s\n", i+1, d.Category, d.Path))
			b.WriteString(fmt.Sprintf("   %s\n", d.Issue))
			if d.Expected != nil {
				b.WriteString(fmt.Sprintf("   Expected: %v\n", d.Expected))
			}
			if d.Actual != nil {
				b.WriteString(fmt.Sprintf("   Actual:   %v\n", d.Actual))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatTextCompact returns a compact one-line-per-issue text format.
func (r *Report) FormatTextCompact() string {
	var b strings.Builder

	for _, d := range r.Diagnostics {
		b.WriteString(fmt.Sprintf("%s [%s] %s: %s\n", d.Severity, d.Category, d.Path, d.Issue))
	}

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}

	return b.String()
}
