package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------
//
// A DiagnosticReport collects every problem found while scanning a save,
// not just the first one, with the byte offset of each. Loading a save never
// builds a report; callers ask for one explicitly (save.Diagnose).

// Severity classifies how serious a diagnostic issue is.
type Severity int

const (
	SevInfo     Severity = iota // unusual but valid
	SevWarning                  // the other bank still holds a valid generation
	SevError                    // a bank is unusable
	SevCritical                 // the save cannot be loaded
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText renders the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic is a single issue found in a save image.
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Structure string   `json:"structure"` // "file", "bank", "sector", "section"
	Offset    int      `json:"offset"`    // absolute file offset, -1 when not applicable
	Bank      int      `json:"bank"`      // -1 when not applicable
	Sector    int      `json:"sector"`    // physical position, -1 when not applicable
	Issue     string   `json:"issue"`
	Expected  any      `json:"expected,omitempty"`
	Actual    any      `json:"actual,omitempty"`
}

// DiagnosticReport collects all diagnostics found during a scan.
type DiagnosticReport struct {
	FilePath    string       `json:"file_path,omitempty"`
	FileSize    int          `json:"file_size"`
	ActiveBank  int          `json:"active_bank"` // -1 when no bank validates
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     DiagSummary  `json:"summary"`
}

// DiagSummary provides quick statistics.
type DiagSummary struct {
	Critical int `json:"critical"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// NewDiagnosticReport creates an empty report.
func NewDiagnosticReport() *DiagnosticReport {
	return &DiagnosticReport{ActiveBank: -1, Diagnostics: []Diagnostic{}}
}

// Add adds a diagnostic to the report and updates the summary.
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SevCritical:
		r.Summary.Critical++
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}
}

// Finalize sorts diagnostics by offset. Issues without an offset go last.
func (r *DiagnosticReport) Finalize() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i].Offset, r.Diagnostics[j].Offset
		if a < 0 || b < 0 {
			return a >= 0 && b < 0
		}
		return a < b
	})
}

// HasCriticalIssues returns true if the save cannot be loaded.
func (r *DiagnosticReport) HasCriticalIssues() bool {
	return r.Summary.Critical > 0
}

// HasErrors returns true if any errors or critical issues were found.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Critical > 0 || r.Summary.Errors > 0
}

// FormatJSON returns the report as formatted JSON (2-space indentation).
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report.
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 79) + "\n")
	b.WriteString("Save Diagnostic Report\n")
	b.WriteString(strings.Repeat("=", 79) + "\n\n")

	if r.FilePath != "" {
		fmt.Fprintf(&b, "File:        %s\n", r.FilePath)
	}
	fmt.Fprintf(&b, "Size:        %d bytes\n", r.FileSize)
	if r.ActiveBank >= 0 {
		fmt.Fprintf(&b, "Active bank: %d\n\n", r.ActiveBank)
	} else {
		b.WriteString("Active bank: none\n\n")
	}

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	fmt.Fprintf(&b, "  Critical: %d\n", r.Summary.Critical)
	fmt.Fprintf(&b, "  Errors:   %d\n", r.Summary.Errors)
	fmt.Fprintf(&b, "  Warnings: %d\n", r.Summary.Warnings)
	fmt.Fprintf(&b, "  Info:     %d\n\n", r.Summary.Info)

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("DIAGNOSTICS\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	b.WriteString(r.FormatTextCompact())
	return b.String()
}

// FormatTextCompact returns one line per issue.
func (r *DiagnosticReport) FormatTextCompact() string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		loc := d.Structure
		if d.Bank >= 0 {
			loc += fmt.Sprintf(" bank=%d", d.Bank)
		}
		if d.Sector >= 0 {
			loc += fmt.Sprintf(" sector=%d", d.Sector)
		}
		if d.Offset >= 0 {
			fmt.Fprintf(&b, "0x%05X [%s] %s: %s", d.Offset, d.Severity, loc, d.Issue)
		} else {
			fmt.Fprintf(&b, "        [%s] %s: %s", d.Severity, loc, d.Issue)
		}
		if d.Expected != nil || d.Actual != nil {
			fmt.Fprintf(&b, " (expected %v, got %v)", d.Expected, d.Actual)
		}
		b.WriteString("\n")
	}
	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}
	return b.String()
}
