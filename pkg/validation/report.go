package validation

import (
	"fmt"
	"strings"
)

// Constraint names a checked invariant and its severity.
type Constraint struct {
	Kind     string // e.g. "AreaCoverage", "LotContainment"
	Severity string // "hard" or "soft"
	Expr     string // short symbolic description, for logs
}

// ConstraintResult is the outcome of checking one Constraint.
type ConstraintResult struct {
	Constraint Constraint
	Satisfied  bool
	Score      float64 // 1.0/0.0 for hard constraints; continuous for soft
	Details    string
}

// Metrics summarises a Layout's geometry (spec.md §3).
type Metrics struct {
	TotalCommercialArea float64
	TotalGreenArea      float64
	UtilizationRatio    float64
	MSTLength           float64
	AverageLotArea      float64
	DiscardedBlockCount int
}

// Report is the full validation outcome for one Layout.
type Report struct {
	Passed      bool
	HardResults []ConstraintResult
	SoftResults []ConstraintResult
	Warnings    []string
	Errors      []string
	Metrics     *Metrics
}

// NewReport creates an empty report with every slice field
// initialized, so callers never need a nil check before appending.
func NewReport() *Report {
	return &Report{
		Passed:      true,
		HardResults: []ConstraintResult{},
		SoftResults: []ConstraintResult{},
		Warnings:    []string{},
		Errors:      []string{},
	}
}

func newHardResult(kind, expr string, satisfied bool, details string) ConstraintResult {
	score := 0.0
	if satisfied {
		score = 1.0
	}
	return ConstraintResult{
		Constraint: Constraint{Kind: kind, Severity: "hard", Expr: expr},
		Satisfied:  satisfied,
		Score:      score,
		Details:    details,
	}
}

func newSoftResult(kind, expr string, score float64, details string) ConstraintResult {
	return ConstraintResult{
		Constraint: Constraint{Kind: kind, Severity: "soft", Expr: expr},
		Satisfied:  score > 0.5,
		Score:      score,
		Details:    details,
	}
}

// Summary renders a human-readable report: overall pass/fail, then
// metrics, hard results, soft results, errors, and warnings in turn.
func Summary(report *Report) string {
	var b strings.Builder

	b.WriteString("=== Validation Report ===\n\n")
	if report.Passed {
		b.WriteString("Status: PASSED\n")
	} else {
		b.WriteString("Status: FAILED\n")
	}

	if report.Metrics != nil {
		b.WriteString("\n=== Metrics ===\n")
		b.WriteString(fmt.Sprintf("Utilization Ratio: %.3f\n", report.Metrics.UtilizationRatio))
		b.WriteString(fmt.Sprintf("Total Commercial Area: %.1f\n", report.Metrics.TotalCommercialArea))
		b.WriteString(fmt.Sprintf("Total Green Area: %.1f\n", report.Metrics.TotalGreenArea))
		b.WriteString(fmt.Sprintf("MST Length: %.1f\n", report.Metrics.MSTLength))
		b.WriteString(fmt.Sprintf("Average Lot Area: %.1f\n", report.Metrics.AverageLotArea))
		b.WriteString(fmt.Sprintf("Discarded Blocks: %d\n", report.Metrics.DiscardedBlockCount))
	}

	b.WriteString("\n=== Hard Constraints ===\n")
	passedHard := 0
	for _, r := range report.HardResults {
		if r.Satisfied {
			passedHard++
		}
	}
	b.WriteString(fmt.Sprintf("Passed: %d/%d\n", passedHard, len(report.HardResults)))
	for i, r := range report.HardResults {
		status := "PASS"
		if !r.Satisfied {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, status, r.Constraint.Kind, r.Details))
	}

	b.WriteString("\n=== Soft Constraints ===\n")
	if len(report.SoftResults) == 0 {
		b.WriteString("None evaluated\n")
	} else {
		for i, r := range report.SoftResults {
			b.WriteString(fmt.Sprintf("  %d. %s (score: %.2f): %s\n", i+1, r.Constraint.Kind, r.Score, r.Details))
		}
	}

	if len(report.Errors) > 0 {
		b.WriteString("\n=== Errors ===\n")
		for i, err := range report.Errors {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err))
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\n=== Warnings ===\n")
		for i, warn := range report.Warnings {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, warn))
		}
	}

	return b.String()
}

// FailedConstraints returns every failed hard constraint result.
func FailedConstraints(report *Report) []ConstraintResult {
	var failed []ConstraintResult
	for _, r := range report.HardResults {
		if !r.Satisfied {
			failed = append(failed, r)
		}
	}
	return failed
}
