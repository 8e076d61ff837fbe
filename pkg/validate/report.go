// Package validate implements a runtime validation pass over generated
// submaps, game maps, and overmaps: a Validator interface and a Report of
// Passed/Warnings/Errors/Metrics, checking mapgen/submap/overmap
// invariants such as terrain-table consistency and road connectivity.
package validate

// Constraint names one checked property: its kind, the expression it
// evaluates (for reporting, not execution), and its severity.
type Constraint struct {
	Kind     string
	Expr     string
	Severity string // "hard" or "soft"
}

// ConstraintResult is the outcome of evaluating one Constraint: Satisfied
// for hard constraints is pass/fail, for soft constraints Score carries a
// continuous [0,1] quality measure and Satisfied is Score > 0.5.
type ConstraintResult struct {
	Constraint Constraint
	Satisfied  bool
	Score      float64
	Details    string
}

// Metrics summarizes quality measures over a generated artifact that don't
// rise to the level of a pass/fail constraint.
type Metrics struct {
	ExpandedRatio   float64 // fraction of submaps left expanded after Optimize
	UnresolvedCount int     // total UnresolvedSymbol warnings seen during generation
	CityCount       int
	RoadCount       int
}

// Report is the result of running Validator.Validate: every hard and soft
// constraint result, plus derived metrics and the overall pass/fail.
type Report struct {
	Passed                bool
	HardConstraintResults []ConstraintResult
	SoftConstraintResults []ConstraintResult
	Warnings              []string
	Errors                []string
	Metrics               Metrics
}

// NewReport creates an empty, passing report ready to accumulate results.
func NewReport() *Report {
	return &Report{Passed: true}
}

func newHardResult(kind, expr string, satisfied bool, details string) ConstraintResult {
	score := 0.0
	if satisfied {
		score = 1.0
	}
	return ConstraintResult{
		Constraint: Constraint{Kind: kind, Expr: expr, Severity: "hard"},
		Satisfied:  satisfied,
		Score:      score,
		Details:    details,
	}
}

func newSoftResult(kind, expr string, score float64, details string) ConstraintResult {
	return ConstraintResult{
		Constraint: Constraint{Kind: kind, Expr: expr, Severity: "soft"},
		Satisfied:  score > 0.5,
		Score:      score,
		Details:    details,
	}
}

// addHard appends a hard constraint result to the report, marking the
// overall report failed and recording an error if it did not pass.
func (r *Report) addHard(result ConstraintResult) {
	r.HardConstraintResults = append(r.HardConstraintResults, result)
	if !result.Satisfied {
		r.Passed = false
		r.Errors = append(r.Errors, result.Details)
	}
}

// addSoft appends a soft constraint result, recording a warning if its
// score falls below the 0.8 threshold.
func (r *Report) addSoft(result ConstraintResult) {
	r.SoftConstraintResults = append(r.SoftConstraintResults, result)
	if result.Score < 0.8 {
		r.Warnings = append(r.Warnings, result.Details)
	}
}

// HasErrors reports whether any hard constraint failed.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether any soft constraint scored below threshold.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// FailedConstraints returns every hard constraint that did not pass.
func (r *Report) FailedConstraints() []ConstraintResult {
	var failed []ConstraintResult
	for _, result := range r.HardConstraintResults {
		if !result.Satisfied {
			failed = append(failed, result)
		}
	}
	return failed
}
