// Package policy evaluates course formulas that compose a student's
// categories into a new score.
//
// A formula is an expr expression. Inside it:
//
//	score("Final Exam")    value of a category, missing as 0
//	grade("Final Exam")    ordinal of a graded category, missing as 0
//	missing("Final Exam")  true if the score is missing
//	graded("Final Exam")   true if the category has a present grade
//
// The result must be a number, or nil for a missing score. Branching on
// missing() is how a course states its own policy for absent work:
//
//	missing("Final Exam") ? 0 : grade("Section") + 2 * grade("Final Exam")
package policy

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/esselltwo/gradr/internal/gradebook"
)

// Formula is a compiled course formula.
type Formula struct {
	source  string
	program *vm.Program
}

// Compile parses and type-checks a formula.
func Compile(source string) (*Formula, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty formula", gradebook.ErrInvalidInput)
	}
	program, err := expr.Compile(source, expr.Env(newEnv(gradebook.Row{}).vars()))
	if err != nil {
		return nil, fmt.Errorf("invalid formula: %w", err)
	}
	return &Formula{source: source, program: program}, nil
}

// Source returns the formula text.
func (f *Formula) Source() string {
	return f.source
}

// Evaluate computes the formula for one student.
func (f *Formula) Evaluate(row gradebook.Row) (gradebook.Score, error) {
	env := newEnv(row)
	out, err := expr.Run(f.program, env.vars())
	if env.err != nil {
		return gradebook.Score{}, env.err
	}
	if err != nil {
		return gradebook.Score{}, fmt.Errorf("evaluating formula: %w", err)
	}
	return toScore(out)
}

// Apply writes the formula's result into category for every student.
func (f *Formula) Apply(gb *gradebook.Gradebook, category string) error {
	return gb.Derive(category, f.Evaluate)
}

func toScore(out interface{}) (gradebook.Score, error) {
	switch v := out.(type) {
	case nil:
		return gradebook.MissingScore(), nil
	case float64:
		return finiteScore(v)
	case float32:
		return finiteScore(float64(v))
	case int:
		return gradebook.NewScore(float64(v)), nil
	case int64:
		return gradebook.NewScore(float64(v)), nil
	case int32:
		return gradebook.NewScore(float64(v)), nil
	default:
		return gradebook.Score{}, fmt.Errorf("%w: formula returned %T, want a number or nil",
			gradebook.ErrInvalidInput, out)
	}
}

func finiteScore(v float64) (gradebook.Score, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return gradebook.Score{}, fmt.Errorf("%w: formula returned %v", gradebook.ErrInvalidInput, v)
	}
	return gradebook.NewScore(v), nil
}

// env binds the formula functions to one student. The first lookup error
// is kept and reported after the run.
type env struct {
	row gradebook.Row
	err error
}

func newEnv(row gradebook.Row) *env {
	return &env{row: row}
}

func (e *env) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *env) vars() map[string]interface{} {
	return map[string]interface{}{
		"score": func(category string) float64 {
			s, err := e.row.Score(category)
			if err != nil {
				e.fail(err)
				return 0
			}
			return s.Value()
		},
		"missing": func(category string) bool {
			s, err := e.row.Score(category)
			if err != nil {
				e.fail(err)
				return false
			}
			return s.IsMissing()
		},
		"grade": func(category string) int {
			g, err := e.row.Grade(category)
			if err != nil {
				e.fail(err)
				return 0
			}
			return g.Ordinal()
		},
		"graded": func(category string) bool {
			g, err := e.row.Grade(category)
			if err != nil {
				e.fail(err)
				return false
			}
			return !g.IsMissing()
		},
	}
}
