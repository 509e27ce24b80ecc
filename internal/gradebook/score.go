// Package gradebook provides the score, grade and gradebook models for gradr.
package gradebook

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is a single assignment or category value for one student.
// A Score is either a finite number or missing. Missing is a distinct state:
// it reads as 0.0 in arithmetic but stays visible to display and grading.
type Score struct {
	value   float64
	present bool
}

// NewScore returns a present score holding v.
func NewScore(v float64) Score {
	return Score{value: v, present: true}
}

// MissingScore returns the missing score.
func MissingScore() Score {
	return Score{}
}

// ParseScore parses a spreadsheet cell. An empty cell is a missing score.
func ParseScore(s string) (Score, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MissingScore(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Score{}, fmt.Errorf("%w: invalid score %q", ErrParse, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Score{}, fmt.Errorf("%w: score %q is not finite", ErrParse, s)
	}
	return NewScore(v), nil
}

// IsMissing returns true if the score is missing.
func (s Score) IsMissing() bool {
	return !s.present
}

// Value returns the numeric value, treating missing as zero.
func (s Score) Value() float64 {
	if !s.present {
		return 0.0
	}
	return s.value
}

// String returns the cell representation: "" when missing.
func (s Score) String() string {
	if !s.present {
		return ""
	}
	return strconv.FormatFloat(s.value, 'f', -1, 64)
}
