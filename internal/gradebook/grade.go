package gradebook

import (
	"fmt"
	"strings"
)

// Level is one step of an ordinal grade scale.
type Level struct {
	Ordinal int    `yaml:"ordinal" json:"ordinal"`
	Label   string `yaml:"label" json:"label"`
}

// Scale is an immutable, totally ordered list of grade levels.
// Ordinals are strictly increasing but need not be contiguous.
type Scale struct {
	levels []Level
}

// NewScale builds a scale from levels given in ascending ordinal order.
func NewScale(levels ...Level) (*Scale, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: scale has no levels", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(levels))
	for i, l := range levels {
		label := strings.TrimSpace(l.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: level %d has an empty label", ErrInvalidInput, i)
		}
		if seen[label] {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidInput, label)
		}
		seen[label] = true
		if i > 0 && l.Ordinal <= levels[i-1].Ordinal {
			return nil, fmt.Errorf("%w: ordinal %d for %q is not above %d",
				ErrInvalidInput, l.Ordinal, label, levels[i-1].Ordinal)
		}
	}
	return &Scale{levels: append([]Level(nil), levels...)}, nil
}

// DefaultScale returns the standard letter scale. There is no ordinal 1.
func DefaultScale() *Scale {
	return &Scale{levels: []Level{
		{0, "F"},
		{2, "D-"},
		{3, "D"},
		{4, "D+"},
		{5, "C-"},
		{6, "C"},
		{7, "C+"},
		{8, "B-"},
		{9, "B"},
		{10, "B+"},
		{11, "A-"},
		{12, "A"},
		{13, "A+"},
	}}
}

// Len returns the number of levels.
func (s *Scale) Len() int {
	return len(s.levels)
}

// Levels returns a copy of the levels in ascending order.
func (s *Scale) Levels() []Level {
	return append([]Level(nil), s.levels...)
}

// Label returns the label for an ordinal.
func (s *Scale) Label(ordinal int) (string, bool) {
	for _, l := range s.levels {
		if l.Ordinal == ordinal {
			return l.Label, true
		}
	}
	return "", false
}

// Lookup finds a level by label, case-insensitive.
func (s *Scale) Lookup(label string) (Level, bool) {
	label = strings.TrimSpace(label)
	for _, l := range s.levels {
		if strings.EqualFold(l.Label, label) {
			return l, true
		}
	}
	return Level{}, false
}

// Grade is the result of applying cutoffs to a score: a level or missing.
type Grade struct {
	level   Level
	present bool
}

// NewGrade returns a present grade at level l.
func NewGrade(l Level) Grade {
	return Grade{level: l, present: true}
}

// MissingGrade returns the missing grade.
func MissingGrade() Grade {
	return Grade{}
}

// IsMissing returns true if the grade is missing.
func (g Grade) IsMissing() bool {
	return !g.present
}

// Ordinal returns the ordinal, treating missing as zero.
func (g Grade) Ordinal() int {
	if !g.present {
		return 0
	}
	return g.level.Ordinal
}

// Label returns the display label: "" when missing.
func (g Grade) Label() string {
	if !g.present {
		return ""
	}
	return g.level.Label
}

// String returns the display label.
func (g Grade) String() string {
	return g.Label()
}

// Cutoffs binds one lower bound to each level of a scale.
// Bound k is the exclusive minimum a score must exceed for level k.
type Cutoffs struct {
	scale  *Scale
	bounds []float64
}

// NewCutoffs pairs bounds with the levels of scale.
func NewCutoffs(scale *Scale, bounds []float64) (Cutoffs, error) {
	if scale == nil {
		return Cutoffs{}, fmt.Errorf("%w: nil scale", ErrInvalidInput)
	}
	if len(bounds) != scale.Len() {
		return Cutoffs{}, fmt.Errorf("%w: %d cutoffs for a scale of %d levels",
			ErrInvalidInput, len(bounds), scale.Len())
	}
	return Cutoffs{scale: scale, bounds: append([]float64(nil), bounds...)}, nil
}

// Scale returns the scale the cutoffs were built for.
func (c Cutoffs) Scale() *Scale {
	return c.scale
}

// Assign converts a score into a grade.
//
// Levels are scanned in ascending ordinal order and the result is
// overwritten every time the score exceeds the bound, so the last level
// whose bound is exceeded wins. Bounds are assumed non-decreasing, in which
// case that is the highest qualifying level; they are never sorted here.
// A missing score yields a missing grade.
func (c Cutoffs) Assign(s Score) (Grade, error) {
	if s.IsMissing() {
		return MissingGrade(), nil
	}
	g := MissingGrade()
	v := s.Value()
	for i, bound := range c.bounds {
		if v > bound {
			g = NewGrade(c.scale.levels[i])
		}
	}
	if g.IsMissing() {
		return g, fmt.Errorf("%w: score %s does not exceed any cutoff", ErrInvalidInput, s)
	}
	return g, nil
}
