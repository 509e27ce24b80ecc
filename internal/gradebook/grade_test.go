package gradebook

import (
	"errors"
	"math"
	"testing"
)

func fourLevelScale(t *testing.T) *Scale {
	t.Helper()
	s, err := NewScale(
		Level{0, "F"},
		Level{1, "C"},
		Level{2, "B"},
		Level{3, "A"},
	)
	if err != nil {
		t.Fatalf("NewScale: %v", err)
	}
	return s
}

func TestDefaultScale(t *testing.T) {
	s := DefaultScale()
	if s.Len() != 13 {
		t.Fatalf("DefaultScale().Len() = %d, want 13", s.Len())
	}
	if _, ok := s.Label(1); ok {
		t.Error("default scale should have no ordinal 1")
	}
	tests := map[int]string{0: "F", 2: "D-", 6: "C", 9: "B", 13: "A+"}
	for ord, want := range tests {
		got, ok := s.Label(ord)
		if !ok || got != want {
			t.Errorf("Label(%d) = %q, %v; want %q", ord, got, ok, want)
		}
	}
	l, ok := s.Lookup("b+")
	if !ok || l.Ordinal != 10 {
		t.Errorf("Lookup(b+) = %+v, %v; want ordinal 10", l, ok)
	}
}

func TestNewScaleValidation(t *testing.T) {
	tests := []struct {
		name   string
		levels []Level
	}{
		{"empty", nil},
		{"blank label", []Level{{0, "F"}, {1, " "}}},
		{"duplicate label", []Level{{0, "F"}, {1, "F"}}},
		{"descending", []Level{{2, "B"}, {1, "C"}}},
		{"repeated ordinal", []Level{{1, "C"}, {1, "B"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewScale(tt.levels...); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("NewScale error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewScaleKeepsGaps(t *testing.T) {
	s, err := NewScale(Level{0, "F"}, Level{3, "D"}, Level{9, "B"})
	if err != nil {
		t.Fatalf("NewScale: %v", err)
	}
	levels := s.Levels()
	if levels[1].Ordinal != 3 || levels[2].Ordinal != 9 {
		t.Errorf("Levels() = %+v, ordinals should be preserved", levels)
	}
}

func TestCutoffsAssign(t *testing.T) {
	c, err := NewCutoffs(fourLevelScale(t), []float64{math.Inf(-1), 50, 70, 90})
	if err != nil {
		t.Fatalf("NewCutoffs: %v", err)
	}

	tests := []struct {
		name    string
		score   Score
		ordinal int
		label   string
		missing bool
	}{
		{"75", NewScore(75), 2, "B", false},
		{"50 is not above 50", NewScore(50), 0, "F", false},
		{"50.01", NewScore(50.01), 1, "C", false},
		{"95", NewScore(95), 3, "A", false},
		{"negative", NewScore(-10), 0, "F", false},
		{"missing", MissingScore(), 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := c.Assign(tt.score)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			if g.IsMissing() != tt.missing {
				t.Errorf("IsMissing() = %v, want %v", g.IsMissing(), tt.missing)
			}
			if g.Ordinal() != tt.ordinal {
				t.Errorf("Ordinal() = %d, want %d", g.Ordinal(), tt.ordinal)
			}
			if g.Label() != tt.label {
				t.Errorf("Label() = %q, want %q", g.Label(), tt.label)
			}
		})
	}
}

func TestCutoffsAssignLastSatisfiedWins(t *testing.T) {
	// Bounds out of order: 80 misses B (90) but clears A (60). The scan does
	// not stop at the first bound missed, so A wins over C.
	c, err := NewCutoffs(fourLevelScale(t), []float64{math.Inf(-1), 10, 90, 60})
	if err != nil {
		t.Fatalf("NewCutoffs: %v", err)
	}
	g, err := c.Assign(NewScore(80))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if g.Label() != "A" {
		t.Errorf("Assign(80) = %q, want A", g.Label())
	}
}

func TestCutoffsAssignMonotonic(t *testing.T) {
	scale := DefaultScale()
	bounds := []float64{math.Inf(-1), 20, 25, 30, 33, 40, 46, 49, 53, 58, 65, 73, 80}
	c, err := NewCutoffs(scale, bounds)
	if err != nil {
		t.Fatalf("NewCutoffs: %v", err)
	}
	prev := -1
	for v := -5.0; v <= 100; v += 0.5 {
		g, err := c.Assign(NewScore(v))
		if err != nil {
			t.Fatalf("Assign(%v): %v", v, err)
		}
		if g.Ordinal() < prev {
			t.Fatalf("Assign(%v) = %d, below %d for a smaller score", v, g.Ordinal(), prev)
		}
		prev = g.Ordinal()
	}
	if prev != 13 {
		t.Errorf("top score ordinal = %d, want 13", prev)
	}
}

func TestCutoffsUnreachableLevel(t *testing.T) {
	// +inf on D- makes it unreachable, as in a scale that skips D-.
	bounds := []float64{math.Inf(-1), math.Inf(1), .35, .40, .43, .48, .58, .68, .74, .79, .86, .91, .98}
	c, err := NewCutoffs(DefaultScale(), bounds)
	if err != nil {
		t.Fatalf("NewCutoffs: %v", err)
	}
	g, err := c.Assign(NewScore(0.3))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if g.Label() != "F" {
		t.Errorf("Assign(0.3) = %q, want F", g.Label())
	}
	g, _ = c.Assign(NewScore(0.36))
	if g.Label() != "D" {
		t.Errorf("Assign(0.36) = %q, want D", g.Label())
	}
}

func TestCutoffsErrors(t *testing.T) {
	if _, err := NewCutoffs(DefaultScale(), []float64{1, 2, 3}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NewCutoffs wrong length error = %v, want ErrInvalidInput", err)
	}
	if _, err := NewCutoffs(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NewCutoffs nil scale error = %v, want ErrInvalidInput", err)
	}

	c, err := NewCutoffs(fourLevelScale(t), []float64{0, 50, 70, 90})
	if err != nil {
		t.Fatalf("NewCutoffs: %v", err)
	}
	if _, err := c.Assign(NewScore(-1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Assign below every cutoff error = %v, want ErrInvalidInput", err)
	}
}

func TestMissingGrade(t *testing.T) {
	g := MissingGrade()
	if !g.IsMissing() || g.Ordinal() != 0 || g.Label() != "" {
		t.Errorf("MissingGrade() = %+v", g)
	}
	p := NewGrade(Level{0, "F"})
	if p.IsMissing() {
		t.Error("F grade should be present")
	}
	if p.Ordinal() != g.Ordinal() {
		t.Error("F and missing both read as ordinal 0")
	}
}
