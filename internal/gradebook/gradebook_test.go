package gradebook

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func newRoster(t *testing.T) *Gradebook {
	t.Helper()
	gb := New()
	err := gb.ImportNames([][]string{
		{"Ada Lovelace", "1001", "ignored"},
		{"Alan Turing", "1002"},
		{"Grace Hopper", "1003"},
	})
	if err != nil {
		t.Fatalf("ImportNames: %v", err)
	}
	return gb
}

func mustScore(t *testing.T, gb *Gradebook, id, cat string) Score {
	t.Helper()
	s, err := gb.Score(id, cat)
	if err != nil {
		t.Fatalf("Score(%s, %s): %v", id, cat, err)
	}
	return s
}

func TestImportNames(t *testing.T) {
	gb := newRoster(t)

	if gb.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", gb.Len())
	}
	if got := gb.IDs(); !reflect.DeepEqual(got, []string{"1001", "1002", "1003"}) {
		t.Errorf("IDs() = %v", got)
	}
	name, err := gb.Name("1002")
	if err != nil || name != "Alan Turing" {
		t.Errorf("Name(1002) = %q, %v", name, err)
	}
	if _, err := gb.Name("9999"); !errors.Is(err, ErrUnknownStudent) {
		t.Errorf("Name(9999) error = %v, want ErrUnknownStudent", err)
	}
	cats, err := gb.Categories("1001")
	if err != nil || len(cats) != 0 {
		t.Errorf("Categories(1001) = %v, %v; want empty row", cats, err)
	}
}

func TestImportNamesDuplicateOverwrites(t *testing.T) {
	gb := newRoster(t)
	if err := gb.SetScore("1001", "HW", NewScore(1)); err != nil {
		t.Fatalf("SetScore: %v", err)
	}
	if err := gb.ImportNames([][]string{{"Augusta Ada King", "1001"}}); err != nil {
		t.Fatalf("ImportNames: %v", err)
	}
	if gb.Len() != 3 {
		t.Errorf("Len() = %d, want 3", gb.Len())
	}
	if gb.IDs()[0] != "1001" {
		t.Errorf("duplicate id should keep its roster position, got %v", gb.IDs())
	}
	if name, _ := gb.Name("1001"); name != "Augusta Ada King" {
		t.Errorf("Name(1001) = %q", name)
	}
	if _, err := gb.Score("1001", "HW"); !errors.Is(err, ErrMissingCategory) {
		t.Errorf("row should be reset, Score error = %v", err)
	}
}

func TestImportNamesShortRow(t *testing.T) {
	gb := New()
	if err := gb.ImportNames([][]string{{"only a name"}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ImportNames error = %v, want ErrInvalidInput", err)
	}
}

func TestImportScores(t *testing.T) {
	gb := newRoster(t)
	err := gb.ImportScores([][]string{
		{"", "First Midterm", "Final Exam"},
		{"1001", "40", "70"},
		{"1002", "", "55.5"},
		{"1003", "33"},
	})
	if err != nil {
		t.Fatalf("ImportScores: %v", err)
	}

	if s := mustScore(t, gb, "1001", "Final Exam"); s.Value() != 70 {
		t.Errorf("1001 Final = %v, want 70", s.Value())
	}
	if s := mustScore(t, gb, "1002", "First Midterm"); !s.IsMissing() {
		t.Error("1002 midterm should be missing")
	}
	if s := mustScore(t, gb, "1003", "Final Exam"); !s.IsMissing() {
		t.Error("short row should import trailing cells as missing")
	}
}

func TestImportScoresErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{"no header", nil, ErrInvalidInput},
		{"unknown student", [][]string{{"", "Quiz"}, {"4242", "1"}}, ErrUnknownStudent},
		{"bad number", [][]string{{"", "Quiz"}, {"1001", "ten"}}, ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gb := newRoster(t)
			if err := gb.ImportScores(tt.rows); !errors.Is(err, tt.want) {
				t.Errorf("ImportScores error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestImportScaledScores(t *testing.T) {
	gb := newRoster(t)
	err := gb.ImportScaledScores([][]string{
		{"", "Quiz", "100", "100", "100"},
		{"1001", "1", "80", "90", "40"},
		{"1002", "0", "50", "", "100"},
		{"1003", "2", "10", "20", "30"},
	})
	if err != nil {
		t.Fatalf("ImportScaledScores: %v", err)
	}

	tests := map[string]float64{"1001": 0.85, "1002": 0.5, "1003": 0.3}
	for id, want := range tests {
		if got := mustScore(t, gb, id, "Quiz").Value(); !almostEqual(got, want) {
			t.Errorf("%s Quiz = %v, want %v", id, got, want)
		}
	}
}

func TestImportScaledScoresErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{"bad maximum", [][]string{{"", "Quiz", "x"}}, ErrParse},
		{"NaN maximum", [][]string{{"", "Quiz", "NaN"}, {"1001", "0", "10"}}, ErrParse},
		{"infinite maximum", [][]string{{"", "Quiz", "Inf"}, {"1001", "0", "10"}}, ErrParse},
		{"blank maximum", [][]string{{"", "Quiz", ""}, {"1001", "0", "10"}}, ErrParse},
		{"maximum too small", [][]string{{"", "Quiz", "1e-320"}, {"1001", "0", "10"}}, ErrInvalidInput},
		{"bad drop count", [][]string{{"", "Quiz", "10"}, {"1001", "one", "5"}}, ErrParse},
		{"drop everything", [][]string{{"", "Quiz", "10", "10"}, {"1001", "2", "5", "5"}}, ErrInvalidInput},
		{"row too long", [][]string{{"", "Quiz", "10"}, {"1001", "0", "5", "5"}}, ErrInvalidInput},
		{"zero maximum", [][]string{{"", "Quiz", "0"}, {"1001", "0", "5"}}, ErrInvalidInput},
		{"unknown student", [][]string{{"", "Quiz", "10"}, {"77", "0", "5"}}, ErrUnknownStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gb := newRoster(t)
			if err := gb.ImportScaledScores(tt.rows); !errors.Is(err, tt.want) {
				t.Errorf("ImportScaledScores error = %v, want %v", err, tt.want)
			}
		})
	}
}

func withSection(t *testing.T) *Gradebook {
	t.Helper()
	gb := newRoster(t)
	err := gb.ImportScores([][]string{
		{"", "HW", "Quiz"},
		{"1001", "0.8", ""},
		{"1002", "0.6", "0.9"},
		{"1003", "", ""},
	})
	if err != nil {
		t.Fatalf("ImportScores: %v", err)
	}
	return gb
}

func TestFoldCategories(t *testing.T) {
	gb := withSection(t)
	if err := gb.FoldCategories([]string{"HW", "Quiz"}, []float64{0.5, 0.5}, "Section", false); err != nil {
		t.Fatalf("FoldCategories: %v", err)
	}

	tests := map[string]float64{"1001": 0.4, "1002": 0.75, "1003": 0}
	for id, want := range tests {
		s := mustScore(t, gb, id, "Section")
		if s.IsMissing() {
			t.Errorf("%s Section should be present", id)
		}
		if !almostEqual(s.Value(), want) {
			t.Errorf("%s Section = %v, want %v", id, s.Value(), want)
		}
	}
	if _, err := gb.Score("1001", "HW"); err != nil {
		t.Error("sources should be kept without deleteSources")
	}
}

func TestFoldCategoriesIdentity(t *testing.T) {
	gb := withSection(t)
	if err := gb.FoldCategories([]string{"HW"}, []float64{1}, "Copy", false); err != nil {
		t.Fatalf("FoldCategories: %v", err)
	}
	for _, id := range gb.IDs() {
		src := mustScore(t, gb, id, "HW")
		dst := mustScore(t, gb, id, "Copy")
		if src.Value() != dst.Value() {
			t.Errorf("%s Copy = %v, want %v", id, dst.Value(), src.Value())
		}
	}
}

func TestFoldCategoriesDeleteSources(t *testing.T) {
	gb := withSection(t)
	if err := gb.FoldCategories([]string{"HW", "Quiz"}, []float64{0.5, 0.5}, "Section", true); err != nil {
		t.Fatalf("FoldCategories: %v", err)
	}
	for _, id := range gb.IDs() {
		cats, _ := gb.Categories(id)
		if !reflect.DeepEqual(cats, []string{"Section"}) {
			t.Errorf("%s categories = %v, want [Section]", id, cats)
		}
	}
	if got := mustScore(t, gb, "1002", "Section").Value(); !almostEqual(got, 0.75) {
		t.Errorf("1002 Section = %v, want 0.75", got)
	}
}

func TestFoldCategoriesErrors(t *testing.T) {
	gb := withSection(t)
	if err := gb.FoldCategories([]string{"HW"}, []float64{0.5, 0.5}, "X", false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("weights mismatch error = %v, want ErrInvalidInput", err)
	}
	if err := gb.FoldCategories(nil, nil, "X", false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty fold error = %v, want ErrInvalidInput", err)
	}
	if err := gb.FoldCategories([]string{"HW", "Quiz"}, []float64{math.Inf(1), 1}, "X", false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("infinite total error = %v, want ErrInvalidInput", err)
	}
	if _, err := gb.Score("1001", "X"); err == nil {
		t.Error("an infinite total should not be stored")
	}

	// 1002 lacks Lab: 1001 is folded before the failure and keeps its total.
	if err := gb.SetScore("1001", "Lab", NewScore(1)); err != nil {
		t.Fatalf("SetScore: %v", err)
	}
	err := gb.FoldCategories([]string{"HW", "Lab"}, []float64{1, 1}, "X", true)
	if !errors.Is(err, ErrMissingCategory) {
		t.Fatalf("missing source error = %v, want ErrMissingCategory", err)
	}
	if got := mustScore(t, gb, "1001", "X").Value(); !almostEqual(got, 1.8) {
		t.Errorf("1001 X = %v, want 1.8", got)
	}
	if _, err := gb.Score("1002", "HW"); err != nil {
		t.Error("failing student's sources should not be deleted")
	}
}

func TestAssignGrades(t *testing.T) {
	scale, err := NewScale(Level{0, "F"}, Level{1, "C"}, Level{2, "B"}, Level{3, "A"})
	if err != nil {
		t.Fatalf("NewScale: %v", err)
	}
	gb := New(WithScale(scale))
	if err := gb.ImportNames([][]string{{"a", "1"}, {"b", "2"}, {"c", "3"}}); err != nil {
		t.Fatalf("ImportNames: %v", err)
	}
	if err := gb.ImportScores([][]string{{"", "Total"}, {"1", "75"}, {"2", "50"}, {"3", ""}}); err != nil {
		t.Fatalf("ImportScores: %v", err)
	}

	bounds := []float64{math.Inf(-1), 50, 70, 90}
	if err := gb.AssignGrades("Total", bounds); err != nil {
		t.Fatalf("AssignGrades: %v", err)
	}
	if !gb.IsGraded("Total") {
		t.Error("Total should be graded")
	}

	want := map[string]string{"1": "B", "2": "F", "3": ""}
	for id, label := range want {
		g, err := gb.Grade(id, "Total")
		if err != nil {
			t.Fatalf("Grade(%s): %v", id, err)
		}
		if g.Label() != label {
			t.Errorf("Grade(%s) = %q, want %q", id, g.Label(), label)
		}
	}
	if g, _ := gb.Grade("3", "Total"); !g.IsMissing() {
		t.Error("missing score should give a missing grade, not F")
	}

	// Reassigning recomputes and stays registered once.
	if err := gb.SetScore("2", "Total", NewScore(95)); err != nil {
		t.Fatalf("SetScore: %v", err)
	}
	if err := gb.AssignGrades("Total", bounds); err != nil {
		t.Fatalf("AssignGrades again: %v", err)
	}
	if g, _ := gb.Grade("2", "Total"); g.Label() != "A" {
		t.Errorf("regraded 2 = %q, want A", g.Label())
	}
	if got := gb.GradedCategories(); !reflect.DeepEqual(got, []string{"Total"}) {
		t.Errorf("GradedCategories() = %v", got)
	}
}

func TestAssignGradesErrors(t *testing.T) {
	gb := withSection(t)
	if err := gb.AssignGrades("HW", []float64{0, 1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("wrong cutoff length error = %v, want ErrInvalidInput", err)
	}
	if gb.IsGraded("HW") {
		t.Error("failed assignment should not register the category")
	}

	bounds := make([]float64, gb.Scale().Len())
	bounds[0] = math.Inf(-1)
	for i := 1; i < len(bounds); i++ {
		bounds[i] = float64(i) / 20
	}
	if err := gb.AssignGrades("Nope", bounds); !errors.Is(err, ErrMissingCategory) {
		t.Errorf("absent category error = %v, want ErrMissingCategory", err)
	}
	if _, err := gb.Grade("1001", "HW"); !errors.Is(err, ErrMissingCategory) {
		t.Errorf("ungraded Grade error = %v, want ErrMissingCategory", err)
	}
	if _, err := gb.Grade("nobody", "HW"); !errors.Is(err, ErrUnknownStudent) {
		t.Errorf("unknown Grade error = %v, want ErrUnknownStudent", err)
	}
}

func TestCheckCategory(t *testing.T) {
	gb := withSection(t)
	if err := gb.CheckCategory("HW"); err != nil {
		t.Errorf("CheckCategory(HW): %v", err)
	}
	_ = gb.SetScore("1002", "Bonus", NewScore(1))
	if err := gb.CheckCategory("Bonus"); !errors.Is(err, ErrMissingCategory) {
		t.Errorf("CheckCategory(Bonus) error = %v, want ErrMissingCategory", err)
	}
}

func TestSetScoreUnknownStudent(t *testing.T) {
	gb := New()
	if err := gb.SetScore("x", "HW", NewScore(1)); !errors.Is(err, ErrUnknownStudent) {
		t.Errorf("SetScore error = %v, want ErrUnknownStudent", err)
	}
	if _, err := gb.Score("x", "HW"); !errors.Is(err, ErrUnknownStudent) {
		t.Errorf("Score error = %v, want ErrUnknownStudent", err)
	}
}

func TestDerive(t *testing.T) {
	gb := withSection(t)
	err := gb.Derive("Flag", func(r Row) (Score, error) {
		s, err := r.Score("Quiz")
		if err != nil {
			return Score{}, err
		}
		if s.IsMissing() {
			return MissingScore(), nil
		}
		return NewScore(s.Value() * 10), nil
	})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if s := mustScore(t, gb, "1001", "Flag"); !s.IsMissing() {
		t.Error("1001 Flag should be missing")
	}
	if s := mustScore(t, gb, "1002", "Flag"); !almostEqual(s.Value(), 9) {
		t.Errorf("1002 Flag = %v, want 9", s.Value())
	}

	boom := errors.New("boom")
	err = gb.Derive("Other", func(r Row) (Score, error) { return Score{}, boom })
	if !errors.Is(err, boom) {
		t.Errorf("Derive error = %v, want boom", err)
	}
}
