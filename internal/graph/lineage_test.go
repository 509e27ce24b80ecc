package graph

import (
	"reflect"
	"testing"

	"github.com/esselltwo/gradr/internal/config"
	"github.com/esselltwo/gradr/internal/testutil"
)

func TestFromConfig(t *testing.T) {
	g, err := FromConfig(testutil.SampleCourseConfig(t))
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	if got, want := g.Sources("Section"), []string{"Homework", "Quiz"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sources(Section) = %v, want %v", got, want)
	}
	if got, want := g.Sources("Total"), []string{"Final Exam", "Section"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sources(Total) = %v, want %v", got, want)
	}
	if got, want := g.Roots(), []string{"Homework", "Quiz", "Final Exam"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
	if g.HasCycles() {
		t.Errorf("sample course has cycles: %v", g.FindCycles())
	}
}

func TestFromConfigCycle(t *testing.T) {
	cfg := testutil.NewTestConfig(t, testutil.WithSteps(
		config.Step{Fold: &config.FoldStep{Sources: []string{"Homework", "Bonus"}, Weights: []float64{1, 1}, Into: "Section"}},
		config.Step{Compose: &config.ComposeStep{Category: "Bonus", Formula: `score("Section") / 10`}},
	))

	g, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("FindCycles() = %v, want one cycle", cycles)
	}
	if got, want := g.FindCyclePath(cycles[0]), []string{"Section", "Bonus", "Section"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cycle path = %v, want %v", got, want)
	}
}

func TestFromConfigBadFormula(t *testing.T) {
	cfg := testutil.NewTestConfig(t, testutil.WithSteps(
		config.Step{Compose: &config.ComposeStep{Category: "Total", Formula: `score(`}},
	))
	if _, err := FromConfig(cfg); err == nil {
		t.Error("FromConfig should fail on a formula that does not parse")
	}
}
