package policy

import (
	"reflect"
	"testing"
)

func TestReferences(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"single", `score("HW")`, []string{"HW"}},
		{"course total", courseTotal, []string{"Final Exam", "First Midterm", "Second Midterm", "Section"}},
		{"all lookups", `graded("A") && !missing("B") ? grade("C") : score("D")`, []string{"A", "B", "C", "D"}},
		{"repeated", `score("HW") + score("HW") * 2`, []string{"HW"}},
		{"constant", `42`, nil},
		{"non-literal argument", `score("H" + "W")`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := References(tt.source)
			if err != nil {
				t.Fatalf("References: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("References(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestReferencesErrors(t *testing.T) {
	for _, src := range []string{"", "  ", "score("} {
		if _, err := References(src); err == nil {
			t.Errorf("References(%q) should fail", src)
		}
	}
}

func TestFormulaReferences(t *testing.T) {
	f, err := Compile(`missing("Final Exam") ? 0 : grade("Section") + 2 * grade("Final Exam")`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{"Final Exam", "Section"}
	if got := f.References(); !reflect.DeepEqual(got, want) {
		t.Errorf("References() = %v, want %v", got, want)
	}
}
