package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// FuzzConfigParse tests YAML config parsing with arbitrary input.
// It ensures that malformed YAML doesn't cause panics.
func FuzzConfigParse(f *testing.F) {
	f.Add(sampleConfig)
	f.Add(`gradr:
  roster: names.csv
  steps:
    - import: exams.csv
`)
	f.Add(`gradr:
  scales:
    pass_fail:
      - {ordinal: 0, label: NP}
      - {ordinal: 1, label: P}
  steps:
    - grade: {category: Final, cutoffs: [-.inf, 50], scale: pass_fail}
`)
	f.Add(`gradr:
  steps:
    - fold: {sources: [A], weights: [1, 2], into: B}
    - compose: {category: T, formula: "1 +"}
`)

	// Edge cases
	f.Add(``)
	f.Add(`gradr:`)
	f.Add(`gradr:
  roster: ` + strings.Repeat("a", 10000) + `
`)
	f.Add(`# Just a comment`)
	f.Add(`---
gradr:
  roster: test.csv
`)

	// Malformed YAML
	f.Add(`{invalid json-like}`)
	f.Add(`gradr:
    roster: bad indent
  scale: wrong
`)
	f.Add(`gradr: [1, 2, 3]`)
	f.Add("\x00\x00\x00")
	f.Add(`gradr:
  steps:
    - grade: {cutoffs: [a, b]}
`)
	f.Add("\ufeff" + `gradr:
  roster: test.csv
`)

	f.Fuzz(func(t *testing.T, data string) {
		config, err := Parse([]byte(data))
		if err != nil {
			return
		}

		// Exercise config methods without panicking
		_ = config.Validate()
		_ = config.Resolve("/course", config.Gradr.Roster)
		_, _ = config.ScaleNamed("")
		for _, step := range config.Gradr.Steps {
			_, _ = step.Kind()
		}
	})
}

// FuzzConfigRoundTrip tests that configs survive serialization round trip.
func FuzzConfigRoundTrip(f *testing.F) {
	f.Add("names.csv", "Math 1A", "exams.csv", "Final")
	f.Add("", "", "", "")
	f.Add("path/with spaces/names.csv", "Course: with colon", "a.csv", "Total \"quoted\"")

	f.Fuzz(func(t *testing.T, roster, course, importPath, category string) {
		config := DefaultConfig()
		config.Gradr.Roster = roster
		config.Gradr.Course = course
		config.Gradr.Steps = []Step{
			{Import: importPath},
			{Compose: &ComposeStep{Category: category, Formula: "1"}},
		}

		data, err := yaml.Marshal(config)
		if err != nil {
			return
		}

		config2, err := Parse(data)
		if err != nil {
			t.Fatalf("Failed to parse serialized config: %v", err)
		}

		if config2.Gradr.Roster != roster {
			t.Errorf("Roster: got %q, want %q", config2.Gradr.Roster, roster)
		}
		if config2.Gradr.Course != course {
			t.Errorf("Course: got %q, want %q", config2.Gradr.Course, course)
		}
		if len(config2.Gradr.Steps) != 2 || config2.Gradr.Steps[1].Compose == nil {
			t.Fatalf("Steps did not survive: %+v", config2.Gradr.Steps)
		}
		if config2.Gradr.Steps[1].Compose.Category != category {
			t.Errorf("Category: got %q, want %q", config2.Gradr.Steps[1].Compose.Category, category)
		}
	})
}

// FuzzResolve tests sheet path resolution.
func FuzzResolve(f *testing.F) {
	f.Add("names.csv", "/course")
	f.Add("/absolute/path/names.csv", "/course")
	f.Add("", "/course")
	f.Add("path with spaces/a.csv", "/course/with spaces")
	f.Add(strings.Repeat("a/", 100)+"a.csv", "/course")

	f.Fuzz(func(t *testing.T, path, baseDir string) {
		config := DefaultConfig()

		result := config.Resolve(baseDir, path)

		if len(path) > 0 && path[0] == '/' {
			if result != path {
				t.Errorf("Absolute path not preserved: got %q, want %q", result, path)
			}
		}
		if path == "" && result != "" {
			t.Errorf("empty path resolved to %q", result)
		}
	})
}
