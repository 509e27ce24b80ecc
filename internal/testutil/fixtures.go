// Package testutil provides test utilities and fixtures for gradr testing.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/esselltwo/gradr/internal/config"
	"github.com/esselltwo/gradr/internal/gradebook"
)

// GradebookOption configures a test gradebook.
type GradebookOption func(testing.TB, *gradebook.Gradebook)

// NewTestGradebook creates a gradebook for testing with optional
// configuration. Log output goes to the test log.
func NewTestGradebook(t testing.TB, opts ...GradebookOption) *gradebook.Gradebook {
	t.Helper()

	gb := gradebook.New(gradebook.WithLogger(zaptest.NewLogger(t)))

	for _, opt := range opts {
		opt(t, gb)
	}

	return gb
}

// WithStudent adds a student to the roster.
func WithStudent(id, name string) GradebookOption {
	return func(_ testing.TB, gb *gradebook.Gradebook) {
		gb.AddStudent(id, name)
	}
}

// WithScores sets one category from raw cells keyed by student id.
// Cells are parsed the way score sheets are.
func WithScores(category string, cells map[string]string) GradebookOption {
	return func(t testing.TB, gb *gradebook.Gradebook) {
		t.Helper()
		for id, cell := range cells {
			s, err := gradebook.ParseScore(cell)
			if err != nil {
				t.Fatalf("WithScores(%s): %v", category, err)
			}
			if err := gb.SetScore(id, category, s); err != nil {
				t.Fatalf("WithScores(%s): %v", category, err)
			}
		}
	}
}

// WithGrades grades a category on the default scale.
func WithGrades(category string, bounds []float64) GradebookOption {
	return func(t testing.TB, gb *gradebook.Gradebook) {
		t.Helper()
		if err := gb.AssignGrades(category, bounds); err != nil {
			t.Fatalf("WithGrades(%s): %v", category, err)
		}
	}
}

// ConfigOption configures a test config.
type ConfigOption func(*config.Config)

// NewTestConfig creates a config for testing with optional configuration.
func NewTestConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithRoster sets the roster path.
func WithRoster(path string) ConfigOption {
	return func(c *config.Config) {
		c.Gradr.Roster = path
	}
}

// WithSteps appends pipeline steps.
func WithSteps(steps ...config.Step) ConfigOption {
	return func(c *config.Config) {
		c.Gradr.Steps = append(c.Gradr.Steps, steps...)
	}
}

// WithScale adds a named scale.
func WithScale(name string, levels ...gradebook.Level) ConfigOption {
	return func(c *config.Config) {
		if c.Gradr.Scales == nil {
			c.Gradr.Scales = make(map[string][]gradebook.Level)
		}
		c.Gradr.Scales[name] = levels
	}
}

// WithReport sets the report sheet.
func WithReport(output string, categories ...string) ConfigOption {
	return func(c *config.Config) {
		c.Gradr.Report = &config.ReportConfig{Output: output, Categories: categories}
	}
}

// WithUpload sets the upload sheet.
func WithUpload(output, category string) ConfigOption {
	return func(c *config.Config) {
		c.Gradr.Upload = &config.UploadConfig{Output: output, Category: category}
	}
}

// TempCourse creates a temporary course directory holding files, keyed by
// path relative to the directory.
func TempCourse(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// TempCourseWithConfig creates a course directory with files and a
// gradr.yaml written from cfg.
func TempCourseWithConfig(t testing.TB, cfg *config.Config, files map[string]string) string {
	t.Helper()

	dir := TempCourse(t, files)
	if err := cfg.Save(filepath.Join(dir, "gradr.yaml")); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return dir
}

// LetterCutoffs are section cutoffs on the default letter scale.
// D- is unreachable.
func LetterCutoffs() []float64 {
	return []float64{math.Inf(-1), math.Inf(1), .35, .40, .43, .48, .58, .68, .74, .79, .86, .91, .98}
}

// ExamCutoffs are final exam cutoffs on the default letter scale.
func ExamCutoffs() []float64 {
	return []float64{math.Inf(-1), 20, 25, 30, 33, 40, 46, 49, 53, 58, 65, 73, 80}
}

// SampleCourseFiles returns the sheets of a three student course.
//
//	Homework: 1001 0.75, 1002 1, 1003 0.375
//	Quiz:     1001 0.75, 1002 0.5, 1003 0.125
//	Section (half each): 1001 0.75 (B), 1002 0.75 (B), 1003 0.25 (F)
//	Final Exam: 1001 75 (A), 1002 58 (B), 1003 missing
//	Total: 1001 33 (P), 1002 27 (P), 1003 0 (NP)
func SampleCourseFiles() map[string]string {
	return map[string]string{
		"names.csv": "Ada Lovelace,1001\n" +
			"Alan Turing,1002\n" +
			"Grace Hopper,1003\n",
		"homework.csv": ",Homework,4,4,4,4\n" +
			"1001,1,4,3,2,0\n" +
			"1002,1,4,4,4,4\n" +
			"1003,2,2,1,0,0\n",
		"quizzes.csv": ",Quiz,8,8\n" +
			"1001,0,8,4\n" +
			"1002,0,4,4\n" +
			"1003,0,,2\n",
		"gradescope.csv": "Name,SID,Email,Midterm,Midterm - Max Points,Final Exam,Final Exam - Max Points\n" +
			"Ada Lovelace,1001,ada@example.edu,50,60,75,100\n" +
			"Alan Turing,1002,alan@example.edu,,60,58,100\n" +
			"Grace Hopper,1003,grace@example.edu,40,60,,100\n" +
			"Dropped Student,9999,gone@example.edu,10,60,10,100\n",
	}
}

// SampleTotalFormula weights the final twice and fails students without one.
const SampleTotalFormula = `missing("Final Exam") ? 0 : grade("Section") + 2 * grade("Final Exam")`

// SampleCourseConfig returns the config that grades SampleCourseFiles.
func SampleCourseConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := NewTestConfig(t,
		WithScale("pass_fail",
			gradebook.Level{Ordinal: 0, Label: "NP"},
			gradebook.Level{Ordinal: 1, Label: "P"},
		),
		WithSteps(
			config.Step{ImportScaled: "homework.csv"},
			config.Step{ImportScaled: "quizzes.csv"},
			config.Step{Fold: &config.FoldStep{
				Sources:       []string{"Homework", "Quiz"},
				Weights:       []float64{0.5, 0.5},
				Into:          "Section",
				DeleteSources: false,
			}},
			config.Step{Gradescope: &config.GradescopeStep{Input: "gradescope.csv", Output: "exams.csv"}},
			config.Step{Import: "exams.csv"},
			config.Step{Grade: &config.GradeStep{Category: "Section", Cutoffs: LetterCutoffs()}},
			config.Step{Grade: &config.GradeStep{Category: "Final Exam", Cutoffs: ExamCutoffs()}},
			config.Step{Compose: &config.ComposeStep{Category: "Total", Formula: SampleTotalFormula}},
			config.Step{Grade: &config.GradeStep{Category: "Total", Cutoffs: []float64{math.Inf(-1), 20}, Scale: "pass_fail"}},
		),
		WithReport("report.csv", "Section", "Final Exam", "Total"),
		WithUpload("upload.csv", "Total"),
	)
	cfg.Gradr.Course = "Sample 101"
	return cfg
}

// SampleCourse writes the sample course and its config to a temp directory.
func SampleCourse(t testing.TB) string {
	t.Helper()
	return TempCourseWithConfig(t, SampleCourseConfig(t), SampleCourseFiles())
}
