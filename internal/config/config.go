// Package config provides course configuration management for gradr.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/esselltwo/gradr/internal/gradebook"
	"github.com/esselltwo/gradr/internal/logger"
	"github.com/esselltwo/gradr/internal/policy"
)

// DefaultScaleName names the built-in letter scale.
const DefaultScaleName = "default"

// Environment variables that override the config file.
const (
	EnvLogLevel  = "GRADR_LOG_LEVEL"
	EnvLogFormat = "GRADR_LOG_FORMAT"
)

// Config represents a gradr course file.
type Config struct {
	Gradr CourseConfig `yaml:"gradr" json:"gradr"`
}

// CourseConfig describes how one course is graded.
type CourseConfig struct {
	// Course is a display name used in logs and reports.
	Course string `yaml:"course" json:"course"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is console or json.
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Scale names the scale grade steps use unless they pick their own.
	Scale string `yaml:"scale" json:"scale"`

	// Scales defines extra named scales in ascending ordinal order.
	Scales map[string][]gradebook.Level `yaml:"scales,omitempty" json:"scales,omitempty"`

	// Roster is the CSV of (name, id) rows.
	Roster string `yaml:"roster" json:"roster"`

	// Steps run in order after the roster is imported.
	Steps []Step `yaml:"steps" json:"steps"`

	// Report configures the grade report sheet.
	Report *ReportConfig `yaml:"report,omitempty" json:"report,omitempty"`

	// Upload configures the registrar upload sheet.
	Upload *UploadConfig `yaml:"upload,omitempty" json:"upload,omitempty"`
}

// Step is one pipeline step. Exactly one field must be set.
type Step struct {
	Import       string          `yaml:"import,omitempty" json:"import,omitempty"`
	ImportScaled string          `yaml:"import_scaled,omitempty" json:"import_scaled,omitempty"`
	Gradescope   *GradescopeStep `yaml:"gradescope,omitempty" json:"gradescope,omitempty"`
	Fold         *FoldStep       `yaml:"fold,omitempty" json:"fold,omitempty"`
	Grade        *GradeStep      `yaml:"grade,omitempty" json:"grade,omitempty"`
	Compose      *ComposeStep    `yaml:"compose,omitempty" json:"compose,omitempty"`
}

// Step kinds.
const (
	KindImport       = "import"
	KindImportScaled = "import_scaled"
	KindGradescope   = "gradescope"
	KindFold         = "fold"
	KindGrade        = "grade"
	KindCompose      = "compose"
)

// GradescopeStep converts a Gradescope export for the roster.
type GradescopeStep struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
}

// FoldStep combines categories with weights.
type FoldStep struct {
	Sources       []string  `yaml:"sources" json:"sources"`
	Weights       []float64 `yaml:"weights" json:"weights"`
	Into          string    `yaml:"into" json:"into"`
	DeleteSources bool      `yaml:"delete_sources" json:"delete_sources"`
}

// GradeStep assigns grades to a category.
type GradeStep struct {
	Category string    `yaml:"category" json:"category"`
	Cutoffs  []float64 `yaml:"cutoffs" json:"cutoffs"`
	Scale    string    `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// ComposeStep computes a category from a formula.
type ComposeStep struct {
	Category string `yaml:"category" json:"category"`
	Formula  string `yaml:"formula" json:"formula"`
}

// ReportConfig configures the grade report sheet.
type ReportConfig struct {
	Output     string   `yaml:"output" json:"output"`
	Categories []string `yaml:"categories" json:"categories"`
}

// UploadConfig configures the upload sheet.
type UploadConfig struct {
	Output   string `yaml:"output" json:"output"`
	Category string `yaml:"category" json:"category"`
}

// Kind returns which step this is.
func (s Step) Kind() (string, error) {
	var kinds []string
	if s.Import != "" {
		kinds = append(kinds, KindImport)
	}
	if s.ImportScaled != "" {
		kinds = append(kinds, KindImportScaled)
	}
	if s.Gradescope != nil {
		kinds = append(kinds, KindGradescope)
	}
	if s.Fold != nil {
		kinds = append(kinds, KindFold)
	}
	if s.Grade != nil {
		kinds = append(kinds, KindGrade)
	}
	if s.Compose != nil {
		kinds = append(kinds, KindCompose)
	}
	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("empty step")
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("step sets more than one action: %s", strings.Join(kinds, ", "))
	}
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Gradr: CourseConfig{
			LogLevel:  "info",
			LogFormat: "console",
			Scale:     DefaultScaleName,
			Scales:    make(map[string][]gradebook.Level),
			Roster:    "names.csv",
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig searches for a configuration file starting from the given path.
func FindConfig(startPath string) (string, error) {
	candidates := []string{
		"gradr.yaml",
		"gradr.yml",
		".gradr/config.yaml",
	}

	// Search from start path upward
	dir := startPath
	for {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no gradr configuration found")
}

// LoadFromDir loads configuration from the given directory and returns the
// directory relative paths resolve against.
func LoadFromDir(dir string) (*Config, string, error) {
	path, err := FindConfig(dir)
	if err != nil {
		// Return default config if no config file found
		return DefaultConfig(), dir, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, BaseDir(path), nil
}

// BaseDir returns the directory a config file's paths are relative to.
// Files under .gradr/ resolve against the project directory.
func BaseDir(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == ".gradr" {
		return filepath.Dir(dir)
	}
	return dir
}

// ApplyEnv overrides logging settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Gradr.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Gradr.LogFormat = v
	}
}

// Resolve returns path relative to baseDir unless it is absolute.
func (c *Config) Resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Logger returns the logger settings.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:  c.Gradr.LogLevel,
		Format: c.Gradr.LogFormat,
		Course: c.Gradr.Course,
	}
}

// ScaleNamed returns a scale by name. The default scale may be overridden
// by defining a scale called "default".
func (c *Config) ScaleNamed(name string) (*gradebook.Scale, error) {
	if name == "" {
		name = c.Gradr.Scale
	}
	if name == "" {
		name = DefaultScaleName
	}
	if levels, ok := c.Gradr.Scales[name]; ok {
		s, err := gradebook.NewScale(levels...)
		if err != nil {
			return nil, fmt.Errorf("scale %q: %w", name, err)
		}
		return s, nil
	}
	if name == DefaultScaleName {
		return gradebook.DefaultScale(), nil
	}
	return nil, fmt.Errorf("unknown scale %q", name)
}

// Validate checks the configuration for mistakes that can be caught
// before any sheet is read.
func (c *Config) Validate() []error {
	var errs []error
	g := c.Gradr

	if !logger.ValidLevel(g.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q is not debug, info, warn or error", g.LogLevel))
	}
	switch strings.ToLower(g.LogFormat) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q is not console or json", g.LogFormat))
	}
	if _, err := c.ScaleNamed(""); err != nil {
		errs = append(errs, err)
	}
	for name := range g.Scales {
		if _, err := c.ScaleNamed(name); err != nil {
			errs = append(errs, err)
		}
	}
	if g.Roster == "" {
		errs = append(errs, fmt.Errorf("roster is required"))
	}

	for i, step := range g.Steps {
		if err := c.validateStep(step); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}

	if g.Report != nil {
		if g.Report.Output == "" {
			errs = append(errs, fmt.Errorf("report: output is required"))
		}
		if len(g.Report.Categories) == 0 {
			errs = append(errs, fmt.Errorf("report: categories are required"))
		}
	}
	if g.Upload != nil {
		if g.Upload.Output == "" {
			errs = append(errs, fmt.Errorf("upload: output is required"))
		}
		if g.Upload.Category == "" {
			errs = append(errs, fmt.Errorf("upload: category is required"))
		}
	}
	return errs
}

func (c *Config) validateStep(step Step) error {
	kind, err := step.Kind()
	if err != nil {
		return err
	}
	switch kind {
	case KindGradescope:
		if step.Gradescope.Input == "" || step.Gradescope.Output == "" {
			return fmt.Errorf("gradescope: input and output are required")
		}
	case KindFold:
		f := step.Fold
		if f.Into == "" {
			return fmt.Errorf("fold: into is required")
		}
		if len(f.Sources) == 0 || len(f.Sources) != len(f.Weights) {
			return fmt.Errorf("fold: %d sources but %d weights", len(f.Sources), len(f.Weights))
		}
	case KindGrade:
		gs := step.Grade
		if gs.Category == "" {
			return fmt.Errorf("grade: category is required")
		}
		scale, err := c.ScaleNamed(gs.Scale)
		if err != nil {
			return fmt.Errorf("grade %q: %w", gs.Category, err)
		}
		if _, err := gradebook.NewCutoffs(scale, gs.Cutoffs); err != nil {
			return fmt.Errorf("grade %q: %w", gs.Category, err)
		}
	case KindCompose:
		if step.Compose.Category == "" || strings.TrimSpace(step.Compose.Formula) == "" {
			return fmt.Errorf("compose: category and formula are required")
		}
		if _, err := policy.Compile(step.Compose.Formula); err != nil {
			return fmt.Errorf("compose %q: %w", step.Compose.Category, err)
		}
	}
	return nil
}
