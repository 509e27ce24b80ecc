package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/esselltwo/gradr/internal/config"
	"github.com/esselltwo/gradr/internal/graph"
	"github.com/esselltwo/gradr/internal/output"
)

var (
	configValidate bool
	configFormat   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or validate the course configuration",
	Long: `Display the effective configuration after merging defaults with gradr.yaml.

Examples:
    gradr config                     # Show current config
    gradr config --validate          # Check config validity and sheet paths
    gradr config --format yaml       # Output as YAML`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configValidate, "validate", false, "validate configuration and check paths")
	configCmd.Flags().StringVar(&configFormat, "format", "terminal", "output format: terminal, yaml, json")

	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, base, err := loadConfig()
	if err != nil {
		return err
	}

	if configValidate {
		return validateConfig(cmd, cfg, base)
	}

	return displayConfig(cmd, cfg, base)
}

func validateConfig(cmd *cobra.Command, cfg *config.Config, base string) error {
	width := 80
	cmd.Println(output.Header("Configuration Validation", width))
	cmd.Println()

	errors := []string{}
	warnings := []string{}

	if path := configPath(base); path == "" {
		warnings = append(warnings, "Config file not found (using defaults)")
	} else {
		cmd.Printf("  %s Config file: %s\n", output.Color("[PASS]", output.Green), path)
	}

	problems := cfg.Validate()
	for _, e := range problems {
		errors = append(errors, e.Error())
	}

	// Sheets produced by an earlier gradescope step need not exist yet.
	produced := make(map[string]bool)
	for _, step := range cfg.Gradr.Steps {
		if step.Gradescope != nil {
			produced[step.Gradescope.Output] = true
		}
	}
	for _, sheet := range inputSheets(cfg) {
		path := cfg.Resolve(base, sheet)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if produced[sheet] {
				continue
			}
			errors = append(errors, fmt.Sprintf("Sheet not found: %s", path))
		} else {
			cmd.Printf("  %s Sheet: %s\n", output.Color("[PASS]", output.Green), path)
		}
	}

	if len(problems) == 0 {
		if g, err := graph.FromConfig(cfg); err != nil {
			errors = append(errors, err.Error())
		} else {
			for _, cycle := range g.FindCycles() {
				path := g.FindCyclePath(cycle)
				warnings = append(warnings, "Category cycle: "+strings.Join(path, " -> "))
			}
		}
	}

	cmd.Println()

	for _, e := range errors {
		cmd.Printf("  %s %s\n", output.Color("[FAIL]", output.Red), e)
	}
	for _, w := range warnings {
		cmd.Printf("  %s %s\n", output.Color("[WARN]", output.Yellow), w)
	}

	cmd.Println()

	if len(errors) > 0 {
		cmd.Printf("Status: %s\n", output.Color("INVALID", output.Red))
		return NewExitError(1, "configuration validation failed")
	} else if len(warnings) > 0 {
		cmd.Printf("Status: %s\n", output.Color("VALID (with warnings)", output.Yellow))
	} else {
		cmd.Printf("Status: %s\n", output.Color("VALID", output.Green))
	}

	return nil
}

// inputSheets lists the sheets the course reads, roster first.
func inputSheets(cfg *config.Config) []string {
	sheets := []string{cfg.Gradr.Roster}
	for _, step := range cfg.Gradr.Steps {
		switch {
		case step.Import != "":
			sheets = append(sheets, step.Import)
		case step.ImportScaled != "":
			sheets = append(sheets, step.ImportScaled)
		case step.Gradescope != nil:
			sheets = append(sheets, step.Gradescope.Input)
		}
	}
	return sheets
}

// configPath returns the config file in use, or "" for defaults.
func configPath(base string) string {
	if cfgFile != "" {
		return cfgFile
	}
	path, _ := config.FindConfig(base)
	return path
}

func displayConfig(cmd *cobra.Command, cfg *config.Config, base string) error {
	switch configFormat {
	case "json":
		return displayConfigJSON(cmd, cfg)
	case "yaml":
		return displayConfigYAML(cmd, cfg)
	default:
		return displayConfigTerminal(cmd, cfg, base)
	}
}

func displayConfigJSON(cmd *cobra.Command, cfg *config.Config) error {
	// Go through YAML so infinite cutoffs survive as strings.
	raw, err := yaml.Marshal(cfg.Gradr)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data, err := json.MarshalIndent(jsonSafe(doc), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// jsonSafe replaces values JSON cannot hold: infinite floats become
// "inf" or "-inf".
func jsonSafe(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, e := range t {
			t[k] = jsonSafe(e)
		}
	case []interface{}:
		for i, e := range t {
			t[i] = jsonSafe(e)
		}
	case float64:
		if math.IsInf(t, 1) {
			return "inf"
		}
		if math.IsInf(t, -1) {
			return "-inf"
		}
	}
	return v
}

func displayConfigYAML(cmd *cobra.Command, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func displayConfigTerminal(cmd *cobra.Command, cfg *config.Config, base string) error {
	width := 80
	cmd.Println(output.Header("gradr Configuration", width))
	cmd.Println()

	path := configPath(base)
	if path == "" {
		path = "(defaults)"
	}

	g := cfg.Gradr
	if g.Course != "" {
		cmd.Printf("Course: %s\n\n", g.Course)
	}

	cmd.Println("Paths:")
	cmd.Printf("  Config file: %s\n", path)
	cmd.Printf("  Roster:      %s\n", cfg.Resolve(base, g.Roster))
	if g.Report != nil {
		cmd.Printf("  Report:      %s\n", cfg.Resolve(base, g.Report.Output))
	}
	if g.Upload != nil {
		cmd.Printf("  Upload:      %s\n", cfg.Resolve(base, g.Upload.Output))
	}
	cmd.Println()

	cmd.Println("Logging:")
	cmd.Printf("  Level:  %s\n", g.LogLevel)
	cmd.Printf("  Format: %s\n", g.LogFormat)
	cmd.Println()

	if scale, err := cfg.ScaleNamed(""); err == nil {
		labels := make([]string, 0, scale.Len())
		for _, l := range scale.Levels() {
			labels = append(labels, l.Label)
		}
		cmd.Printf("Scale: %s (%s)\n", g.Scale, strings.Join(labels, " "))
		cmd.Println()
	}

	if len(g.Steps) > 0 {
		cmd.Println("Steps:")
		for i, step := range g.Steps {
			cmd.Printf("  %d. %s\n", i+1, describeStep(step))
		}
		cmd.Println()
	}

	return nil
}

// describeStep renders a step as one line.
func describeStep(step config.Step) string {
	kind, err := step.Kind()
	if err != nil {
		return output.Color(err.Error(), output.Red)
	}
	switch kind {
	case config.KindImport:
		return "import " + step.Import
	case config.KindImportScaled:
		return "import scaled " + step.ImportScaled
	case config.KindGradescope:
		return fmt.Sprintf("gradescope %s -> %s", step.Gradescope.Input, step.Gradescope.Output)
	case config.KindFold:
		f := step.Fold
		parts := make([]string, len(f.Sources))
		for i, src := range f.Sources {
			w := "?"
			if i < len(f.Weights) {
				w = fmt.Sprint(f.Weights[i])
			}
			parts[i] = w + "*" + src
		}
		return fmt.Sprintf("fold %s = %s", f.Into, strings.Join(parts, " + "))
	case config.KindGrade:
		scale := step.Grade.Scale
		if scale == "" {
			scale = "course scale"
		}
		return fmt.Sprintf("grade %s (%s)", step.Grade.Category, scale)
	case config.KindCompose:
		return fmt.Sprintf("compose %s = %s", step.Compose.Category, strings.TrimSpace(step.Compose.Formula))
	}
	return kind
}
