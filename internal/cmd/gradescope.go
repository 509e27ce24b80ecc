package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esselltwo/gradr/internal/gradebook"
	"github.com/esselltwo/gradr/internal/output"
	"github.com/esselltwo/gradr/internal/sheet"
)

var gradescopeRoster string

var gradescopeCmd = &cobra.Command{
	Use:   "gradescope <export.csv> <scores.csv>",
	Short: "Convert a Gradescope export into a score sheet",
	Long: `Extract assignment scores from a Gradescope export for the students on
the roster and write them as a score sheet that an import step can read.

The roster defaults to the one in gradr.yaml.

Examples:
    gradr gradescope gradescope.csv exams.csv
    gradr gradescope export.csv exams.csv --roster names.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runGradescope,
}

func init() {
	gradescopeCmd.Flags().StringVar(&gradescopeRoster, "roster", "", "roster CSV of name,id rows")

	rootCmd.AddCommand(gradescopeCmd)
}

func runGradescope(cmd *cobra.Command, args []string) error {
	cfg, base, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)
	defer func() { _ = log.Sync() }()

	roster := gradescopeRoster
	if roster == "" {
		roster = cfg.Resolve(base, cfg.Gradr.Roster)
	}

	names, err := sheet.ReadFile(roster)
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	gb := gradebook.New(gradebook.WithLogger(log))
	if err := gb.ImportNames(names); err != nil {
		return fmt.Errorf("roster %s: %w", roster, err)
	}

	rows, err := sheet.ReadFile(args[0])
	if err != nil {
		return err
	}
	out, err := sheet.GradescopeRows(rows, gb.IDs())
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if err := sheet.WriteFile(args[1], out); err != nil {
		return err
	}

	log.Info("converted gradescope export",
		zap.String("input", args[0]),
		zap.String("output", args[1]),
		zap.Int("students", len(out)-1))
	cmd.Printf("%s Wrote %s (%d students, %d assignments)\n",
		output.Checkmark(true), args[1], len(out)-1, len(out[0])-1)
	return nil
}
