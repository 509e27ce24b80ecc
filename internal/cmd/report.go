package cmd

import (
	"github.com/spf13/cobra"

	"github.com/esselltwo/gradr/internal/gradebook"
	"github.com/esselltwo/gradr/internal/output"
	"github.com/esselltwo/gradr/internal/pipeline"
	"github.com/esselltwo/gradr/internal/sheet"
)

var reportCSV bool

var reportCmd = &cobra.Command{
	Use:   "report [categories...]",
	Short: "Print a grade report",
	Long: `Grade the course and print a report of the given categories. Without
arguments the categories of the configured report are used. No files are
written except Gradescope conversions the course steps produce.

Examples:
    gradr report                       # Configured report categories
    gradr report Section "Final Exam"  # Pick categories
    gradr report --csv > report.csv    # Report sheet on stdout`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportCSV, "csv", false, "print the report sheet as CSV")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, base, err := loadConfig()
	if err != nil {
		return err
	}
	if err := checkConfig(cmd, cfg); err != nil {
		return err
	}

	categories := args
	if len(categories) == 0 && cfg.Gradr.Report != nil {
		categories = cfg.Gradr.Report.Categories
	}
	if len(categories) == 0 {
		return NewExitError(1, "no categories given and no report configured")
	}

	log := newLogger(cmd, cfg)
	defer func() { _ = log.Sync() }()

	gb, err := pipeline.New(cfg, base, log).Grade()
	if err != nil {
		return err
	}

	if reportCSV {
		return sheet.WriteReport(cmd.OutOrStdout(), gb, categories)
	}
	return printReport(cmd, gb, categories)
}

// printReport renders the report as a terminal table with colored grades.
func printReport(cmd *cobra.Command, gb *gradebook.Gradebook, categories []string) error {
	rows, err := gb.Report(categories)
	if err != nil {
		return err
	}

	table := output.NewTable(gb.ReportHeader(categories)...)
	for _, r := range rows {
		cells := []string{r.Name, r.ID}
		for _, c := range r.Cells {
			cells = append(cells, c.Score.String())
			if c.Graded {
				cells = append(cells, output.Grade(c.Grade.Label()))
			}
		}
		table.AddRow(cells...)
	}

	if err := table.Render(cmd.OutOrStdout()); err != nil {
		return err
	}
	cmd.Printf("%d students\n", table.Len())
	return nil
}
