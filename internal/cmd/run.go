package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/esselltwo/gradr/internal/gradebook"
	"github.com/esselltwo/gradr/internal/output"
	"github.com/esselltwo/gradr/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Grade the course and write the configured sheets",
	Long: `Run every step in gradr.yaml, then write the grade report and the
registrar upload sheet if they are configured.

Examples:
    gradr run                          # Use gradr.yaml found from here upward
    gradr run --config fall/gradr.yaml # Use a specific course file`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, base, err := loadConfig()
	if err != nil {
		return err
	}
	if err := checkConfig(cmd, cfg); err != nil {
		return err
	}

	log := newLogger(cmd, cfg)
	defer func() { _ = log.Sync() }()

	runner := pipeline.New(cfg, base, log)
	gb, err := runner.Run()
	if err != nil {
		return err
	}

	width := 60
	title := cfg.Gradr.Course
	if title == "" {
		title = "Grades"
	}
	cmd.Println(output.Header(title, width))
	cmd.Printf("Students: %d\n", gb.Len())
	for _, path := range runner.Written() {
		cmd.Printf("  %s Wrote %s\n", output.Checkmark(true), path)
	}

	if up := cfg.Gradr.Upload; up != nil {
		cmd.Println()
		cmd.Println(output.SubHeader(up.Category+" distribution", width))
		if err := printDistribution(cmd, gb, up.Category); err != nil {
			return err
		}
	}
	return nil
}

type gradeCount struct {
	grade gradebook.Grade
	count int
}

// printDistribution shows how many students earned each grade, best first.
func printDistribution(cmd *cobra.Command, gb *gradebook.Gradebook, category string) error {
	counts := make(map[string]*gradeCount)
	for _, id := range gb.IDs() {
		g, err := gb.Grade(id, category)
		if err != nil {
			return err
		}
		c, ok := counts[g.Label()]
		if !ok {
			c = &gradeCount{grade: g}
			counts[g.Label()] = c
		}
		c.count++
	}

	list := make([]*gradeCount, 0, len(counts))
	for _, c := range counts {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].grade, list[j].grade
		if a.IsMissing() != b.IsMissing() {
			return b.IsMissing()
		}
		return a.Ordinal() > b.Ordinal()
	})

	total := gb.Len()
	for _, c := range list {
		label := c.grade.Label()
		if c.grade.IsMissing() {
			label = "(none)"
		}
		cmd.Printf("  %s %s %3d  %s\n",
			output.Grade(output.PadRight(label, 6)),
			output.Bar(c.count, total, 30),
			c.count,
			fmt.Sprintf("%6s", output.FormatPercent(c.count, total)))
	}
	return nil
}
