package cmd

import (
	"github.com/spf13/cobra"

	"github.com/esselltwo/gradr/internal/gradebook"
	"github.com/esselltwo/gradr/internal/pipeline"
)

var listCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "Print a category's values as a brace list",
	Long: `Grade the course and print one category's values in roster order as
{v1, v2, ...}, with missing scores as 0. The list pastes directly into
plotting tools.

Examples:
    gradr list Total`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, base, err := loadConfig()
	if err != nil {
		return err
	}
	if err := checkConfig(cmd, cfg); err != nil {
		return err
	}

	log := newLogger(cmd, cfg)
	defer func() { _ = log.Sync() }()

	gb, err := pipeline.New(cfg, base, log).Grade()
	if err != nil {
		return err
	}

	values, err := gb.Values(args[0])
	if err != nil {
		return err
	}
	cmd.Println(gradebook.FormatList(values))
	return nil
}
