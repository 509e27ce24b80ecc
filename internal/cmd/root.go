// Package cmd provides the CLI commands for gradr.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esselltwo/gradr/internal/config"
	"github.com/esselltwo/gradr/internal/logger"
	"github.com/esselltwo/gradr/internal/output"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
	// Commit is set at build time via ldflags.
	Commit = "none"
	// Date is set at build time via ldflags.
	Date = "unknown"
)

var (
	cfgFile  string
	noColor  bool
	logLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gradr",
	Short: "Course grade calculator",
	Long: `gradr computes final course grades from spreadsheet exports.

A course is described by gradr.yaml: the roster, the score sheets to import,
how categories fold into totals, and the cutoffs that turn totals into
letter grades. gradr run writes a grade report and a registrar upload sheet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			output.DisableColor()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: gradr.yaml or .gradr/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// ExitError is an error that carries a process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// NewExitError creates an ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// loadConfig finds the course config, from --config or by searching
// upward from the working directory, and returns it with the directory
// its paths are relative to.
func loadConfig() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		base string
		err  error
	)

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		base = config.BaseDir(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg, base, err = config.LoadFromDir(cwd)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.Gradr.LogLevel = logLevel
	}
	return cfg, base, nil
}

// newLogger builds the command logger. Logs go to the command's error
// stream so stdout stays clean for sheets.
func newLogger(cmd *cobra.Command, cfg *config.Config) *zap.Logger {
	return logger.NewWithWriter(cfg.Logger(), cmd.ErrOrStderr())
}

// checkConfig returns an ExitError listing validation problems.
func checkConfig(cmd *cobra.Command, cfg *config.Config) error {
	errs := cfg.Validate()
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		cmd.PrintErrf("  %s %v\n", output.Color("[FAIL]", output.Red), e)
	}
	return NewExitError(2, fmt.Sprintf("invalid configuration (%d problems)", len(errs)))
}
