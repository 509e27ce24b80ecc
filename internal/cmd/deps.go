package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/esselltwo/gradr/internal/gradebook"
	"github.com/esselltwo/gradr/internal/graph"
	"github.com/esselltwo/gradr/internal/output"
)

var (
	depsReverse bool
	depsAll     bool
)

var depsCmd = &cobra.Command{
	Use:   "deps [category]",
	Short: "Show how categories are derived",
	Long: `Display the lineage of the categories the course steps compute.

Without arguments, shows an overview of the lineage: input categories,
final categories, cycles, and the order categories are computed in.
With a category, shows the categories it is computed from.

Flags:
  --reverse   Show the categories computed from it instead
  --all       Follow the lineage transitively (not just direct links)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().BoolVarP(&depsReverse, "reverse", "r", false, "show categories computed from this one")
	depsCmd.Flags().BoolVarP(&depsAll, "all", "a", false, "show transitive lineage")

	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := checkConfig(cmd, cfg); err != nil {
		return err
	}

	g, err := graph.FromConfig(cfg)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return showCategoryDeps(cmd, args[0], g)
	}
	return showDepsOverview(cmd, g)
}

func showCategoryDeps(cmd *cobra.Command, category string, g *graph.Graph) error {
	if !g.HasNode(category) {
		return fmt.Errorf("%w: %s is not used by any step", gradebook.ErrMissingCategory, category)
	}

	width := 60
	cmd.Println(output.Header(fmt.Sprintf("Lineage: %s", category), width))
	cmd.Println()

	var deps []string
	var label string
	switch {
	case depsReverse && depsAll:
		deps, label = g.TransitiveDerived(category), "All Derived Categories (transitive)"
	case depsReverse:
		deps, label = g.Derived(category), "Computed From It"
	case depsAll:
		deps, label = g.TransitiveSources(category), "All Sources (transitive)"
	default:
		deps, label = g.Sources(category), "Computed From"
	}

	cmd.Println(output.SubHeader(label, width))
	if len(deps) == 0 {
		cmd.Println("  (none)")
		return nil
	}
	for _, dep := range deps {
		cmd.Printf("  %s\n", dep)
	}
	return nil
}

func showDepsOverview(cmd *cobra.Command, g *graph.Graph) error {
	width := 60
	cmd.Println(output.Header("Category Lineage", width))
	cmd.Println()

	cmd.Printf("Categories: %d\n", g.NodeCount())
	cmd.Printf("Links: %d\n", g.EdgeCount())
	cmd.Printf("Inputs: %s\n", joinOrNone(g.Roots()))
	cmd.Printf("Final: %s\n", joinOrNone(g.Leaves()))
	cmd.Println()

	cycles := g.FindCycles()
	if len(cycles) > 0 {
		cmd.Printf("%s Found %d cycle(s):\n", output.Color("!", output.Red), len(cycles))
		for _, cycle := range cycles {
			cmd.Printf("   %s\n", strings.Join(g.FindCyclePath(cycle), " -> "))
		}
	} else {
		cmd.Printf("%s No cycles detected\n", output.Checkmark(true))
	}
	cmd.Println()

	layers := g.Layers()
	if len(layers) > 1 {
		cmd.Println(output.SubHeader("Computation Order", width))
		for i, layer := range layers {
			cmd.Printf("  %d. %s\n", i, strings.Join(layer, ", "))
		}
	}
	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
