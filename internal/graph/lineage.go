package graph

import (
	"fmt"

	"github.com/esselltwo/gradr/internal/config"
	"github.com/esselltwo/gradr/internal/policy"
)

// FromConfig builds the lineage of the categories a course's steps compute.
// Folds and composes add edges. Graded categories are added as nodes.
// Imported categories are only known once their sheets are read, so they
// appear when a later step uses them.
func FromConfig(cfg *config.Config) (*Graph, error) {
	g := New()
	for i, step := range cfg.Gradr.Steps {
		switch {
		case step.Fold != nil:
			for _, src := range step.Fold.Sources {
				g.AddEdge(src, step.Fold.Into)
			}
		case step.Compose != nil:
			refs, err := policy.References(step.Compose.Formula)
			if err != nil {
				return nil, fmt.Errorf("step %d (compose): %w", i+1, err)
			}
			g.AddNode(step.Compose.Category)
			for _, ref := range refs {
				g.AddEdge(ref, step.Compose.Category)
			}
		case step.Grade != nil:
			g.AddNode(step.Grade.Category)
		}
	}
	return g, nil
}
