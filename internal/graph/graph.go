// Package graph tracks how course categories are derived from one another.
//
// An edge runs from a source category to the category computed from it, so
// a fold of Homework and Quiz into Section adds Homework -> Section and
// Quiz -> Section.
package graph

// Graph is a directed category lineage graph.
type Graph struct {
	order   []string
	nodes   map[string]bool
	sources map[string][]string // category -> categories it is computed from
	derived map[string][]string // category -> categories computed from it
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]bool),
		sources: make(map[string][]string),
		derived: make(map[string][]string),
	}
}

// AddNode adds a category. Adding a known category is a no-op.
func (g *Graph) AddNode(category string) {
	if g.nodes[category] {
		return
	}
	g.nodes[category] = true
	g.order = append(g.order, category)
}

// AddEdge records that derived is computed from source. Both nodes are
// added as needed and repeated edges are ignored.
func (g *Graph) AddEdge(source, derived string) {
	g.AddNode(source)
	g.AddNode(derived)
	for _, s := range g.sources[derived] {
		if s == source {
			return
		}
	}
	g.sources[derived] = append(g.sources[derived], source)
	g.derived[source] = append(g.derived[source], derived)
}

// HasNode reports whether the category is in the graph.
func (g *Graph) HasNode(category string) bool {
	return g.nodes[category]
}

// Nodes returns every category in the order it was first seen.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// NodeCount returns the number of categories.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, srcs := range g.sources {
		count += len(srcs)
	}
	return count
}

// Sources returns the categories a category is computed from directly.
func (g *Graph) Sources(category string) []string {
	return clone(g.sources[category])
}

// Derived returns the categories computed directly from a category.
func (g *Graph) Derived(category string) []string {
	return clone(g.derived[category])
}

func clone(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return append([]string(nil), ids...)
}

// TransitiveSources returns every category that feeds into this one.
func (g *Graph) TransitiveSources(category string) []string {
	return g.walk(category, g.sources)
}

// TransitiveDerived returns every category this one feeds into.
func (g *Graph) TransitiveDerived(category string) []string {
	return g.walk(category, g.derived)
}

func (g *Graph) walk(start string, edges map[string][]string) []string {
	visited := map[string]bool{start: true}
	var result []string

	var dfs func(id string)
	dfs = func(id string) {
		for _, next := range edges[id] {
			if !visited[next] {
				visited[next] = true
				result = append(result, next)
				dfs(next)
			}
		}
	}

	dfs(start)
	return result
}

// Roots returns categories not computed from anything, usually imports.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.sources[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns categories nothing else is computed from.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, id := range g.order {
		if len(g.derived[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}
