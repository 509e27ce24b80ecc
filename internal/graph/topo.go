package graph

// TopologicalSort returns the categories with every source before the
// categories computed from it. Returns nil if the graph contains a cycle.
func (g *Graph) TopologicalSort() []string {
	result := g.kahn()
	if len(result) != len(g.order) {
		return nil
	}
	return result
}

// Layers groups categories by their longest distance from a root. Layer 0
// holds the roots. Categories on or downstream of a cycle are left out.
func (g *Graph) Layers() [][]string {
	depth := make(map[string]int)
	maxDepth := -1
	for _, id := range g.kahn() {
		d := 0
		for _, src := range g.sources[id] {
			if sd, ok := depth[src]; ok && sd+1 > d {
				d = sd + 1
			}
		}
		depth[id] = d
		if d > maxDepth {
			maxDepth = d
		}
	}

	layers := make([][]string, maxDepth+1)
	for _, id := range g.order {
		if d, ok := depth[id]; ok {
			layers[d] = append(layers[d], id)
		}
	}
	return layers
}

// kahn runs Kahn's algorithm and returns every category it can order.
// Members of a cycle, and anything computed from them, never reach zero
// in-degree and are missing from the result.
func (g *Graph) kahn() []string {
	inDegree := make(map[string]int, len(g.order))
	var queue []string
	for _, id := range g.order {
		inDegree[id] = len(g.sources[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, next := range g.derived[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return result
}
