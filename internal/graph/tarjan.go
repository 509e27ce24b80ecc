package graph

// tarjanState holds the state of Tarjan's strongly connected components
// search.
type tarjanState struct {
	graph   *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// FindCycles returns the strongly connected components with more than one
// category, plus any category computed from itself.
func (g *Graph) FindCycles() [][]string {
	state := &tarjanState{
		graph:   g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, id := range g.order {
		if _, visited := state.indices[id]; !visited {
			state.strongConnect(id)
		}
	}

	var cycles [][]string
	for _, scc := range state.sccs {
		if len(scc) > 1 || g.selfLoop(scc[0]) {
			cycles = append(cycles, scc)
		}
	}
	return cycles
}

func (g *Graph) selfLoop(id string) bool {
	for _, s := range g.sources[id] {
		if s == id {
			return true
		}
	}
	return false
}

func (s *tarjanState) strongConnect(v string) {
	s.indices[v] = s.index
	s.lowlink[v] = s.index
	s.index++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, w := range s.graph.derived[v] {
		if _, visited := s.indices[w]; !visited {
			s.strongConnect(w)
			s.lowlink[v] = min(s.lowlink[v], s.lowlink[w])
		} else if s.onStack[w] {
			s.lowlink[v] = min(s.lowlink[v], s.indices[w])
		}
	}

	if s.lowlink[v] == s.indices[v] {
		var scc []string
		for {
			w := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		s.sccs = append(s.sccs, scc)
	}
}

// HasCycles reports whether any category feeds back into itself.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// FindCyclePath returns a path through the cycle members that follows the
// direction of derivation and ends where it starts.
func (g *Graph) FindCyclePath(members []string) []string {
	if len(members) == 0 {
		return nil
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	// Start from the earliest member so the path is stable.
	start := members[0]
	for _, id := range g.order {
		if memberSet[id] {
			start = id
			break
		}
	}

	visited := make(map[string]bool)
	var path []string

	var dfs func(current string) bool
	dfs = func(current string) bool {
		path = append(path, current)
		visited[current] = true

		for _, next := range g.derived[current] {
			if !memberSet[next] {
				continue
			}
			if next == start {
				path = append(path, start)
				return true
			}
			if !visited[next] && dfs(next) {
				return true
			}
		}

		path = path[:len(path)-1]
		return false
	}

	if dfs(start) {
		return path
	}
	return members
}
