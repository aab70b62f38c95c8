// Package graph provides cycle detection over a task dependency edge
// list. Edges are checked in process rather than in the database so
// the algorithm stays auditable regardless of the storage engine.
package graph

// Edge is one directed dependency: Task depends on DependsOn.
type Edge struct {
	Task      string
	DependsOn string
}

// WouldCreateCycle reports whether adding "taskID depends on
// dependsOnTaskID" to the given edge set would create a directed
// cycle. That is the case exactly when taskID is already reachable
// from dependsOnTaskID by following existing dependency edges: the
// prerequisite would then transitively depend on its own dependent.
//
// A self-reference counts as a cycle. The search is a depth-first
// reachability walk, O(V+E) over the edge set, and never mutates it.
func WouldCreateCycle(edges []Edge, taskID, dependsOnTaskID string) bool {
	if taskID == dependsOnTaskID {
		return true
	}

	// Adjacency: node -> its prerequisites.
	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		adj[e.Task] = append(adj[e.Task], e.DependsOn)
	}

	visited := make(map[string]bool, len(adj))
	stack := []string{dependsOnTaskID}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == taskID {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, adj[node]...)
	}

	return false
}

// HasCycle reports whether the edge set already contains a directed
// cycle. Used by tests and integrity checks; a store that only admits
// edges through WouldCreateCycle never produces one.
func HasCycle(edges []Edge) bool {
	adj := make(map[string][]string, len(edges))
	nodes := make(map[string]bool, len(edges))
	for _, e := range edges {
		adj[e.Task] = append(adj[e.Task], e.DependsOn)
		nodes[e.Task] = true
		nodes[e.DependsOn] = true
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(nodes))

	var visit func(n string) bool
	visit = func(n string) bool {
		state[n] = inStack
		for _, next := range adj[n] {
			switch state[next] {
			case inStack:
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		state[n] = done
		return false
	}

	for n := range nodes {
		if state[n] == unvisited && visit(n) {
			return true
		}
	}
	return false
}
