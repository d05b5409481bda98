package depgraph

import "github.com/trueform/core/ir"

const (
	white = 0
	gray  = 1
	black = 2
)

// DetectCycle walks g with three-color DFS and returns the first cycle
// it finds, as the sequence of ids from the back-edge's target to its
// source. If g is acyclic, it returns (nil, false).
func DetectCycle(g *Graph) ([]ir.ID, bool) {
	state := make(map[ir.ID]int, len(g.nodes))
	var path []ir.ID
	var cycle []ir.ID

	var visit func(id ir.ID) bool
	visit = func(id ir.ID) bool {
		state[id] = gray
		path = append(path, id)

		for _, next := range g.Successors(id) {
			switch state[next] {
			case white:
				if visit(next) {
					return true
				}
			case gray:
				cycle = cyclePath(path, next)
				return true
			case black:
				// already fully explored, no cycle through it
			}
		}

		path = path[:len(path)-1]
		state[id] = black
		return false
	}

	for _, id := range g.Nodes() {
		if state[id] == white {
			if visit(id) {
				return cycle, true
			}
		}
	}
	return nil, false
}

// cyclePath extracts the cyclic suffix of path starting at target.
func cyclePath(path []ir.ID, target ir.ID) []ir.ID {
	for i, id := range path {
		if id == target {
			out := make([]ir.ID, len(path)-i)
			copy(out, path[i:])
			return out
		}
	}
	return nil
}
