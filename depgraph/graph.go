package depgraph

import (
	"errors"
	"sort"

	"github.com/trueform/core/ir"
)

// ErrSelfReference indicates a node was given an edge to itself, e.g. a
// feature depending on its own output or a rank.closestTo selector
// nested against itself.
var ErrSelfReference = errors.New("depgraph: self-referencing edge")

// Graph is a directed graph of feature ids and the "must run before"
// edges inferred between them.
type Graph struct {
	nodes map[ir.ID]struct{}
	out   map[ir.ID]map[ir.ID]struct{} // from -> {to}
	in    map[ir.ID]map[ir.ID]struct{} // to -> {from}
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[ir.ID]struct{}),
		out:   make(map[ir.ID]map[ir.ID]struct{}),
		in:    make(map[ir.ID]map[ir.ID]struct{}),
	}
}

// AddNode registers id if not already present. Idempotent.
func (g *Graph) AddNode(id ir.ID) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.out[id] = make(map[ir.ID]struct{})
	g.in[id] = make(map[ir.ID]struct{})
}

// HasNode reports whether id has been registered.
func (g *Graph) HasNode(id ir.ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge records that from must execute before to, registering either
// endpoint via AddNode if it is not already present. Adding the same
// edge twice is a no-op; from == to returns ErrSelfReference.
func (g *Graph) AddEdge(from, to ir.ID) error {
	if from == to {
		return ErrSelfReference
	}
	g.AddNode(from)
	g.AddNode(to)
	g.out[from][to] = struct{}{}
	g.in[to][from] = struct{}{}
	return nil
}

// Nodes returns every registered node id in lexicographic order.
func (g *Graph) Nodes() []ir.ID {
	out := make([]ir.ID, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Successors returns the ids that id has an edge to, in lexicographic
// order.
func (g *Graph) Successors(id ir.ID) []ir.ID {
	return sortedKeys(g.out[id])
}

// Predecessors returns the ids that have an edge to id, in
// lexicographic order.
func (g *Graph) Predecessors(id ir.ID) []ir.ID {
	return sortedKeys(g.in[id])
}

// InDegree returns the number of edges terminating at id.
func (g *Graph) InDegree(id ir.ID) int {
	return len(g.in[id])
}

// EdgeCount returns the total number of distinct edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, tos := range g.out {
		n += len(tos)
	}
	return n
}

func sortedKeys(m map[ir.ID]struct{}) []ir.ID {
	out := make([]ir.ID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
