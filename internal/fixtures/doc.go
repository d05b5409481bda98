// Package fixtures generates synthetic ir.IntentPart feature topologies
// (chains, cycles, stars, wheels, complete and bipartite graphs, random
// sparse and random-regular DAGs, grids) for depgraph and scheduler
// property tests, adapted from a constructor-per-shape pattern. Every
// shape but Cycle produces an acyclic dependency graph; Cycle exists
// specifically to feed cycle-rejection tests.
package fixtures
