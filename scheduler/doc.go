// Package scheduler turns an acyclic depgraph.Graph into a single
// deterministic execution order: a topological sort that breaks every
// tie by lexicographically smallest feature id, so the same graph always
// schedules in the same order regardless of map iteration or input
// declaration order.
package scheduler
