// Package depgraph builds the feature dependency graph: nodes are
// feature ids, and a directed edge A→B means "A must execute before B".
// Edges come from five sources — explicit Feature.Deps, named-output
// selectors, profile.ref, pattern references, and
// predicate.createdBy/datum references — and the resulting graph must
// be acyclic.
//
// Unlike the thread-safe, long-lived Graph this package's construction
// is modeled on, a dependency graph is built once per build and never
// mutated concurrently: the executor that walks it runs single-threaded
// and cooperative, so this Graph carries no locking.
package depgraph
