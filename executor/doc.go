// Package executor drives a normalized part's scheduled feature order
// against a backend.Backend: checking capabilities up front, invoking
// each feature in turn, merging its result into the accumulated
// KernelResult, and — on a rebuild with a known prior result — limiting
// re-execution to the downstream closure of changed features.
package executor
