// Package ir defines the typed, serializable feature-graph intermediate
// representation compiled by the rest of this module: parts, features,
// expressions, selectors, and the opaque artifacts a geometry backend
// hands back (KernelObject, KernelSelection, KernelResult).
//
// Values in this package are plain data. Once a part enters the compile
// pipeline (normalize.Normalize), its IR values are never mutated in
// place; every stage that needs a changed value produces a new one.
//
// What:
//
//   - Unit: canonical length/angle unit tokens and their mm/rad factors.
//   - Expr: a tagged-variant expression tree (literal, param, neg, binary).
//   - ParamDef: a named parameter whose value is an Expr.
//   - Selector / Predicate / RankRule: declarative topology queries.
//   - Feature: a tagged-variant build-program step.
//   - IntentPart / IntentDocument / BuildContext: the top-level documents.
//   - KernelObject / KernelSelection / KernelResult: backend-produced
//     artifacts consumed by the selector resolver and executor.
//
// Why:
//
//   - A sum-type representation lets every downstream stage (normalize,
//     depgraph, selector, executor) pattern-match exhaustively instead of
//     type-asserting against an open-ended interface hierarchy.
package ir
