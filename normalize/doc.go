// Package normalize is the single entry point that validates an
// ir.IntentPart against its structural invariants, canonicalizes every
// selector-typed field, evaluates parameters and inlines every scalar
// expression into a pure canonical number, and applies the
// staged-feature policy.
//
// Normalize never talks to a backend; it is pure transformation over IR
// values plus the parameter evaluator in package paramexpr.
package normalize
