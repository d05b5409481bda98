// Package paramexpr evaluates ir.Expr trees to canonical scalars under
// a fixed unit algebra: literals convert to millimeters or radians by
// unit, params resolve through a cycle-checked parameter graph, and
// binary operators enforce type compatibility (+/- on same-type operands
// or with a count operand taking its peer's type, at-least-one-count ×,
// count-divisor ÷).
package paramexpr
