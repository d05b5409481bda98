// Package selector resolves an ir.Selector against the pool of
// KernelSelection candidates a backend has exposed so far: predicates
// narrow candidates by kind and metadata, rank rules narrow a
// multi-candidate match down to the closest single one, and named
// selectors resolve directly against declared outputs or an explicit
// selection-id list instead of predicate/rank matching.
package selector
