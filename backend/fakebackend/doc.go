// Package fakebackend is a deterministic in-memory backend.Backend used
// by executor tests and anyone exercising the pipeline without a real
// geometry kernel. Every feature produces one synthetic solid result
// plus a handful of tagged faces so selector-driven features (fillet,
// chamfer, hole) have something real to resolve against.
package fakebackend
