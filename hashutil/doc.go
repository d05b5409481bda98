// Package hashutil implements a stable hash over JSON-like values: a
// canonical textual serialization (object keys sorted lexicographically,
// arrays left in order, numbers/strings/bools/null per JSON literal
// form) and a fixed-radix digest of that string.
//
// Two values hash equally iff their canonical strings are equal; the
// digest algorithm itself (xxhash) is an implementation detail, not part
// of the contract — only digest stability across processes matters, and
// xxhash is deterministic and allocation-light for that purpose.
package hashutil
