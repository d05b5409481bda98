package executor

import "github.com/trueform/core/ir"

// Merge combines b, the KernelResult a single backend.Execute call just
// produced, into a, the build's accumulated state so far.
//
// Outputs: every key in b.Outputs overwrites a's entry of the same key,
// retaining a's position for an overwritten key and appending any key
// a didn't have (ir.KernelOutputs.Set already carries this rule; Merge
// just drives it key by key).
//
// Selections: b names, via each selection's ownerKey meta, which output
// keys it has replaced. Any selection surviving from a whose ownerKey is
// among those is stale — its owner no longer exists in the form the
// selection was resolved against — and is dropped. What's left of a is
// followed by b's selections, in order.
func Merge(a, b ir.KernelResult) ir.KernelResult {
	outputs := a.Outputs.Clone()
	for _, k := range b.Outputs.Keys() {
		obj, _ := b.Outputs.Get(k)
		outputs.Set(k, obj)
	}

	replacedOwners := make(map[string]bool, len(b.Selections))
	for _, sel := range b.Selections {
		if owner, ok := ownerKey(sel); ok {
			replacedOwners[owner] = true
		}
	}

	merged := make([]ir.KernelSelection, 0, len(a.Selections)+len(b.Selections))
	for _, sel := range a.Selections {
		if owner, ok := ownerKey(sel); ok && replacedOwners[owner] {
			continue
		}
		merged = append(merged, sel)
	}
	merged = append(merged, b.Selections...)

	return ir.KernelResult{Outputs: outputs, Selections: merged}
}

func ownerKey(sel ir.KernelSelection) (string, bool) {
	v, ok := sel.Meta[ir.MetaOwnerKey]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
