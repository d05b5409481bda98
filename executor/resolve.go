package executor

import (
	"github.com/trueform/core/ir"
	"github.com/trueform/core/selector"
)

// ResolveSelector is the resolve callback bound into every
// backend.ExecuteInput: it dispatches a single Selector against state
// (per spec.md §4.9's execute(feature, upstream, resolve) contract),
// routing selector.named through selector.ResolveNamed (outputs plus a
// by-id index of state's own selections) and face/edge/solid selectors
// through selector.ResolveOne, wrapped in a single-element slice so
// both selector kinds share one return shape.
func ResolveSelector(sel ir.Selector, state ir.KernelResult) ([]ir.KernelSelection, error) {
	if sel.Kind == ir.SelNamed {
		return selector.ResolveNamed(sel, state.Outputs, selectionsByID(state.Selections))
	}
	one, err := selector.ResolveOne(state.Selections, sel)
	if err != nil {
		return nil, err
	}
	return []ir.KernelSelection{one}, nil
}

func selectionsByID(sels []ir.KernelSelection) map[ir.ID]ir.KernelSelection {
	byID := make(map[ir.ID]ir.KernelSelection, len(sels))
	for _, s := range sels {
		byID[s.ID] = s
	}
	return byID
}
