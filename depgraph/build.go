package depgraph

import (
	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
)

// Build infers every "must run before" edge for part's normalized
// features and returns the resulting acyclic Graph.
//
// Edges come from five sources: explicit Deps, a named selector
// resolving to another feature's output, profile.ref, pattern.ref, and
// predicate.createdBy/datum references. A selector with none of these
// anchors is rejected as selector_anchor_missing; a cyclic result is
// rejected as graph_cycle.
func Build(part *normalize.NormalizedPart) (*Graph, error) {
	g := New()
	for _, f := range part.Features {
		g.AddNode(f.ID)
	}

	profileOwner := make(map[string]ir.ID)
	for _, f := range part.Features {
		for _, p := range f.Profiles {
			profileOwner[p.Name] = f.ID
		}
	}
	outputOwner := make(map[string]ir.ID)
	for _, f := range part.Features {
		if f.Result != "" {
			outputOwner[f.Result] = f.ID
		}
		for _, p := range f.Profiles {
			outputOwner["profile:"+p.Name] = f.ID
		}
	}

	for _, f := range part.Features {
		anchored := len(f.Deps) > 0

		for _, dep := range f.Deps {
			if err := g.AddEdge(dep, f.ID); err != nil {
				return nil, compileerr.Newf(compileerr.CodeDepMissing, "feature %q: %v", f.ID, err)
			}
		}
		if f.ProfileRef != "" {
			owner, ok := profileOwner[f.ProfileRef]
			if !ok {
				return nil, compileerr.Newf(compileerr.CodeProfileMissing, "feature %q references missing profile %q", f.ID, f.ProfileRef)
			}
			if err := g.AddEdge(owner, f.ID); err != nil {
				return nil, compileerr.Newf(compileerr.CodeDepMissing, "feature %q: %v", f.ID, err)
			}
			anchored = true
		}
		if f.PatternRef != "" {
			if err := g.AddEdge(f.PatternRef, f.ID); err != nil {
				return nil, compileerr.Newf(compileerr.CodeDepMissing, "feature %q: %v", f.ID, err)
			}
			anchored = true
		}
		if f.DatumRef != "" {
			if err := g.AddEdge(f.DatumRef, f.ID); err != nil {
				return nil, compileerr.Newf(compileerr.CodeDepMissing, "feature %q: %v", f.ID, err)
			}
			anchored = true
		}

		for _, sel := range f.Selectors {
			selAnchored, err := anchorSelector(g, f.ID, sel, outputOwner)
			if err != nil {
				return nil, err
			}
			anchored = anchored || selAnchored
		}

		if len(f.Selectors) > 0 && !anchored {
			return nil, compileerr.Newf(compileerr.CodeSelectorAnchorMissing,
				"feature %q has a selector with no anchoring dependency, named reference, or createdBy predicate", f.ID)
		}
	}

	if cycle, found := DetectCycle(g); found {
		return nil, compileerr.Newf(compileerr.CodeGraphCycle, "dependency cycle: %v", cycle)
	}
	return g, nil
}

// anchorSelector adds edges for sel's createdBy predicates and, when
// named, its resolved output owner. It reports whether sel carries any
// anchor at all (createdBy predicate, nested closestTo anchor, or a
// resolvable named reference).
func anchorSelector(g *Graph, ownerID ir.ID, sel ir.Selector, outputOwner map[string]ir.ID) (bool, error) {
	anchored := false
	for _, p := range sel.Predicates {
		if p.Kind == ir.PredCreatedBy {
			if err := g.AddEdge(p.FeatureID, ownerID); err != nil {
				return false, compileerr.Newf(compileerr.CodeDepMissing, "feature %q: %v", ownerID, err)
			}
			anchored = true
		}
	}
	for _, r := range sel.Ranks {
		if r.Kind == ir.RankClosestTo && r.ClosestTo != nil {
			nestedAnchored, err := anchorSelector(g, ownerID, *r.ClosestTo, outputOwner)
			if err != nil {
				return false, err
			}
			anchored = anchored || nestedAnchored
		}
	}
	if sel.Kind == ir.SelNamed && sel.Name != "" {
		if owner, ok := outputOwner[sel.Name]; ok {
			if err := g.AddEdge(owner, ownerID); err != nil {
				return false, compileerr.Newf(compileerr.CodeDepMissing, "feature %q: %v", ownerID, err)
			}
		}
		anchored = true
	}
	if sel.Kind == ir.SelNamed && len(sel.Names) > 0 {
		anchored = true
	}
	return anchored, nil
}
