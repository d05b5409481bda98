package selector

import (
	"math"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
)

// axisVectors maps each principal axis token to its unit vector, used to
// match predicate.normal against a candidate's Meta[MetaNormalVec].
var axisVectors = map[ir.AxisToken]ir.Vec3{
	ir.AxisPosX: {X: 1}, ir.AxisNegX: {X: -1},
	ir.AxisPosY: {Y: 1}, ir.AxisNegY: {Y: -1},
	ir.AxisPosZ: {Z: 1}, ir.AxisNegZ: {Z: -1},
}

const normalMatchTolerance = 1e-6

// Resolve filters universe down to the candidates matching sel's
// predicates, then narrows by sel's rank rules in declared order. It
// returns selection_zero_matches if no candidate survives predicate
// filtering, or if a rank rule would otherwise narrow to nothing.
//
// sel must be a face/edge/solid selector; use ResolveNamed for
// SelNamed selectors.
func Resolve(universe []ir.KernelSelection, sel ir.Selector) ([]ir.KernelSelection, error) {
	kind := selectionKindFor(sel.Kind)
	candidates := make([]ir.KernelSelection, 0, len(universe))
	for _, c := range universe {
		if kind != "" && c.Kind != kind {
			continue
		}
		matched, err := matchesAllPredicates(c, sel.Predicates)
		if err != nil {
			return nil, err
		}
		if matched {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, compileerr.New(compileerr.CodeSelectionZeroMatches, "selector predicates matched no candidates")
	}

	for _, rank := range sel.Ranks {
		narrowed, err := applyRank(candidates, rank)
		if err != nil {
			return nil, err
		}
		candidates = narrowed
	}
	return candidates, nil
}

// ResolveOne is Resolve, additionally requiring the result to be a
// single candidate; more than one surviving candidate is
// selector_ambiguity.
func ResolveOne(universe []ir.KernelSelection, sel ir.Selector) (ir.KernelSelection, error) {
	candidates, err := Resolve(universe, sel)
	if err != nil {
		return ir.KernelSelection{}, err
	}
	if len(candidates) > 1 {
		return ir.KernelSelection{}, compileerr.Newf(compileerr.CodeSelectorAmbiguity,
			"selector resolved to %d candidates, expected exactly one", len(candidates))
	}
	return candidates[0], nil
}

// ResolveNamed resolves a SelNamed selector. A single-key Name is looked
// up first as a selection id in byID, then as an output key in outputs;
// every id of a parsed Names list is looked up in byID. A Name found in
// neither, or any id in Names missing from byID, is
// selector_named_missing.
func ResolveNamed(sel ir.Selector, outputs *ir.KernelOutputs, byID map[ir.ID]ir.KernelSelection) ([]ir.KernelSelection, error) {
	if sel.Name != "" {
		sl, ok := byID[sel.Name]
		if ok {
			return []ir.KernelSelection{sl}, nil
		}
		if obj, ok := outputs.Get(sel.Name); ok {
			return []ir.KernelSelection{{ID: obj.ID, Kind: ir.KernelSelectionKind(obj.Kind), Meta: obj.Meta}}, nil
		}
		return nil, compileerr.Newf(compileerr.CodeSelectorNamedMissing, "named selector %q did not resolve", sel.Name)
	}
	out := make([]ir.KernelSelection, 0, len(sel.Names))
	for _, id := range sel.Names {
		sl, ok := byID[id]
		if !ok {
			return nil, compileerr.Newf(compileerr.CodeSelectorNamedMissing, "named selector id %q did not resolve", id)
		}
		out = append(out, sl)
	}
	return out, nil
}

func selectionKindFor(k ir.SelectorKind) ir.KernelSelectionKind {
	switch k {
	case ir.SelFace:
		return ir.SelectionFace
	case ir.SelEdge:
		return ir.SelectionEdge
	case ir.SelSolid:
		return ir.SelectionSolid
	default:
		return ""
	}
}

func matchesAllPredicates(c ir.KernelSelection, preds []ir.Predicate) (bool, error) {
	for _, p := range preds {
		ok, err := matchesPredicate(c, p)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// missingMetadata raises selector_missing_metadata: a predicate or rank
// required field is absent from a candidate's Meta, which spec.md §4.6
// and §7 treat as a fatal resolution error rather than a silent
// non-match.
func missingMetadata(field string) error {
	return compileerr.Newf(compileerr.CodeSelectorMissingMetadata, "metadata %s", field).WithDetails(field)
}

func matchesPredicate(c ir.KernelSelection, p ir.Predicate) (bool, error) {
	switch p.Kind {
	case ir.PredCreatedBy:
		created, ok := c.Meta[ir.MetaCreatedBy].(string)
		if !ok {
			return false, missingMetadata(ir.MetaCreatedBy)
		}
		return created == p.FeatureID, nil
	case ir.PredPlanar:
		planar, ok := c.Meta[ir.MetaPlanar].(bool)
		if !ok {
			return false, missingMetadata(ir.MetaPlanar)
		}
		return planar, nil
	case ir.PredRole:
		role, ok := c.Meta[ir.MetaRole].(string)
		if !ok {
			return false, missingMetadata(ir.MetaRole)
		}
		return role == p.Role, nil
	case ir.PredNormal:
		want, ok := axisVectors[p.Axis]
		if !ok {
			return false, compileerr.Newf(compileerr.CodeAxisInvalid, "unknown axis token %q", p.Axis)
		}
		got, ok := c.Meta[ir.MetaNormalVec].(ir.Vec3)
		if !ok {
			return false, missingMetadata(ir.MetaNormal)
		}
		return closeEnough(got, want), nil
	default:
		return false, nil
	}
}

func closeEnough(a, b ir.Vec3) bool {
	return math.Abs(a.X-b.X) < normalMatchTolerance &&
		math.Abs(a.Y-b.Y) < normalMatchTolerance &&
		math.Abs(a.Z-b.Z) < normalMatchTolerance
}

func applyRank(candidates []ir.KernelSelection, rank ir.RankRule) ([]ir.KernelSelection, error) {
	switch rank.Kind {
	case ir.RankMaxArea:
		return narrowByExtreme(candidates, ir.MetaArea, true)
	case ir.RankMaxZ:
		return narrowByExtreme(candidates, ir.MetaCenterZ, true)
	case ir.RankMinZ:
		return narrowByExtreme(candidates, ir.MetaCenterZ, false)
	case ir.RankClosestTo:
		return narrowByClosestTo(candidates, rank.ClosestTo)
	default:
		return nil, compileerr.Newf(compileerr.CodeSelectorAmbiguity, "unknown rank kind %q", rank.Kind)
	}
}

// narrowByExtreme keeps every candidate tied for the max (or min, when
// max is false) value of metaKey, preserving ties rather than picking
// one arbitrarily — a later rank rule or ResolveOne's ambiguity check
// decides what happens to a tie.
func narrowByExtreme(candidates []ir.KernelSelection, metaKey string, max bool) ([]ir.KernelSelection, error) {
	best := math.Inf(-1)
	if !max {
		best = math.Inf(1)
	}
	values := make([]float64, len(candidates))
	for i, c := range candidates {
		v, ok := c.Meta[metaKey].(float64)
		if !ok {
			return nil, missingMetadata(metaKey)
		}
		values[i] = v
		if (max && v > best) || (!max && v < best) {
			best = v
		}
	}
	out := make([]ir.KernelSelection, 0, len(candidates))
	for i, c := range candidates {
		if values[i] == best {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, compileerr.New(compileerr.CodeSelectionZeroMatches, "rank rule narrowed to no candidates")
	}
	return out, nil
}

func narrowByClosestTo(candidates []ir.KernelSelection, target *ir.Selector) ([]ir.KernelSelection, error) {
	if target == nil {
		return nil, compileerr.New(compileerr.CodeSelectorAmbiguity, "closestTo rank rule missing its target selector")
	}
	resolved, err := Resolve(candidates, *target)
	if err != nil {
		return nil, err
	}
	anchor, ok := resolved[0].Meta[ir.MetaCenter].(ir.Vec3)
	if !ok {
		return nil, missingMetadata(ir.MetaCenter)
	}

	bestDist := math.Inf(1)
	var best []ir.KernelSelection
	for _, c := range candidates {
		center, ok := c.Meta[ir.MetaCenter].(ir.Vec3)
		if !ok {
			return nil, missingMetadata(ir.MetaCenter)
		}
		d := distance(center, anchor)
		switch {
		case d < bestDist:
			bestDist = d
			best = []ir.KernelSelection{c}
		case d == bestDist:
			best = append(best, c)
		}
	}
	if len(best) == 0 {
		return nil, compileerr.New(compileerr.CodeSelectionZeroMatches, "closestTo rank rule narrowed to no candidates")
	}
	return best, nil
}

func distance(a, b ir.Vec3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
