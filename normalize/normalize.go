package normalize

import (
	"math"
	"sort"
	"strings"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/paramexpr"
)

// Options controls optional normalize behavior.
type Options struct {
	// StagedFeatures governs how features flagged in the staged-feature
	// registry are handled. Defaults to StagedAllow.
	StagedFeatures StagedPolicy
}

// DefaultOptions returns the permissive default: staged features are
// allowed silently.
func DefaultOptions() Options {
	return Options{StagedFeatures: StagedAllow}
}

// NormalizedFeature is a Feature with every scalar expression evaluated
// to a canonical number and every selector canonicalized.
type NormalizedFeature struct {
	ID     ir.ID
	Kind   ir.FeatureKind
	Deps   []ir.ID
	Tags   []string
	Result string

	Scalars   map[string]float64
	Selectors map[string]ir.Selector

	Profiles   []ir.ProfileDecl
	ProfileRef string
	PatternRef ir.ID
	DatumRef   ir.ID

	Axis   ir.AxisToken
	Vector *ir.Vec3
	Shape  interface{}

	StageKey string
}

// NormalizedPart is the fully validated, canonicalized, parameter-inlined
// form of an ir.IntentPart.
type NormalizedPart struct {
	ID           ir.ID
	Features     []NormalizedFeature
	FeaturesByID map[ir.ID]NormalizedFeature
	ParamValues  map[ir.ID]float64
	Warnings     []Warning
}

// outputRegistry maps every named reference a selector.named may resolve
// to (a feature's Result key, or a "profile:<name>" synthesized key) to
// the feature id that owns it.
type outputRegistry map[string]ir.ID

// Normalize validates part against its structural invariants,
// canonicalizes every selector, evaluates every parameter and scalar
// expression, and applies the staged-feature policy from opts.
//
// overrides replaces the Value expression of any ParamDef whose ID it
// names before evaluation; an override naming an undeclared param id is
// a param_override_missing error.
func Normalize(part ir.IntentPart, overrides map[string]ir.Expr, opts Options) (*NormalizedPart, error) {
	if err := checkFeatureIDs(part.Features); err != nil {
		return nil, err
	}
	registry, err := buildOutputRegistry(part.Features)
	if err != nil {
		return nil, err
	}
	idSet := make(map[ir.ID]bool, len(part.Features))
	byID := make(map[ir.ID]ir.Feature, len(part.Features))
	for _, f := range part.Features {
		idSet[f.ID] = true
		byID[f.ID] = f
	}

	if err := checkDeps(part.Features, idSet); err != nil {
		return nil, err
	}
	if err := checkAxes(part.Features); err != nil {
		return nil, err
	}
	if err := checkPatternRefs(part.Features, byID); err != nil {
		return nil, err
	}
	if err := checkPredicatesAndSelectors(part.Features, idSet, registry); err != nil {
		return nil, err
	}

	defs, err := applyOverrides(part.Params, overrides)
	if err != nil {
		return nil, err
	}
	ev, err := paramexpr.NewEvaluator(defs)
	if err != nil {
		return nil, err
	}
	paramValues, err := ev.Params()
	if err != nil {
		return nil, err
	}
	values := make(map[ir.ID]float64, len(paramValues))
	for id, v := range paramValues {
		values[id] = v.Num
	}

	normFeatures := make([]NormalizedFeature, 0, len(part.Features))
	for _, f := range part.Features {
		nf, err := normalizeFeature(f, ev)
		if err != nil {
			return nil, err
		}
		normFeatures = append(normFeatures, nf)
	}

	warnings, err := applyStagedPolicy(part.Features, opts.StagedFeatures)
	if err != nil {
		return nil, err
	}

	featuresByID := make(map[ir.ID]NormalizedFeature, len(normFeatures))
	for _, nf := range normFeatures {
		featuresByID[nf.ID] = nf
	}

	return &NormalizedPart{
		ID:           part.ID,
		Features:     normFeatures,
		FeaturesByID: featuresByID,
		ParamValues:  values,
		Warnings:     warnings,
	}, nil
}

func checkFeatureIDs(features []ir.Feature) error {
	seen := make(map[ir.ID]bool, len(features))
	for _, f := range features {
		if f.ID == "" {
			return compileerr.New(compileerr.CodeFeatureIDEmpty, "feature id must not be empty")
		}
		if seen[f.ID] {
			return compileerr.Newf(compileerr.CodeFeatureIDDuplicate, "duplicate feature id %q", f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

// buildOutputRegistry collects every named reference a selector.named may
// point to: a feature's declared Result key, and a "profile:<name>" key
// per profile declared on a sketch2d feature. Both Result keys and
// profile names must be unique across the part.
func buildOutputRegistry(features []ir.Feature) (outputRegistry, error) {
	reg := make(outputRegistry)
	profileNames := make(map[string]ir.ID)
	for _, f := range features {
		if f.Result != "" {
			if owner, dup := reg[f.Result]; dup {
				return nil, compileerr.Newf(compileerr.CodeOutputDuplicate,
					"output key %q declared by both %q and %q", f.Result, owner, f.ID)
			}
			reg[f.Result] = f.ID
		}
		for _, p := range f.Profiles {
			if owner, dup := profileNames[p.Name]; dup {
				return nil, compileerr.Newf(compileerr.CodeProfileDuplicate,
					"profile %q declared by both %q and %q", p.Name, owner, f.ID)
			}
			profileNames[p.Name] = f.ID
			reg["profile:"+p.Name] = f.ID
		}
	}
	return reg, nil
}

func checkDeps(features []ir.Feature, idSet map[ir.ID]bool) error {
	for _, f := range features {
		for _, dep := range f.Deps {
			if !idSet[dep] {
				return compileerr.Newf(compileerr.CodeDepMissing, "feature %q depends on missing feature %q", f.ID, dep)
			}
		}
		if f.DatumRef != "" && !idSet[f.DatumRef] {
			return compileerr.Newf(compileerr.CodeDepMissing, "feature %q references missing datum %q", f.ID, f.DatumRef)
		}
	}
	return nil
}

func checkAxes(features []ir.Feature) error {
	for _, f := range features {
		if f.Axis != "" && !ir.ValidAxisTokens[f.Axis] {
			return compileerr.Newf(compileerr.CodeAxisInvalid, "feature %q has invalid axis token %q", f.ID, f.Axis)
		}
		if f.Vector != nil && !finiteVec3(*f.Vector) {
			return compileerr.Newf(compileerr.CodeAxisInvalid, "feature %q has a non-finite vector component", f.ID)
		}
	}
	return nil
}

func finiteVec3(v ir.Vec3) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func checkPatternRefs(features []ir.Feature, byID map[ir.ID]ir.Feature) error {
	for _, f := range features {
		if f.PatternRef == "" {
			continue
		}
		target, ok := byID[f.PatternRef]
		if !ok || (target.Kind != ir.KindPatternLinear && target.Kind != ir.KindPatternCircular) {
			return compileerr.Newf(compileerr.CodePatternMissing, "feature %q references missing pattern %q", f.ID, f.PatternRef)
		}
	}
	return nil
}

// checkPredicatesAndSelectors walks every selector attached to every
// feature (including nested rank.closestTo selectors), validating
// predicate.createdBy references and canonicalizing named-selector form
// in place.
func checkPredicatesAndSelectors(features []ir.Feature, idSet map[ir.ID]bool, registry outputRegistry) error {
	for i := range features {
		f := &features[i]
		for key, sel := range f.Selectors {
			canon, err := canonicalizeSelector(f.ID, sel, idSet, registry)
			if err != nil {
				return err
			}
			f.Selectors[key] = canon
		}
	}
	return nil
}

var namedOutputPrefixes = []string{"body:", "surface:", "profile:", "datum:"}

func canonicalizeSelector(ownerID ir.ID, sel ir.Selector, idSet map[ir.ID]bool, registry outputRegistry) (ir.Selector, error) {
	for _, p := range sel.Predicates {
		if p.Kind == ir.PredCreatedBy && !idSet[p.FeatureID] {
			return sel, compileerr.Newf(compileerr.CodePredCreatedByMissing,
				"feature %q has predicate.createdBy referencing missing feature %q", ownerID, p.FeatureID)
		}
	}
	sort.SliceStable(sel.Predicates, func(i, j int) bool {
		a, b := sel.Predicates[i], sel.Predicates[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Axis != b.Axis {
			return a.Axis < b.Axis
		}
		if a.FeatureID != b.FeatureID {
			return a.FeatureID < b.FeatureID
		}
		return a.Role < b.Role
	})

	for i := range sel.Ranks {
		if sel.Ranks[i].Kind != ir.RankClosestTo || sel.Ranks[i].ClosestTo == nil {
			continue
		}
		nested, err := canonicalizeSelector(ownerID, *sel.Ranks[i].ClosestTo, idSet, registry)
		if err != nil {
			return sel, err
		}
		sel.Ranks[i].ClosestTo = &nested
	}
	sort.SliceStable(sel.Ranks, func(i, j int) bool {
		return sel.Ranks[i].Kind < sel.Ranks[j].Kind
	})

	if sel.Kind != ir.SelNamed {
		return sel, nil
	}
	return canonicalizeNamed(ownerID, sel, registry)
}

func canonicalizeNamed(ownerID ir.ID, sel ir.Selector, registry outputRegistry) (ir.Selector, error) {
	name := strings.TrimSpace(sel.Name)
	if strings.Contains(name, ",") {
		parts := strings.Split(name, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				names = append(names, p)
			}
		}
		sort.Strings(names)
		sel.Name = ""
		sel.Names = names
		return sel, nil
	}

	looksLikeOutputRef := false
	for _, prefix := range namedOutputPrefixes {
		if strings.HasPrefix(name, prefix) {
			looksLikeOutputRef = true
			break
		}
	}
	_, declared := registry[name]
	if looksLikeOutputRef || declared {
		if !declared {
			return sel, compileerr.Newf(compileerr.CodeSelectorNamedMissing,
				"feature %q's named selector references undeclared output %q", ownerID, name)
		}
	}
	sel.Name = name
	sel.Names = nil
	return sel, nil
}

func applyOverrides(params []ir.ParamDef, overrides map[string]ir.Expr) ([]ir.ParamDef, error) {
	if len(overrides) == 0 {
		return params, nil
	}
	byID := make(map[ir.ID]int, len(params))
	out := make([]ir.ParamDef, len(params))
	copy(out, params)
	for i, p := range out {
		byID[p.ID] = i
	}
	for id, expr := range overrides {
		i, ok := byID[id]
		if !ok {
			return nil, compileerr.Newf(compileerr.CodeParamOverrideMissing, "override targets undeclared param %q", id)
		}
		out[i].Value = expr
	}
	return out, nil
}

func normalizeFeature(f ir.Feature, ev *paramexpr.Evaluator) (NormalizedFeature, error) {
	scalars := make(map[string]float64, len(f.Params))
	for key, te := range f.Params {
		v, err := ev.Eval(te.Value, te.Type)
		if err != nil {
			return NormalizedFeature{}, err
		}
		scalars[key] = v.Num
	}
	return NormalizedFeature{
		ID:         f.ID,
		Kind:       f.Kind,
		Deps:       f.Deps,
		Tags:       f.Tags,
		Result:     f.Result,
		Scalars:    scalars,
		Selectors:  f.Selectors,
		Profiles:   f.Profiles,
		ProfileRef: f.ProfileRef,
		PatternRef: f.PatternRef,
		DatumRef:   f.DatumRef,
		Axis:       f.Axis,
		Vector:     f.Vector,
		Shape:      f.Shape,
		StageKey:   f.StageKey,
	}, nil
}
