package cachekey

import (
	"strings"

	"github.com/trueform/core/hashutil"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
)

// FeatureKey is a single feature's contribution to a BuildKey.
type FeatureKey struct {
	FeatureID ir.ID
	Hash      string
}

// BuildKey is a build's content-addressed cache key: Composite changes
// iff the scheduled feature order, any feature's own hash, the
// evaluated parameter set, the build context, or the applied overrides
// change (spec.md §4.8).
type BuildKey struct {
	PartID        ir.ID
	FeatureOrder  []ir.ID
	Features      []FeatureKey
	ParamsHash    string
	ContextHash   string
	OverridesHash string
	Composite     string
}

// featureHashPayload is the subset of a NormalizedFeature that
// determines its contribution to the cache key. Scalars are already
// fully evaluated numbers, so two features with differently-written but
// equivalent expressions (e.g. "10mm" vs "1cm") hash identically.
type featureHashPayload struct {
	Kind       ir.FeatureKind
	Deps       []ir.ID
	Tags       []string
	Result     string
	Scalars    map[string]float64
	Selectors  map[string]ir.Selector
	Profiles   []ir.ProfileDecl
	ProfileRef string
	PatternRef ir.ID
	DatumRef   ir.ID
	Axis       ir.AxisToken
	Vector     *ir.Vec3
	Shape      interface{}
}

// Compute derives part's BuildKey under buildCtx and overrides. order is
// the scheduler's deterministic topological order (spec.md §4.8's
// featureOrder); features are hashed in that order rather than part's
// raw declaration order, and order itself becomes part of the key, so
// two parts with identical features but a different schedule (or vice
// versa, the same schedule from differently-declared features) are
// told apart.
func Compute(part *normalize.NormalizedPart, order []ir.ID, buildCtx ir.BuildContext, overrides map[string]ir.Expr) (*BuildKey, error) {
	features := make([]FeatureKey, 0, len(order))
	hashes := make([]string, 0, len(order)+4)
	for _, id := range order {
		f, ok := part.FeaturesByID[id]
		if !ok {
			continue
		}
		h, err := hashutil.Hash(featureHashPayload{
			Kind:       f.Kind,
			Deps:       f.Deps,
			Tags:       f.Tags,
			Result:     f.Result,
			Scalars:    f.Scalars,
			Selectors:  f.Selectors,
			Profiles:   f.Profiles,
			ProfileRef: f.ProfileRef,
			PatternRef: f.PatternRef,
			DatumRef:   f.DatumRef,
			Axis:       f.Axis,
			Vector:     f.Vector,
			Shape:      f.Shape,
		})
		if err != nil {
			return nil, err
		}
		features = append(features, FeatureKey{FeatureID: f.ID, Hash: h})
		hashes = append(hashes, h)
	}

	orderHash, err := hashutil.Hash(order)
	if err != nil {
		return nil, err
	}
	paramsHash, err := hashutil.Hash(part.ParamValues)
	if err != nil {
		return nil, err
	}
	contextHash, err := hashutil.Hash(buildCtx)
	if err != nil {
		return nil, err
	}
	overridesHash, err := hashutil.Hash(overrides)
	if err != nil {
		return nil, err
	}

	composite := hashutil.HashString(strings.Join(append(hashes, orderHash, paramsHash, contextHash, overridesHash), "|"))

	return &BuildKey{
		PartID:        part.ID,
		FeatureOrder:  order,
		Features:      features,
		ParamsHash:    paramsHash,
		ContextHash:   contextHash,
		OverridesHash: overridesHash,
		Composite:     composite,
	}, nil
}
