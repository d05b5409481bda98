package cachekey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueform/core/cachekey"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
	"github.com/trueform/core/scheduler"
)

func normalized(t *testing.T, part ir.IntentPart) *normalize.NormalizedPart {
	t.Helper()
	np, err := normalize.Normalize(part, nil, normalize.DefaultOptions())
	require.NoError(t, err)
	return np
}

func scheduled(t *testing.T, np *normalize.NormalizedPart) []ir.ID {
	t.Helper()
	g, err := depgraph.Build(np)
	require.NoError(t, err)
	order, err := scheduler.Schedule(g)
	require.NoError(t, err)
	return order
}

func TestCompute_StableAcrossEquivalentUnits(t *testing.T) {
	a := normalized(t, ir.IntentPart{
		ID: "p",
		Features: []ir.Feature{
			{ID: "f", Kind: ir.KindExtrude, Params: map[string]ir.TypedExpr{
				"depth": {Type: ir.TypeLength, Value: ir.Literal(10, ir.UnitMM)},
			}},
		},
	})
	b := normalized(t, ir.IntentPart{
		ID: "p",
		Features: []ir.Feature{
			{ID: "f", Kind: ir.KindExtrude, Params: map[string]ir.TypedExpr{
				"depth": {Type: ir.TypeLength, Value: ir.Literal(1, ir.UnitCM)},
			}},
		},
	})

	ka, err := cachekey.Compute(a, scheduled(t, a), ir.BuildContext{}, nil)
	require.NoError(t, err)
	kb, err := cachekey.Compute(b, scheduled(t, b), ir.BuildContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ka.Composite, kb.Composite)
}

func TestCompute_ChangesWithScalar(t *testing.T) {
	a := normalized(t, ir.IntentPart{
		Features: []ir.Feature{
			{ID: "f", Kind: ir.KindExtrude, Params: map[string]ir.TypedExpr{
				"depth": {Type: ir.TypeLength, Value: ir.Literal(10, ir.UnitMM)},
			}},
		},
	})
	b := normalized(t, ir.IntentPart{
		Features: []ir.Feature{
			{ID: "f", Kind: ir.KindExtrude, Params: map[string]ir.TypedExpr{
				"depth": {Type: ir.TypeLength, Value: ir.Literal(20, ir.UnitMM)},
			}},
		},
	})

	ka, err := cachekey.Compute(a, scheduled(t, a), ir.BuildContext{}, nil)
	require.NoError(t, err)
	kb, err := cachekey.Compute(b, scheduled(t, b), ir.BuildContext{}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, ka.Composite, kb.Composite)
}

func TestCompute_ChangesWithOverride(t *testing.T) {
	part := ir.IntentPart{
		Params: []ir.ParamDef{
			{ID: "w", Type: ir.TypeLength, Value: ir.Literal(10, ir.UnitMM)},
		},
	}
	np := normalized(t, part)
	k1, err := cachekey.Compute(np, scheduled(t, np), ir.BuildContext{}, nil)
	require.NoError(t, err)

	override := map[string]ir.Expr{"w": ir.Literal(20, ir.UnitMM)}
	npOverridden, err := normalize.Normalize(part, override, normalize.DefaultOptions())
	require.NoError(t, err)
	k2, err := cachekey.Compute(npOverridden, scheduled(t, npOverridden), ir.BuildContext{}, override)
	require.NoError(t, err)

	assert.NotEqual(t, k1.Composite, k2.Composite)
}

func TestCompute_PerFeatureHashesAreStable(t *testing.T) {
	np := normalized(t, ir.IntentPart{
		Features: []ir.Feature{{ID: "f", Kind: ir.KindDatumPlane}},
	})
	order := scheduled(t, np)
	k1, err := cachekey.Compute(np, order, ir.BuildContext{}, nil)
	require.NoError(t, err)
	k2, err := cachekey.Compute(np, order, ir.BuildContext{}, nil)
	require.NoError(t, err)
	require.Len(t, k1.Features, 1)
	assert.Equal(t, k1.Features[0].Hash, k2.Features[0].Hash)
}

func TestCompute_FeatureOrderIsPartOfTheKey(t *testing.T) {
	np := normalized(t, ir.IntentPart{
		Features: []ir.Feature{
			{ID: "a", Kind: ir.KindDatumPlane},
			{ID: "b", Kind: ir.KindDatumPlane},
		},
	})

	forward := []ir.ID{"a", "b"}
	reversed := []ir.ID{"b", "a"}

	kForward, err := cachekey.Compute(np, forward, ir.BuildContext{}, nil)
	require.NoError(t, err)
	kReversed, err := cachekey.Compute(np, reversed, ir.BuildContext{}, nil)
	require.NoError(t, err)

	assert.Equal(t, forward, kForward.FeatureOrder)
	assert.NotEqual(t, kForward.Composite, kReversed.Composite,
		"two identical feature sets built in a different schedule order must not collide")
}

func TestCompute_DeclarationOrderDoesNotAffectTheKey(t *testing.T) {
	// Two parts whose features are declared in opposite order but share
	// the same (scheduler-produced) order must hash identically: the
	// key is a function of the schedule, not of slice position in the
	// IntentPart.
	forwardDeclared := normalized(t, ir.IntentPart{
		Features: []ir.Feature{
			{ID: "a", Kind: ir.KindDatumPlane},
			{ID: "b", Kind: ir.KindDatumPlane},
		},
	})
	reverseDeclared := normalized(t, ir.IntentPart{
		Features: []ir.Feature{
			{ID: "b", Kind: ir.KindDatumPlane},
			{ID: "a", Kind: ir.KindDatumPlane},
		},
	})

	order := []ir.ID{"a", "b"}
	k1, err := cachekey.Compute(forwardDeclared, order, ir.BuildContext{}, nil)
	require.NoError(t, err)
	k2, err := cachekey.Compute(reverseDeclared, order, ir.BuildContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, k1.Composite, k2.Composite)
}
