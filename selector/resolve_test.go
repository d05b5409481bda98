package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/selector"
)

func face(id string, meta map[string]interface{}) ir.KernelSelection {
	return ir.KernelSelection{ID: id, Kind: ir.SelectionFace, Meta: meta}
}

func TestResolve_FiltersByCreatedBy(t *testing.T) {
	universe := []ir.KernelSelection{
		face("f1", map[string]interface{}{ir.MetaCreatedBy: "ex1"}),
		face("f2", map[string]interface{}{ir.MetaCreatedBy: "ex2"}),
	}
	sel := ir.Selector{Kind: ir.SelFace, Predicates: []ir.Predicate{{Kind: ir.PredCreatedBy, FeatureID: "ex2"}}}

	got, err := selector.Resolve(universe, sel)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f2", got[0].ID)
}

func TestResolve_ZeroMatches(t *testing.T) {
	universe := []ir.KernelSelection{face("f1", map[string]interface{}{ir.MetaCreatedBy: "ex1"})}
	sel := ir.Selector{Kind: ir.SelFace, Predicates: []ir.Predicate{{Kind: ir.PredCreatedBy, FeatureID: "ghost"}}}

	_, err := selector.Resolve(universe, sel)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeSelectionZeroMatches, ce.Code)
}

func TestResolve_MaxAreaNarrowsToOne(t *testing.T) {
	universe := []ir.KernelSelection{
		face("small", map[string]interface{}{ir.MetaCreatedBy: "ex", ir.MetaArea: 1.0}),
		face("big", map[string]interface{}{ir.MetaCreatedBy: "ex", ir.MetaArea: 9.0}),
	}
	sel := ir.Selector{
		Kind:       ir.SelFace,
		Predicates: []ir.Predicate{{Kind: ir.PredCreatedBy, FeatureID: "ex"}},
		Ranks:      []ir.RankRule{{Kind: ir.RankMaxArea}},
	}

	got, err := selector.ResolveOne(universe, sel)
	require.NoError(t, err)
	assert.Equal(t, "big", got.ID)
}

func TestResolveOne_AmbiguousWhenTied(t *testing.T) {
	universe := []ir.KernelSelection{
		face("a", map[string]interface{}{ir.MetaArea: 5.0}),
		face("b", map[string]interface{}{ir.MetaArea: 5.0}),
	}
	sel := ir.Selector{Kind: ir.SelFace, Ranks: []ir.RankRule{{Kind: ir.RankMaxArea}}}

	_, err := selector.ResolveOne(universe, sel)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeSelectorAmbiguity, ce.Code)
}

func TestResolve_MinZAndMaxZ(t *testing.T) {
	universe := []ir.KernelSelection{
		face("low", map[string]interface{}{ir.MetaCenterZ: -5.0}),
		face("high", map[string]interface{}{ir.MetaCenterZ: 5.0}),
	}
	low, err := selector.ResolveOne(universe, ir.Selector{Kind: ir.SelFace, Ranks: []ir.RankRule{{Kind: ir.RankMinZ}}})
	require.NoError(t, err)
	assert.Equal(t, "low", low.ID)

	high, err := selector.ResolveOne(universe, ir.Selector{Kind: ir.SelFace, Ranks: []ir.RankRule{{Kind: ir.RankMaxZ}}})
	require.NoError(t, err)
	assert.Equal(t, "high", high.ID)
}

func TestResolve_NormalPredicateMatchesAxis(t *testing.T) {
	universe := []ir.KernelSelection{
		face("top", map[string]interface{}{ir.MetaNormalVec: ir.Vec3{Z: 1}}),
		face("side", map[string]interface{}{ir.MetaNormalVec: ir.Vec3{X: 1}}),
	}
	sel := ir.Selector{Kind: ir.SelFace, Predicates: []ir.Predicate{{Kind: ir.PredNormal, Axis: ir.AxisPosZ}}}

	got, err := selector.ResolveOne(universe, sel)
	require.NoError(t, err)
	assert.Equal(t, "top", got.ID)
}

func TestResolve_MissingPlanarMetadataIsFatal(t *testing.T) {
	universe := []ir.KernelSelection{face("f1", map[string]interface{}{ir.MetaCreatedBy: "ex1"})}
	sel := ir.Selector{Kind: ir.SelFace, Predicates: []ir.Predicate{
		{Kind: ir.PredCreatedBy, FeatureID: "ex1"},
		{Kind: ir.PredPlanar},
	}}

	_, err := selector.Resolve(universe, sel)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeSelectorMissingMetadata, ce.Code)
}

func TestResolve_MissingAreaMetadataForRankIsFatal(t *testing.T) {
	universe := []ir.KernelSelection{
		face("a", map[string]interface{}{}),
		face("b", map[string]interface{}{ir.MetaArea: 9.0}),
	}
	sel := ir.Selector{Kind: ir.SelFace, Ranks: []ir.RankRule{{Kind: ir.RankMaxArea}}}

	_, err := selector.Resolve(universe, sel)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeSelectorMissingMetadata, ce.Code)
}

func TestResolveNamed_SingleKey(t *testing.T) {
	outputs := ir.NewKernelOutputs()
	outputs.Set("body:main", ir.KernelObject{ID: "obj1", Kind: ir.ObjSolid})

	got, err := selector.ResolveNamed(ir.Selector{Kind: ir.SelNamed, Name: "body:main"}, outputs, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "obj1", got[0].ID)
}

func TestResolveNamed_IDList(t *testing.T) {
	byID := map[ir.ID]ir.KernelSelection{
		"id1": {ID: "id1", Kind: ir.SelectionFace},
		"id2": {ID: "id2", Kind: ir.SelectionFace},
	}
	got, err := selector.ResolveNamed(ir.Selector{Kind: ir.SelNamed, Names: []string{"id1", "id2"}}, ir.NewKernelOutputs(), byID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestResolveNamed_MissingRejected(t *testing.T) {
	_, err := selector.ResolveNamed(ir.Selector{Kind: ir.SelNamed, Name: "body:ghost"}, ir.NewKernelOutputs(), nil)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeSelectorNamedMissing, ce.Code)
}
