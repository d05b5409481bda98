package depgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
)

func part(features ...ir.Feature) ir.IntentPart {
	return ir.IntentPart{ID: "p", Features: features}
}

func TestBuild_ExplicitDeps(t *testing.T) {
	p := part(
		ir.Feature{ID: "a", Kind: ir.KindDatumPlane},
		ir.Feature{ID: "b", Kind: ir.KindExtrude, Deps: []ir.ID{"a"}},
	)
	np, err := normalize.Normalize(p, nil, normalize.DefaultOptions())
	require.NoError(t, err)

	g, err := depgraph.Build(np)
	require.NoError(t, err)
	assert.Equal(t, []ir.ID{"b"}, g.Successors("a"))
}

func TestBuild_ProfileRefEdge(t *testing.T) {
	p := part(
		ir.Feature{ID: "sk", Kind: ir.KindSketch2D, Profiles: []ir.ProfileDecl{{Name: "rect"}}},
		ir.Feature{ID: "ex", Kind: ir.KindExtrude, ProfileRef: "rect"},
	)
	np, err := normalize.Normalize(p, nil, normalize.DefaultOptions())
	require.NoError(t, err)

	g, err := depgraph.Build(np)
	require.NoError(t, err)
	assert.Equal(t, []ir.ID{"ex"}, g.Successors("sk"))
}

func TestBuild_MissingProfileRef(t *testing.T) {
	p := part(
		ir.Feature{ID: "ex", Kind: ir.KindExtrude, ProfileRef: "ghost"},
	)
	np, err := normalize.Normalize(p, nil, normalize.DefaultOptions())
	require.NoError(t, err)

	_, err = depgraph.Build(np)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeProfileMissing, ce.Code)
}

func TestBuild_CreatedByPredicateEdge(t *testing.T) {
	p := part(
		ir.Feature{ID: "ex", Kind: ir.KindExtrude},
		ir.Feature{ID: "fil", Kind: ir.KindFillet, Selectors: map[string]ir.Selector{
			"edges": {
				Kind:       ir.SelEdge,
				Predicates: []ir.Predicate{{Kind: ir.PredCreatedBy, FeatureID: "ex"}},
			},
		}},
	)
	np, err := normalize.Normalize(p, nil, normalize.DefaultOptions())
	require.NoError(t, err)

	g, err := depgraph.Build(np)
	require.NoError(t, err)
	assert.Equal(t, []ir.ID{"fil"}, g.Successors("ex"))
}

func TestBuild_SelectorWithNoAnchorRejected(t *testing.T) {
	p := part(
		ir.Feature{ID: "fil", Kind: ir.KindFillet, Selectors: map[string]ir.Selector{
			"edges": {Kind: ir.SelEdge, Predicates: []ir.Predicate{{Kind: ir.PredPlanar}}},
		}},
	)
	np, err := normalize.Normalize(p, nil, normalize.DefaultOptions())
	require.NoError(t, err)

	_, err = depgraph.Build(np)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeSelectorAnchorMissing, ce.Code)
}

func TestBuild_CyclicDepsRejected(t *testing.T) {
	p := part(
		ir.Feature{ID: "a", Kind: ir.KindExtrude, Deps: []ir.ID{"b"}},
		ir.Feature{ID: "b", Kind: ir.KindExtrude, Deps: []ir.ID{"a"}},
	)
	np, err := normalize.Normalize(p, nil, normalize.DefaultOptions())
	require.NoError(t, err)

	_, err = depgraph.Build(np)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeGraphCycle, ce.Code)
}
