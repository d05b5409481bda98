package executor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trueform/core/executor"
	"github.com/trueform/core/ir"
)

func sel(id, owner string) ir.KernelSelection {
	return ir.KernelSelection{
		ID:   id,
		Kind: ir.SelectionFace,
		Meta: map[string]interface{}{ir.MetaOwnerKey: owner},
	}
}

func TestMerge_NewOutputsOverwriteInPlaceAndAppend(t *testing.T) {
	a := ir.NewKernelResult()
	a.Outputs.Set("body:base", ir.KernelObject{ID: "solid:base"})
	a.Outputs.Set("body:tool", ir.KernelObject{ID: "solid:tool"})

	b := ir.NewKernelResult()
	b.Outputs.Set("body:base", ir.KernelObject{ID: "solid:base:v2"})
	b.Outputs.Set("body:extra", ir.KernelObject{ID: "solid:extra"})

	merged := executor.Merge(a, b)
	assert.Equal(t, []string{"body:base", "body:tool", "body:extra"}, merged.Outputs.Keys())
	obj, ok := merged.Outputs.Get("body:base")
	assert.True(t, ok)
	assert.Equal(t, "solid:base:v2", obj.ID)
}

func TestMerge_DropsSelectionsWhoseOwnerWasReplaced(t *testing.T) {
	a := ir.NewKernelResult()
	a.Selections = []ir.KernelSelection{
		sel("base:face:0", "base"),
		sel("base:face:1", "base"),
		sel("datum:face:0", "datum"),
	}

	b := ir.NewKernelResult()
	b.Selections = []ir.KernelSelection{sel("fillet:face:0", "base")}

	merged := executor.Merge(a, b)

	var ids []string
	for _, s := range merged.Selections {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"datum:face:0", "fillet:face:0"}, ids)
}

func TestMerge_PreservesOrderOfSurvivingThenNewSelections(t *testing.T) {
	a := ir.NewKernelResult()
	a.Selections = []ir.KernelSelection{sel("x", "one"), sel("y", "two")}

	b := ir.NewKernelResult()
	b.Selections = []ir.KernelSelection{sel("z", "three")}

	merged := executor.Merge(a, b)
	var ids []string
	for _, s := range merged.Selections {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"x", "y", "z"}, ids)
}
