package fakebackend

import (
	"context"
	"fmt"
	"sort"

	"github.com/trueform/core/backend"
	"github.com/trueform/core/ir"
)

// Backend is a deterministic, in-memory backend.Backend: every feature
// produces one synthetic solid and six axis-aligned faces tagged with
// that feature's id, so selector-driven downstream features have
// something concrete to resolve against.
type Backend struct {
	Kernel ir.KernelInfo
}

// New returns a Backend identifying itself with name/version.
func New(name, version string) *Backend {
	return &Backend{Kernel: ir.KernelInfo{Name: name, Version: version}}
}

var _ backend.Backend = (*Backend)(nil)

var faceNormals = []ir.Vec3{
	{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
}

// Capabilities reports support for every feature kind: a fake backend
// never turns work away, so executor tests can focus on the pipeline
// itself rather than capability gating.
func (b *Backend) Capabilities(ctx context.Context) (backend.Capabilities, error) {
	supported := map[ir.FeatureKind]bool{}
	for _, k := range []ir.FeatureKind{
		ir.KindDatumPlane, ir.KindDatumAxis, ir.KindDatumFrame, ir.KindSketch2D,
		ir.KindExtrude, ir.KindRevolve, ir.KindLoft, ir.KindSweep, ir.KindPipe,
		ir.KindPipeSweep, ir.KindHexTubeSweep, ir.KindHole, ir.KindFillet,
		ir.KindFilletVariable, ir.KindChamfer, ir.KindChamferVariable, ir.KindThicken,
		ir.KindShell, ir.KindSurface, ir.KindPlane, ir.KindMirror, ir.KindMoveBody,
		ir.KindMoveFace, ir.KindDeleteFace, ir.KindReplaceFace, ir.KindDraft,
		ir.KindThread, ir.KindSplitBody, ir.KindSplitFace, ir.KindPatternLinear,
		ir.KindPatternCircular, ir.KindBoolean,
	} {
		supported[k] = true
	}
	return backend.Capabilities{Kernel: b.Kernel, Supported: supported}, nil
}

// Execute resolves every selector in.Feature carries against in.Prior
// via in.Resolve (propagating any resolution error — ambiguity, zero
// matches, missing metadata — unchanged, per spec.md §7's "fatal to the
// build"), then produces one solid and six faces. Owning: when
// resolution surfaces a candidate with an ownerKey (i.e. the feature
// targets topology an earlier feature owns, as fillet/chamfer/hole/
// draft/move/delete/replace-face do), the new output and its faces
// adopt that ownerKey so executor.Merge retires the stale selections
// the replaced owner produced; a feature with no selectors (datum,
// sketch2d, extrude, ...) owns itself. Execute returns only this
// feature's own contribution — executor.Merge folds it into the
// accumulated build state — and never mutates in.Prior.
func (b *Backend) Execute(ctx context.Context, in backend.ExecuteInput) (ir.KernelResult, error) {
	ownerKey := string(in.Feature.ID)
	for _, selKey := range sortedKeys(in.Feature.Selectors) {
		resolved, err := in.Resolve(in.Feature.Selectors[selKey], in.Prior)
		if err != nil {
			return ir.KernelResult{}, err
		}
		if len(resolved) > 0 {
			if owner, ok := resolved[0].Meta[ir.MetaOwnerKey].(string); ok {
				ownerKey = owner
			}
		}
	}

	out := ir.NewKernelResult()

	solidID := fmt.Sprintf("solid:%s", in.Feature.ID)
	solid := ir.KernelObject{
		ID:   solidID,
		Kind: ir.ObjSolid,
		Meta: map[string]interface{}{ir.MetaCreatedBy: in.Feature.ID, ir.MetaOwnerKey: ownerKey},
	}
	key := in.Feature.Result
	if key == "" {
		key = "body:" + in.Feature.ID
	}
	out.Outputs.Set(key, solid)

	for i, n := range faceNormals {
		area := 1.0
		if v, ok := in.Feature.Scalars["depth"]; ok {
			area = v
		}
		sel := ir.KernelSelection{
			ID:   fmt.Sprintf("%s:face:%d", in.Feature.ID, i),
			Kind: ir.SelectionFace,
			Meta: map[string]interface{}{
				ir.MetaCreatedBy: in.Feature.ID,
				ir.MetaPlanar:    true,
				ir.MetaNormalVec: n,
				ir.MetaArea:      area,
				ir.MetaCenterZ:   n.Z,
				ir.MetaCenter:    n,
				ir.MetaOwnerKey:  ownerKey,
			},
		}
		out.Selections = append(out.Selections, sel)
	}
	return out, nil
}

// sortedKeys returns m's keys in lexicographic order: map iteration
// order is not deterministic, and feature execution must be (spec.md
// §5), so every selector a feature carries is resolved in a fixed order.
func sortedKeys(m map[string]ir.Selector) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Mesh returns a single degenerate triangle; enough for callers testing
// the export/mesh plumbing without validating real geometry.
func (b *Backend) Mesh(ctx context.Context, req backend.MeshRequest) (backend.Mesh, error) {
	return backend.Mesh{
		Vertices: []ir.Vec3{{}, {X: 1}, {Y: 1}},
		Indices:  [][3]int{{0, 1, 2}},
	}, nil
}

// ExportStep returns a placeholder payload naming every object id, good
// enough to exercise container packaging without a real kernel.
func (b *Backend) ExportStep(ctx context.Context, objects []ir.KernelObject) ([]byte, error) {
	return exportPlaceholder("STEP", objects), nil
}

// ExportStl returns a placeholder payload, mirroring ExportStep.
func (b *Backend) ExportStl(ctx context.Context, objects []ir.KernelObject) ([]byte, error) {
	return exportPlaceholder("STL", objects), nil
}

// CheckValid always reports valid: the fake backend cannot produce
// invalid geometry because it never computes any.
func (b *Backend) CheckValid(ctx context.Context, objects []ir.KernelObject) (backend.ValidityReport, error) {
	return backend.ValidityReport{Valid: true}, nil
}

func exportPlaceholder(format string, objects []ir.KernelObject) []byte {
	out := fmt.Sprintf("fakebackend-%s\n", format)
	for _, o := range objects {
		out += fmt.Sprintf("%s %s\n", o.Kind, o.ID)
	}
	return []byte(out)
}
