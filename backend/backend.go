package backend

import (
	"context"

	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
)

// Capabilities reports which feature kinds a backend supports and its
// identity, surfaced to callers deciding whether a build can proceed at
// all before scheduling begins.
type Capabilities struct {
	Kernel    ir.KernelInfo
	Supported map[ir.FeatureKind]bool
}

// Supports reports whether kind is in the supported set.
func (c Capabilities) Supports(kind ir.FeatureKind) bool {
	return c.Supported[kind]
}

// ExecuteInput carries everything a backend needs to execute a single
// normalized feature against the kernel-object state accumulated so
// far, mirroring spec.md §4.9's execute(feature, upstream, resolve)
// contract.
type ExecuteInput struct {
	Feature normalize.NormalizedFeature
	Context ir.BuildContext
	Prior   ir.KernelResult

	// Resolve runs the Selector Resolution Engine (package selector)
	// against state (typically Prior, or an upstream the backend has
	// derived) and returns the matching KernelSelections, or a
	// resolution error (selector_ambiguity, selection_zero_matches,
	// selector metadata errors) per spec.md §4.6. Backends consult it
	// for every Selector on in.Feature before producing output.
	Resolve func(sel ir.Selector, state ir.KernelResult) ([]ir.KernelSelection, error)
}

// MeshRequest asks a backend to tessellate a kernel object for viewing
// or 3D-printing style export.
type MeshRequest struct {
	Object    ir.KernelObject
	Tolerance ir.Tolerance
}

// Mesh is a tessellated triangle mesh: flat vertex triples and
// zero-based vertex index triples, one per triangle.
type Mesh struct {
	Vertices []ir.Vec3
	Indices  [][3]int
}

// ValidityReport is the result of a model validity check.
type ValidityReport struct {
	Valid  bool
	Issues []string
}

// Backend is the contract the executor drives. Implementations must be
// safe to call repeatedly and in feature-id order; they are not required
// to be safe for concurrent use by multiple goroutines.
type Backend interface {
	Capabilities(ctx context.Context) (Capabilities, error)
	Execute(ctx context.Context, in ExecuteInput) (ir.KernelResult, error)
	Mesh(ctx context.Context, req MeshRequest) (Mesh, error)
	ExportStep(ctx context.Context, objects []ir.KernelObject) ([]byte, error)
	ExportStl(ctx context.Context, objects []ir.KernelObject) ([]byte, error)
	CheckValid(ctx context.Context, objects []ir.KernelObject) (ValidityReport, error)
}
