package executor

import (
	"context"

	"go.uber.org/zap"

	"github.com/trueform/core/backend"
	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
)

// Option configures Execute and ExecuteIncremental.
type Option func(*settings)

type settings struct {
	log *zap.Logger
}

// WithLogger attaches a logger that receives a Debug line per feature
// as it's executed, reused, or re-executed. A feature with no checkpoint
// in the prior run is re-executed without a separate log line.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

func newSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Diagnostics describes how a build arrived at its Result: a full build
// executed every feature; an incremental build reused prior results for
// every feature outside the downstream closure of what changed.
type Diagnostics struct {
	Mode                  string
	ReusedFeatureIDs      []ir.ID
	InvalidatedFeatureIDs []ir.ID
}

const (
	ModeFull        = "full"
	ModeIncremental = "incremental"
)

// Result is a completed (or partially reused) build: the final merged
// KernelResult, the schedule it followed, a per-feature checkpoint of
// the cumulative KernelResult right after that feature ran (consumed by
// a later incremental rebuild), and Diagnostics.
type Result struct {
	Final       ir.KernelResult
	Order       []ir.ID
	Steps       map[ir.ID]ir.KernelResult
	Diagnostics Diagnostics
}

// CheckCapabilities rejects part up front if be cannot execute one of
// its feature kinds, rather than failing partway through a schedule.
func CheckCapabilities(ctx context.Context, be backend.Backend, part *normalize.NormalizedPart) error {
	caps, err := be.Capabilities(ctx)
	if err != nil {
		return err
	}
	for _, f := range part.Features {
		if !caps.Supports(f.Kind) {
			return compileerr.Newf(compileerr.CodeBackendUnsupportedFeature,
				"backend %s/%s does not support feature kind %q (feature %q)",
				caps.Kernel.Name, caps.Kernel.Version, f.Kind, f.ID)
		}
	}
	return nil
}

// Execute runs every feature in order against be, from scratch.
func Execute(ctx context.Context, be backend.Backend, part *normalize.NormalizedPart, order []ir.ID, buildCtx ir.BuildContext, opts ...Option) (*Result, error) {
	s := newSettings(opts)
	if err := CheckCapabilities(ctx, be, part); err != nil {
		return nil, err
	}

	cur := ir.NewKernelResult()
	steps := make(map[ir.ID]ir.KernelResult, len(order))
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, ok := part.FeaturesByID[id]
		if !ok {
			continue
		}
		step, err := be.Execute(ctx, backend.ExecuteInput{
			Feature: f,
			Context: buildCtx,
			Prior:   cur,
			Resolve: ResolveSelector,
		})
		if err != nil {
			return nil, err
		}
		cur = Merge(cur, step)
		steps[id] = cur
		if s.log != nil {
			s.log.Debug("executed feature", zap.String("featureId", string(id)), zap.String("kind", string(f.Kind)))
		}
	}

	return &Result{
		Final:       cur,
		Order:       order,
		Steps:       steps,
		Diagnostics: Diagnostics{Mode: ModeFull},
	}, nil
}

// ExecuteIncremental reuses prior's per-feature checkpoints for every
// feature outside the downstream closure of changedFeatureIDs in g, and
// only re-invokes be for features within that closure.
func ExecuteIncremental(
	ctx context.Context,
	be backend.Backend,
	part *normalize.NormalizedPart,
	g *depgraph.Graph,
	order []ir.ID,
	buildCtx ir.BuildContext,
	prior *Result,
	changedFeatureIDs []ir.ID,
	opts ...Option,
) (*Result, error) {
	s := newSettings(opts)
	if err := CheckCapabilities(ctx, be, part); err != nil {
		return nil, err
	}

	invalidated := downstreamClosure(g, changedFeatureIDs)

	cur := ir.NewKernelResult()
	steps := make(map[ir.ID]ir.KernelResult, len(order))
	var reused, touched []ir.ID

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !invalidated[id] {
			step, ok := prior.Steps[id]
			if !ok {
				// Not part of the prior run either; treat as new work.
				invalidated[id] = true
			} else {
				cur = step
				steps[id] = step
				reused = append(reused, id)
				if s.log != nil {
					s.log.Debug("reused feature checkpoint", zap.String("featureId", string(id)))
				}
				continue
			}
		}

		touched = append(touched, id)
		f, ok := part.FeaturesByID[id]
		if !ok {
			continue
		}
		step, err := be.Execute(ctx, backend.ExecuteInput{
			Feature: f,
			Context: buildCtx,
			Prior:   cur,
			Resolve: ResolveSelector,
		})
		if err != nil {
			return nil, err
		}
		cur = Merge(cur, step)
		steps[id] = cur
		if s.log != nil {
			s.log.Debug("re-executed invalidated feature", zap.String("featureId", string(id)), zap.String("kind", string(f.Kind)))
		}
	}

	return &Result{
		Final: cur,
		Order: order,
		Steps: steps,
		Diagnostics: Diagnostics{
			Mode:                  ModeIncremental,
			ReusedFeatureIDs:      reused,
			InvalidatedFeatureIDs: touched,
		},
	}, nil
}

// downstreamClosure returns changed plus every feature id reachable from
// it by following g's edges forward (its transitive dependents),
// discovered with a queue/visited breadth-first walk.
func downstreamClosure(g *depgraph.Graph, changed []ir.ID) map[ir.ID]bool {
	visited := make(map[ir.ID]bool, len(changed))
	queue := make([]ir.ID, 0, len(changed))
	for _, id := range changed {
		if !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range g.Successors(id) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
