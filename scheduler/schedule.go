package scheduler

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/ir"
)

// Option configures Schedule.
type Option func(*settings)

type settings struct {
	ctx context.Context
	log *zap.Logger
}

// WithContext makes Schedule check ctx.Err() between steps, returning it
// unwrapped the moment it's non-nil. Useful for bounding very large
// graphs under an external deadline.
func WithContext(ctx context.Context) Option {
	return func(s *settings) { s.ctx = ctx }
}

// WithLogger attaches a logger Schedule uses to report the final
// schedule at debug level. Omit it and Schedule stays silent.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

// Schedule returns a total order over g's nodes such that every edge
// from→to is respected (from appears before to), breaking every tie
// between simultaneously-ready nodes by lexicographically smallest id.
//
// The result is independent of g's internal map iteration order and of
// the order nodes/edges were added in: two graphs with the same node and
// edge sets always schedule identically. g must be acyclic; pass it
// through depgraph.DetectCycle (or depgraph.Build, which already does)
// before calling Schedule.
func Schedule(g *depgraph.Graph, opts ...Option) ([]ir.ID, error) {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}

	remaining := make(map[ir.ID]int)
	for _, id := range g.Nodes() {
		remaining[id] = g.InDegree(id)
	}

	ready := make([]ir.ID, 0, len(remaining))
	for id, deg := range remaining {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]ir.ID, 0, len(remaining))
	for len(ready) > 0 {
		if s.ctx != nil {
			if err := s.ctx.Err(); err != nil {
				return nil, err
			}
		}

		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		delete(remaining, next)

		for _, succ := range g.Successors(next) {
			remaining[succ]--
			if remaining[succ] == 0 {
				ready = insertSorted(ready, succ)
			}
		}
	}

	if len(remaining) > 0 {
		var stuck []ir.ID
		for id := range remaining {
			stuck = append(stuck, id)
		}
		sort.Strings(stuck)
		return nil, compileerr.Newf(compileerr.CodeGraphCycle, "graph has a cycle touching %v", stuck)
	}
	if s.log != nil {
		s.log.Debug("computed build schedule", zap.Int("features", len(order)))
	}
	return order, nil
}

// insertSorted inserts id into the already-sorted ready slice, keeping
// it sorted, in O(n) — ready sets in practice stay small relative to the
// whole graph.
func insertSorted(ready []ir.ID, id ir.ID) []ir.ID {
	i := sort.SearchStrings(ready, id)
	ready = append(ready, "")
	copy(ready[i+1:], ready[i:])
	ready[i] = id
	return ready
}
