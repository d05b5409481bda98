package fixtures

import (
	"fmt"
	"math/rand"

	"github.com/trueform/core/ir"
)

func idFn(i int) ir.ID { return fmt.Sprintf("f%d", i) }

func feature(id ir.ID, deps ...ir.ID) ir.Feature {
	return ir.Feature{ID: id, Kind: ir.KindExtrude, Deps: deps}
}

// Chain returns a linear dependency chain f0 -> f1 -> ... -> f(n-1).
// n must be at least 1.
func Chain(n int) ir.IntentPart {
	features := make([]ir.Feature, n)
	features[0] = feature(idFn(0))
	for i := 1; i < n; i++ {
		features[i] = feature(idFn(i), idFn(i-1))
	}
	return ir.IntentPart{ID: "chain", Features: features}
}

// Star returns a hub feature f0 with n-1 leaves, each depending only on
// the hub.
func Star(n int) ir.IntentPart {
	features := make([]ir.Feature, n)
	features[0] = feature(idFn(0))
	for i := 1; i < n; i++ {
		features[i] = feature(idFn(i), idFn(0))
	}
	return ir.IntentPart{ID: "star", Features: features}
}

// Cycle returns n features arranged in a genuine ring, f[i] depending
// on f[i-1] and f[0] depending on f[n-1], closing the loop. Unlike
// every other generator in this package, the result is intentionally
// cyclic — it exists to feed depgraph.DetectCycle/scheduler.Schedule
// rejection tests, not a schedulable fixture. n must be at least 2.
func Cycle(n int) ir.IntentPart {
	features := make([]ir.Feature, n)
	for i := 0; i < n; i++ {
		prev := (i - 1 + n) % n
		features[i] = feature(idFn(i), idFn(prev))
	}
	return ir.IntentPart{ID: "cycle", Features: features}
}

// Wheel returns a hub feature f0, a ring of n-1 leaves each depending on
// the hub, plus ring edges leaf[i] -> leaf[i+1] closing the cycle —
// broken at one edge so the dependency graph stays acyclic (ring[last]
// does not depend back on ring[0]).
func Wheel(n int) ir.IntentPart {
	features := make([]ir.Feature, n)
	features[0] = feature(idFn(0))
	for i := 1; i < n; i++ {
		deps := []ir.ID{idFn(0)}
		if i > 1 {
			deps = append(deps, idFn(i-1))
		}
		features[i] = feature(idFn(i), deps...)
	}
	return ir.IntentPart{ID: "wheel", Features: features}
}

// Complete returns n features where feature i depends on every feature
// with a smaller index — the densest acyclic topology on n nodes.
func Complete(n int) ir.IntentPart {
	features := make([]ir.Feature, n)
	for i := 0; i < n; i++ {
		deps := make([]ir.ID, i)
		for j := 0; j < i; j++ {
			deps[j] = idFn(j)
		}
		features[i] = feature(idFn(i), deps...)
	}
	return ir.IntentPart{ID: "complete", Features: features}
}

// Bipartite returns left features (no deps) and right features, each
// right feature depending on every left feature.
func Bipartite(left, right int) ir.IntentPart {
	features := make([]ir.Feature, 0, left+right)
	leftIDs := make([]ir.ID, left)
	for i := 0; i < left; i++ {
		leftIDs[i] = idFn(i)
		features = append(features, feature(leftIDs[i]))
	}
	for i := 0; i < right; i++ {
		features = append(features, feature(idFn(left+i), leftIDs...))
	}
	return ir.IntentPart{ID: "bipartite", Features: features}
}

// RandomSparse returns a random DAG on n features: feature i may depend
// on any feature j < i independently with probability edgeProb, seeded
// by seed for reproducibility.
func RandomSparse(n int, edgeProb float64, seed int64) ir.IntentPart {
	rng := rand.New(rand.NewSource(seed))
	features := make([]ir.Feature, n)
	for i := 0; i < n; i++ {
		var deps []ir.ID
		for j := 0; j < i; j++ {
			if rng.Float64() < edgeProb {
				deps = append(deps, idFn(j))
			}
		}
		features[i] = feature(idFn(i), deps...)
	}
	return ir.IntentPart{ID: "random_sparse", Features: features}
}

// RandomRegular returns an acyclic DAG on n features where feature i
// (for i >= degree) depends on exactly degree distinct, randomly
// chosen earlier features, seeded by seed for reproducibility. Features
// with index below degree depend on every earlier feature, since there
// aren't degree earlier candidates yet to choose from.
func RandomRegular(n, degree int, seed int64) ir.IntentPart {
	rng := rand.New(rand.NewSource(seed))
	features := make([]ir.Feature, n)
	for i := 0; i < n; i++ {
		if i <= degree {
			deps := make([]ir.ID, i)
			for j := 0; j < i; j++ {
				deps[j] = idFn(j)
			}
			features[i] = feature(idFn(i), deps...)
			continue
		}
		perm := rng.Perm(i)
		chosen := make([]ir.ID, degree)
		for k := 0; k < degree; k++ {
			chosen[k] = idFn(perm[k])
		}
		features[i] = feature(idFn(i), chosen...)
	}
	return ir.IntentPart{ID: "random_regular", Features: features}
}

// Grid returns a rows x cols grid of features, each depending on its
// left and upper neighbor (when present), widely used to exercise
// diamond-shaped dependency reconvergence.
func Grid(rows, cols int) ir.IntentPart {
	id := func(r, c int) ir.ID { return fmt.Sprintf("f%d_%d", r, c) }
	features := make([]ir.Feature, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var deps []ir.ID
			if r > 0 {
				deps = append(deps, id(r-1, c))
			}
			if c > 0 {
				deps = append(deps, id(r, c-1))
			}
			features = append(features, ir.Feature{ID: id(r, c), Kind: ir.KindExtrude, Deps: deps})
		}
	}
	return ir.IntentPart{ID: "grid", Features: features}
}
