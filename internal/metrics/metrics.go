// Package metrics exposes the prometheus counters and histograms a
// build process reports: feature execution counts and latency, cache-key
// computation outcomes, and schedule size, all registered against a single
// process-wide registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the process-wide collector registry; callers expose it
// via promhttp.HandlerFor in their own HTTP server setup.
var Registry = prometheus.NewRegistry()

var (
	FeaturesExecuted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trueform_features_executed_total",
		Help: "Number of features executed by the backend, labeled by feature kind and outcome.",
	}, []string{"kind", "outcome"})

	FeatureDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trueform_feature_duration_seconds",
		Help:    "Wall-clock time spent executing a single feature against the backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trueform_cache_lookups_total",
		Help: "Cache-key computations, labeled by outcome (computed, or miss when the part fails to normalize).",
	}, []string{"outcome"})

	ScheduleSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trueform_schedule_size",
		Help:    "Number of features in a computed build schedule.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	ScheduleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trueform_schedule_duration_seconds",
		Help:    "Wall-clock time spent computing a build schedule.",
		Buckets: prometheus.DefBuckets,
	})

	BuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trueform_builds_total",
		Help: "Completed builds, labeled by mode (full or incremental).",
	}, []string{"mode"})

	FeaturesInvalidated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trueform_features_invalidated_total",
		Help: "Features re-executed by an incremental build, labeled by reason (changed or downstream).",
	}, []string{"reason"})
)

func init() {
	Registry.MustRegister(
		FeaturesExecuted, FeatureDuration, CacheLookups, ScheduleSize,
		ScheduleDuration, BuildsTotal, FeaturesInvalidated,
	)
}
