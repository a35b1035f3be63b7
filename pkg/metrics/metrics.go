// Package metrics exports key construction and identification counters to
// Prometheus. Build metrics are fed through domain.LifecycleHooks, so the
// builder itself never imports Prometheus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/keysort/pkg/domain"
)

const namespace = "keysort"

// Identification results.
const (
	ResultResolved      = "resolved"
	ResultCandidates    = "candidates"
	ResultNoMatch       = "no_match"
	ResultMissingAnswer = "missing_answer"
)

// Collector owns the keysort metric vectors.
type Collector struct {
	builds          *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	nodes           *prometheus.CounterVec
	deferrals       prometheus.Counter
	unresolved      prometheus.Counter
	cacheLookups    *prometheus.CounterVec
	identifications *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to keep them isolated.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Key builds by result.",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of key builds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Nodes created by kind.",
		}, []string{"kind"}),
		deferrals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deferrals_total",
			Help:      "Nodes moved on to a later trait because no item carried the current one.",
		}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_nodes_total",
			Help:      "Option nodes left with several items after the last trait.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Key store lookups by result.",
		}, []string{"result"}),
		identifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifications_total",
			Help:      "Identifications by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(c.builds, c.buildDuration, c.nodes, c.deferrals, c.unresolved, c.cacheLookups, c.identifications)
	return c
}

// Hooks returns lifecycle hooks that record build events.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeCreated: func(_ context.Context, e *domain.NodeEvent) {
			c.nodes.WithLabelValues(string(e.Kind)).Inc()
		},
		OnDeferral: func(context.Context, *domain.DeferralEvent) {
			c.deferrals.Inc()
		},
		OnUnresolved: func(context.Context, *domain.NodeEvent) {
			c.unresolved.Inc()
		},
		OnBuildComplete: func(_ context.Context, e *domain.BuildEvent) {
			result := "success"
			if e.Err != nil {
				result = "error"
			}
			c.builds.WithLabelValues(result).Inc()
			c.buildDuration.Observe(e.Duration.Seconds())
		},
	}
}

// ObserveCache records a key store lookup.
func (c *Collector) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveIdentification records the outcome of walking the key.
func (c *Collector) ObserveIdentification(result string) {
	c.identifications.WithLabelValues(result).Inc()
}

// Builds exposes the build counter for one result, mainly for tests.
func (c *Collector) Builds(result string) prometheus.Counter {
	return c.builds.WithLabelValues(result)
}

// NodesCreated exposes the node counter for one kind.
func (c *Collector) NodesCreated(kind string) prometheus.Counter {
	return c.nodes.WithLabelValues(kind)
}

// Deferrals exposes the deferral counter.
func (c *Collector) Deferrals() prometheus.Counter {
	return c.deferrals
}
