package cache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache traffic per namespace. A nil *Metrics records nothing.
type Metrics struct {
	hits        *prometheus.CounterVec
	misses      *prometheus.CounterVec
	invalidated *prometheus.CounterVec
	errors      *prometheus.CounterVec
}

// NewMetrics registers the cache counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		hits: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of response cache hits",
		}, []string{"namespace"})),
		misses: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of response cache misses",
		}, []string{"namespace"})),
		invalidated: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_invalidated_keys_total",
			Help: "Total number of cache keys removed by invalidation",
		}, []string{"namespace"})),
		errors: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of swallowed cache store errors",
		}, []string{"op"})),
	}
}

// register returns the already registered collector when the same metric is
// registered twice against one registry.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) hit(ns Namespace) {
	if m != nil {
		m.hits.WithLabelValues(string(ns)).Inc()
	}
}

func (m *Metrics) miss(ns Namespace) {
	if m != nil {
		m.misses.WithLabelValues(string(ns)).Inc()
	}
}

func (m *Metrics) invalidate(ns Namespace, n int) {
	if m != nil && n > 0 {
		m.invalidated.WithLabelValues(string(ns)).Add(float64(n))
	}
}

func (m *Metrics) storeError(op string) {
	if m != nil {
		m.errors.WithLabelValues(op).Inc()
	}
}
