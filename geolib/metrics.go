package geolib

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "iplocator"

// Metrics is a set of prometheus collectors filled by Resolver. A nil
// value is valid and does nothing.
type Metrics struct {
	providerLookups *prometheus.CounterVec
	resolves        *prometheus.CounterVec
	resolveDuration prometheus.Histogram
}

func (m *Metrics) observeProvider(name string, err error) {
	if m == nil {
		return
	}

	outcome := "success"

	switch {
	case err == nil:
	case IsNoData(err):
		outcome = "miss"
	default:
		outcome = "failure"
	}

	m.providerLookups.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) observeResolve(result LookupResult, started time.Time) {
	if m == nil {
		return
	}

	m.resolveDuration.Observe(time.Since(started).Seconds())

	if result.Success {
		m.resolves.WithLabelValues("success").Inc()
	} else {
		m.resolves.WithLabelValues("failure").Inc()
	}
}

// NewMetrics creates and registers resolver collectors.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	rv := &Metrics{
		providerLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "provider_lookups_total",
			Help:      "A number of lookups done by each provider.",
		}, []string{"provider", "outcome"}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolves_total",
			Help:      "A number of resolved addresses.",
		}, []string{"outcome"}),
		resolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "resolve_duration_seconds",
			Help:      "Time spent to resolve a single address.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, v := range []prometheus.Collector{rv.providerLookups, rv.resolves, rv.resolveDuration} {
		if err := registerer.Register(v); err != nil {
			return nil, fmt.Errorf("cannot register a collector: %w", err)
		}
	}

	return rv, nil
}
