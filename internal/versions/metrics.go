package versions

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kubefoundry",
			Subsystem: "versions",
			Name:      "fetch_total",
			Help:      "Total number of release lookups by source and result",
		},
		[]string{"source", "result"},
	)

	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kubefoundry",
			Subsystem: "versions",
			Name:      "cache_hits_total",
			Help:      "Total number of version resolutions answered from the cache",
		},
		[]string{"source"},
	)
)

func init() {
	metrics.Registry.MustRegister(fetchTotal, cacheHitsTotal)
}
