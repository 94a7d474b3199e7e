package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var compileTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "kubefoundry",
		Subsystem: "provider",
		Name:      "compile_total",
		Help:      "Number of manifest compilations by provider and result.",
	},
	[]string{"provider", "result"},
)

func init() {
	metrics.Registry.MustRegister(compileTotal)
}

func recordCompile(p Provider, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	compileTotal.WithLabelValues(string(p), result).Inc()
}
