package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LookupsTotal counts provider lookups by outcome status.
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_lookups_total",
			Help: "Provider lookups performed, labeled by provider and result status",
		},
		[]string{"provider", "status"},
	)
)

// Start registers the collectors and serves /metrics on the given port.
func Start(port string) {
	prometheus.MustRegister(LookupsTotal)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
