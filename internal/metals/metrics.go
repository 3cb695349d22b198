package metals

import "github.com/prometheus/client_golang/prometheus"

var sourceFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "metals_source_failure_total",
		Help: "Price feed sources that failed and triggered fallback",
	},
	[]string{"source"},
)

func init() {
	prometheus.MustRegister(sourceFailures)
}
