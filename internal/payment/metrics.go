package payment

import "github.com/prometheus/client_golang/prometheus"

var sessionsCreated = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Stripe checkout sessions created",
	},
)

func init() {
	prometheus.MustRegister(sessionsCreated)
}
