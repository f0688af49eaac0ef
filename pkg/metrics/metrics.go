package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todos", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todos", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todos", Name: "requests_total", Help: "Todo API responses by operation and status code."},
		[]string{"operation", "code"},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todos", Name: "store_errors_total", Help: "Persistence failures surfaced as 500 responses, by operation."},
		[]string{"operation"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Requests)
	reg.MustRegister(StoreErrors)
}
