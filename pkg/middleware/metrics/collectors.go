package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trifle_http_response_seconds",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10, 30},
		},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trifle_http_requests_from_role_total", Help: "http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trifle_http_requests_to_uri_total", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trifle_http_requests_total", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	totalDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trifle_dispatch_total", Help: "dispatched actions by controller, action and outcome"},
		[]string{"controller", "action", "outcome"},
	)

	dispatchTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trifle_dispatch_seconds",
			Help:    "time spent dispatching an action, rendering included.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"controller"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToUri,
		totalHttpRequests,
		totalDispatches,
		dispatchTime,
	)
}
