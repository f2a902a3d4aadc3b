package admin

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	handlerTimer = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edge",
			Subsystem: "admin",
			Name:      "handler_latency_seconds",
			Help:      "Bucketed histogram of handler timings",

			// 1ms to 4s
			Buckets: prometheus.ExponentialBuckets(.001, 2, 13),
		},
		[]string{"handler"},
	)

	responses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edge",
			Subsystem: "admin",
			Name:      "responses_total",
			Help:      "Responses from admin handlers",
		},
		[]string{"handler", "code"},
	)

	forcedRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edge",
			Subsystem: "admin",
			Name:      "forced_refresh_total",
			Help:      "Number of refreshes forced through the admin API, by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(handlerTimer)
	prometheus.MustRegister(responses)
	prometheus.MustRegister(forcedRefreshes)
}
