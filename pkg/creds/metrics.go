package creds

import "github.com/prometheus/client_golang/prometheus"

var (
	refreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edge",
			Subsystem: "credentials",
			Name:      "refresh_total",
			Help:      "Number of credential refreshes attempted, by result",
		},
		[]string{"result"},
	)

	fetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edge",
			Subsystem: "credentials",
			Name:      "fetch_errors_total",
			Help:      "Number of errors fetching credentials, by reason",
		},
		[]string{"reason"},
	)

	fetchTimer = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "edge",
			Subsystem: "credentials",
			Name:      "fetch_timing_seconds",
			Help:      "Bucketed histogram of credential endpoint request timings",

			// 1ms to 4s
			Buckets: prometheus.ExponentialBuckets(.001, 2, 13),
		},
	)

	expiryTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "edge",
			Subsystem: "credentials",
			Name:      "expiry_timestamp_seconds",
			Help:      "Unix time the published credentials expire, 0 if unknown",
		},
	)

	lastRefreshTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "edge",
			Subsystem: "credentials",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful refresh",
		},
	)
)

func init() {
	prometheus.MustRegister(refreshes)
	prometheus.MustRegister(fetchErrors)
	prometheus.MustRegister(fetchTimer)
	prometheus.MustRegister(expiryTimestamp)
	prometheus.MustRegister(lastRefreshTimestamp)
}
