package sts

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	errorVerifying = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edge",
			Subsystem: "sts",
			Name:      "verify_errors_total",
			Help:      "Number of errors verifying credentials with GetCallerIdentity",
		},
	)

	callerIdentity = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "edge",
			Subsystem: "sts",
			Name:      "caller_identity_timing_seconds",
			Help:      "Bucketed histogram of GetCallerIdentity timings",

			// 1ms to 4s
			Buckets: prometheus.ExponentialBuckets(.001, 2, 13),
		},
	)
)

func init() {
	prometheus.MustRegister(errorVerifying)
	prometheus.MustRegister(callerIdentity)
}
