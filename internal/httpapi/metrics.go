// Prometheus instrumentation for the serve command: promauto counters for
// upload outcomes, rate-limiter rejections and analyzer anomalies, and a
// parse-duration histogram.
package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	demosReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tf2stats_demos_received_total",
		Help: "Total number of demo uploads accepted for processing.",
	})

	demosParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tf2stats_demos_parsed_total",
		Help: "Total number of demo uploads successfully parsed.",
	})

	demosRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tf2stats_demos_rejected_total",
		Help: "Total number of demo uploads rejected (bad form, too large, missing or unreadable file, hash failure, parse failure).",
	})

	parseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tf2stats_parse_duration_seconds",
		Help:    "Duration of a single demo parse.",
		Buckets: prometheus.DefBuckets,
	})

	anomaliesByKind = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tf2stats_anomalies_total",
		Help: "Count of analyzer anomaly log events by taxonomy kind (schema-gap, unknown-enum, reference-miss, inconsistency, bounded-anomaly).",
	}, []string{"kind"})

	rateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tf2stats_rate_limit_rejections_total",
		Help: "Total number of upload requests rejected by the per-IP rate limiter.",
	})
)

// CountAnomaly increments the anomaly counter for kind. Exported so
// internal/analyzer's logAnomaly helper can drive it without this package
// importing analyzer (avoiding an import cycle): analyzer takes an observer
// callback via SetAnomalyObserver. No command in cmd/ registers this
// function with an analyzer.
func CountAnomaly(kind string) {
	anomaliesByKind.WithLabelValues(kind).Inc()
}
