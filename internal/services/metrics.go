package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LogsCreated         prometheus.Counter
	AssociationsWritten prometheus.Counter
	AssociationFailures prometheus.Counter
	StorageFailures     *prometheus.CounterVec
	QueryDuration       prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LogsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "devgrowth",
			Name:      "daily_logs_created_total",
			Help:      "Daily logs durably written.",
		}),
		AssociationsWritten: f.NewCounter(prometheus.CounterOpts{
			Namespace: "devgrowth",
			Name:      "log_goal_links_written_total",
			Help:      "Log-goal association rows written.",
		}),
		AssociationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "devgrowth",
			Name:      "log_goal_link_failures_total",
			Help:      "Association batches that failed after their log was saved.",
		}),
		StorageFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devgrowth",
			Name:      "storage_failures_total",
			Help:      "Failed storage operations by operation.",
		}, []string{"op"}),
		QueryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "devgrowth",
			Name:      "daily_log_query_seconds",
			Help:      "Latency of paginated daily log queries.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
