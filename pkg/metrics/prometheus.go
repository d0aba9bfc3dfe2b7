package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	RecordsCreated     prometheus.Counter
	SchedulesRefreshed prometheus.Counter
	RecordsClosed      prometheus.Counter
	RefreshDuration    prometheus.Histogram
	ErrorsCount        *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics on the given registerer
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_records_created_total",
			Help:      "The total number of tracking records created",
		}),
		SchedulesRefreshed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_refreshed_total",
			Help:      "The total number of shipment schedules refreshed",
		}),
		RecordsClosed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_records_closed_total",
			Help:      "The total number of tracking records closed on arrival",
		}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_refresh_duration_seconds",
			Help:      "Time taken to run a schedule refresh batch",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
