package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the booking service.
type Metrics struct {
	BookingsStarted    prometheus.Counter
	BookingsBooked     prometheus.Counter
	BookingsFailed     *prometheus.CounterVec
	DedupShortCircuits prometheus.Counter
	PaymentCharges     prometheus.Counter
	PaymentRefunds     prometheus.Counter
	Cancellations      prometheus.Counter
	AnalyticsDropped   prometheus.Counter
	BookingDuration    prometheus.Histogram
}

// NewMetrics registers and returns the service metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_started_total",
			Help:      "The total number of orchestration attempts started",
		}),
		BookingsBooked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_booked_total",
			Help:      "The total number of bookings that reached BOOKED",
		}),
		BookingsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_failed_total",
			Help:      "The total number of failed bookings",
		}, []string{"reason"}),
		DedupShortCircuits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_short_circuits_total",
			Help:      "The total number of requests served from the dedup response cache",
		}),
		PaymentCharges: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_charges_total",
			Help:      "The total number of successful payment authorizations",
		}),
		PaymentRefunds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_refunds_total",
			Help:      "The total number of refunds issued",
		}),
		Cancellations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "The total number of confirmed booking cancellations",
		}),
		AnalyticsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_dropped_total",
			Help:      "The total number of analytics events dropped because the queue was full",
		}),
		BookingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_duration_seconds",
			Help:      "Time taken to run one booking orchestration",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
