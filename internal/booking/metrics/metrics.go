package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the booking orchestrator.
type Metrics struct {
	// Booking operations by operation and result ("ok" or an error code)
	Operations *prometheus.CounterVec

	// Eligibility denials by sub-reason
	Denials *prometheus.CounterVec

	// Reservations lost to a concurrent booking
	Conflicts prometheus.Counter

	// Transaction latency by operation
	Duration *prometheus.HistogramVec
}

// New registers the booking metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "candilib_booking_operations_total",
			Help: "Booking operations by operation and result",
		}, []string{"operation", "result"}),

		Denials: f.NewCounterVec(prometheus.CounterOpts{
			Name: "candilib_booking_eligibility_denials_total",
			Help: "Eligibility denials by reason",
		}, []string{"reason"}),

		Conflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "candilib_booking_slot_conflicts_total",
			Help: "Reservations that lost the race for a slot",
		}),

		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "candilib_booking_operation_duration_seconds",
			Help:    "Duration of booking operations including the transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
}

// ObserveOperation records the result and latency of one operation.
func (m *Metrics) ObserveOperation(operation, result string, d time.Duration) {
	if m != nil {
		m.Operations.WithLabelValues(operation, result).Inc()
		m.Duration.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementDenial(reason string) {
	if m != nil {
		m.Denials.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncrementConflict() {
	if m != nil {
		m.Conflicts.Inc()
	}
}
