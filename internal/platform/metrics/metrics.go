package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_reservations_total",
			Help: "Reservation attempts by result",
		},
		[]string{"result"},
	)

	lockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_seat_lock_contention_total",
			Help: "Lock acquisitions refused because a seat was already held",
		},
	)

	lockAcquireDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_seat_lock_acquire_seconds",
			Help:    "Time spent acquiring a full seat lock set",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_payment_reconciliations_total",
			Help: "Payment outcomes processed by kind and result",
		},
		[]string{"kind", "result"},
	)

	cancellations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_cancellations_total",
			Help: "Cancellation requests by result",
		},
		[]string{"result"},
	)

	availabilityDrift = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_availability_drift_repaired_total",
			Help: "Events whose stored availability counter was corrected by the sweep",
		},
	)
)

func TrackReservation(result string) {
	reservations.WithLabelValues(result).Inc()
}

func TrackLockContention() {
	lockContention.Inc()
}

func TrackLockAcquire(d time.Duration) {
	lockAcquireDuration.Observe(d.Seconds())
}

func TrackReconciliation(kind, result string) {
	reconciliations.WithLabelValues(kind, result).Inc()
}

func TrackCancellation(result string) {
	cancellations.WithLabelValues(result).Inc()
}

func TrackAvailabilityDrift() {
	availabilityDrift.Inc()
}
