package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "party_rental"

type Metrics struct {
	AvailabilityChecks *prometheus.CounterVec
	CheckDuration      prometheus.Histogram
	BookingSubmits     *prometheus.CounterVec
	DoubleBookings     prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AvailabilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_checks_total",
			Help:      "Availability checks by result (available, busy, error).",
		}, []string{"result"}),
		CheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_check_duration_seconds",
			Help:      "Time spent querying the booking store for overlaps.",
			Buckets:   prometheus.DefBuckets,
		}),
		BookingSubmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_submits_total",
			Help:      "Booking submissions by outcome (created, updated, conflict, invalid, error).",
		}, []string{"outcome"}),
		DoubleBookings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "double_bookings",
			Help:      "Overlapping blocking booking pairs found by the last audit run.",
		}),
	}

	reg.MustRegister(m.AvailabilityChecks, m.CheckDuration, m.BookingSubmits, m.DoubleBookings)

	return m
}
