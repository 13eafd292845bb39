// Package metrics exposes Prometheus counters for the booking lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated counts successfully created bookings.
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_created_total",
		Help: "Number of bookings created.",
	})

	// BookingsCancelled counts successful cancellations, including
	// completed retries after a partial failure.
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_cancelled_total",
		Help: "Number of bookings cancelled.",
	})

	// BookingsExpired counts active→past transitions persisted by the
	// expiry sweep.
	BookingsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_expired_total",
		Help: "Number of bookings moved to past by the expiry sweep.",
	})

	// OperationFailures counts failed engine operations by operation and
	// failure kind (validation, store, partial).
	OperationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_operation_failures_total",
		Help: "Number of failed engine operations.",
	}, []string{"op", "kind"})
)
