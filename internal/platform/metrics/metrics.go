// Package metrics holds the Prometheus collectors for the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EntriesPosted counts ledger entries persisted, by kind.
var EntriesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dues_ledger",
	Name:      "entries_posted_total",
	Help:      "Ledger entries posted, by kind.",
}, []string{"kind"})

// DebtsTouchedPerPayment observes how many debts a single payment reduced.
var DebtsTouchedPerPayment = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "dues_ledger",
	Name:      "payment_debts_touched",
	Help:      "Number of debts reduced by one payment.",
	Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
})

// PaymentSurplus counts payments that left money unapplied.
var PaymentSurplus = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "dues_ledger",
	Name:      "payment_surplus_total",
	Help:      "Payments that exceeded the member's outstanding balance.",
})

// AllocationConflicts counts concurrent-write conflicts, by whether the retry budget was exhausted.
var AllocationConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dues_ledger",
	Name:      "allocation_conflicts_total",
	Help:      "Optimistic-lock conflicts while posting entries.",
}, []string{"outcome"})

// HTTPRequestDuration observes request latency by route and status.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "dues_ledger",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})
