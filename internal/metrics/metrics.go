// Package metrics declares the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LoanTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_request_transitions_total",
		Help: "Loan request status changes.",
	}, []string{"from", "to"})

	LedgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_total",
		Help: "Ledger rows written by type.",
	}, []string{"type"})

	LedgerAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_amount_pesos_total",
		Help: "Sum of ledger amounts written by type.",
	}, []string{"type"})

	CashMovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cash_movements_total",
		Help: "Cash-flow movements recorded by type.",
	}, []string{"type"})

	DayClosuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cash_register_closures_total",
		Help: "Cash registers closed.",
	})

	IdempotencyOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idempotency_outcomes_total",
		Help: "Idempotent requests by outcome (stored, replayed, released, rejected, mismatch, in_progress, unavailable).",
	}, []string{"outcome"})
)

func ObserveTransition(from, to string) {
	LoanTransitionsTotal.WithLabelValues(from, to).Inc()
}

func ObserveLedger(typ string, amount int64) {
	LedgerEntriesTotal.WithLabelValues(typ).Inc()
	LedgerAmountTotal.WithLabelValues(typ).Add(float64(amount))
}

func ObserveIdempotency(outcome string) {
	IdempotencyOutcomesTotal.WithLabelValues(outcome).Inc()
}
