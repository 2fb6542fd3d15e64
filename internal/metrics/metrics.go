// Package metrics exposes the promotion's operational counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts successful registrations seen by the
	// session front-end.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prizewheel_registrations_total",
		Help: "Successful participant registrations.",
	})

	// SpinsTotal counts authoritative spin outcomes by result.
	SpinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prizewheel_spins_total",
		Help: "Authoritative spin outcomes.",
	}, []string{"outcome"})

	// SpinConflictsTotal counts ALREADY_SPUN reconciliations.
	SpinConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prizewheel_spin_conflicts_total",
		Help: "Spin requests answered with ALREADY_SPUN.",
	})

	// GatewayFailuresTotal counts failed authority calls by operation.
	GatewayFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prizewheel_gateway_failures_total",
		Help: "Failed remote authority calls.",
	}, []string{"operation"})
)

// Outcome label values for SpinsTotal.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
)
