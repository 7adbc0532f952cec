// Package metrics exposes prometheus counters for the login pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kattend"

var (
	// LoginAttemptsTotal counts login attempts that reached credential verification, by outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by status.",
		},
		[]string{"status"},
	)

	// AuditWriteFailuresTotal counts login history records that could not be persisted.
	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Total number of login history records that failed to persist.",
		},
	)

	// TokensIssuedTotal counts bearer tokens issued on login and registration.
	TokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Total number of bearer tokens issued.",
		},
	)

	// AccessDeniedTotal counts requests rejected by the access gate, by reason.
	AccessDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Total number of requests rejected by the access gate by reason.",
		},
		[]string{"reason"},
	)
)
