// Package metrics defines and registers the custom Prometheus metrics of the
// banking API. It is the single source of truth for metric names, labels and
// help strings. Metrics are registered on the default registry at import time
// through promauto; the HTTP middleware in the api package exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bank"

// ── Identity metrics ──────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Label:
//   - result: "created", "invalid", "conflict" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts sessions inserted after cap enforcement.
var SessionsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of sessions issued.",
	},
)

// SessionsEvictedTotal counts sessions deleted to keep a user under the cap.
var SessionsEvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_evicted_total",
		Help:      "Total number of sessions evicted by the per-user session cap.",
	},
)

// SessionsRevokedTotal counts sessions deleted by logout.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked by logout.",
	},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// LedgerPostingsTotal counts committed balance changes.
// Labels:
//   - kind: "deposit" or "withdrawal"
//   - source: "card", "bank" or "" for withdrawals
var LedgerPostingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_postings_total",
		Help:      "Total number of ledger postings, by kind and funding source.",
	},
	[]string{"kind", "source"},
)

// AccountsOpenedTotal counts opened accounts.
// Label:
//   - account_type: "checking" or "savings"
var AccountsOpenedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_opened_total",
		Help:      "Total number of accounts opened, by account type.",
	},
	[]string{"account_type"},
)
