// Package metrics defines the custom Prometheus metrics of the accounts API.
// They are registered with the default registry on import and exposed on
// /metrics next to the HTTP metrics of the echo middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts. Every successful login rotates a token.
// Label:
//   - result: "success", "invalid", "not_found" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccountOperationsTotal counts authenticated self-service operations.
// Labels:
//   - operation: "get_self", "update_self" or "delete_self"
//   - result: "success", "denied", "invalid", "conflict", "not_found" or "error"
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_operations_total",
		Help:      "Total number of self-service account operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// ProfileCacheTotal counts profile cache lookups.
// Label:
//   - result: "hit" or "miss"
var ProfileCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_cache_total",
		Help:      "Total number of profile cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
