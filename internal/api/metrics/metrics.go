// Package metrics defines the custom Prometheus metrics for the auth
// service. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer token validations performed by the
// authorizer.
// Label:
//   - result: "valid", "missing", "invalid", "expired", or "unknown_user"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts role-check outcomes for authenticated callers.
// Label:
//   - decision: "permit" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by decision.",
	},
	[]string{"decision"},
)

// AdminOpsTotal counts administrative mutations.
// Labels:
//   - operation: e.g. "create_user", "delete_role", "assign_role"
//   - result: "success" or "failure"
var AdminOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_operations_total",
		Help:      "Total number of administrative operations, by operation and result.",
	},
	[]string{"operation", "result"},
)
