// Package metrics defines and registers all custom Prometheus metrics for the
// clinic session layer and the admin API. It is the single source of truth
// for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Gate metrics ─────────────────────────────────────────────────────────────

// GateDecisionsTotal counts admin gate outcomes.
// Label:
//   - outcome: "authorized", "missing_credential", "invalid_token", "invalid_admin"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_gate_decisions_total",
		Help:      "Total number of admin authorization decisions, by outcome.",
	},
	[]string{"outcome"},
)

// AdminMutationsTotal counts state-changing admin operations that succeeded.
// Label:
//   - operation: "toggle_availability", "cancel_appointment"
var AdminMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_mutations_total",
		Help:      "Total number of successful admin mutations, by operation.",
	},
	[]string{"operation"},
)

// ── Gateway metrics ──────────────────────────────────────────────────────────

// GatewayRequestsTotal counts outbound session calls.
// Labels:
//   - role: "admin", "doctor", "patient"
//   - outcome: "ok", "network_unreachable", "server_rejected", "unclassified"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend calls issued by role sessions, by outcome.",
	},
	[]string{"role", "outcome"},
)

// GatewayRequestDuration measures backend call latency per role.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend calls issued by role sessions.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"role"},
)

// GatewayOutstanding tracks calls that have been issued and not yet resolved.
var GatewayOutstanding = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gateway_outstanding_requests",
		Help:      "Current number of in-flight backend calls across all sessions.",
	},
)
