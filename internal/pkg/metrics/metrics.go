// Package metrics defines and registers all custom Prometheus metrics for the
// kanban web client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import and
// exposed by the router on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kanban_web"

// ── Backend API metrics ───────────────────────────────────────────────────────

// APIRequestsTotal counts calls made by the API gateway client.
// Labels:
//   - method: HTTP method
//   - route: endpoint template (e.g. "/boards/workspace/:id")
//   - status: response status code, or "network_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of backend API calls, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// APIRequestDuration measures backend round-trip latency.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of backend API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// ForcedLogoutsTotal counts sessions torn down by a 401 response.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions cleared by an unauthorized backend response.",
	},
)

// ── Session & guard metrics ───────────────────────────────────────────────────

// SessionEventsTotal counts Session Store mutations.
// Label:
//   - event: "login", "logout" or "update"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session store mutations, by event.",
	},
	[]string{"event"},
)

// GuardDecisionsTotal counts Route Guard outcomes.
// Label:
//   - state: "loading", "authorized", "unauthorized" or "forbidden"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by resulting state.",
	},
	[]string{"state"},
)

// ── Controller metrics ────────────────────────────────────────────────────────

// StaleResponsesTotal counts collection responses dropped because a newer
// fetch had already been applied.
var StaleResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_responses_total",
		Help:      "Total number of out-of-order collection responses discarded.",
	},
	[]string{"resource"},
)
