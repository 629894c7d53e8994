// Package metrics defines and registers all custom Prometheus metrics for
// the feedback gateway. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedback_gateway"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials), or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RefreshesTotal counts session refreshes.
// Label:
//   - result: "success", "expired", "error", or "discarded" (session ended mid-flight)
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of session refresh operations, labelled by result.",
	},
	[]string{"result"},
)

// IdleLogoutsTotal counts sessions destroyed by the inactivity monitor.
var IdleLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idle_logouts_total",
		Help:      "Total number of sessions destroyed after the idle timeout.",
	},
)

// ── Push channel metrics ──────────────────────────────────────────────────────

// PushEventsTotal counts messages received on the live notification channel.
// Label:
//   - result: "processed", "unrecognized", or "malformed"
var PushEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_events_total",
		Help:      "Total number of push messages received, labelled by outcome.",
	},
	[]string{"result"},
)

// PushDedupTotal counts deduplication decisions on push events.
// Label:
//   - result: "hit" (redelivery, skipped) or "miss" (new event, processed)
var PushDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_dedup_total",
		Help:      "Total number of push dedup checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
