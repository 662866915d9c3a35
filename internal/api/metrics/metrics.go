// Package metrics defines and registers the custom Prometheus metrics of the
// event manager API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Nothing is registered on import: Register attaches the collectors to the
// registry the router serves. HTTP request metrics are collected separately
// by the echoprometheus middleware under the same namespace.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "event_manager"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal counts accounts created through registration.
var UsersRegisteredTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - scope: the limited route group (e.g. "login", "register")
var RateLimitedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"scope"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsCreatedTotal counts newly created events.
var EventsCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "events_created_total",
		Help:      "Total number of events created.",
	},
)

// AttendanceChangesTotal counts attendance changes.
// Labels:
//   - action: "join" or "leave"
//   - result: "ok" or a short rejection reason (e.g. "sold_out", "already_attending")
var AttendanceChangesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "attendance_changes_total",
		Help:      "Total number of attendance changes, by action and result.",
	},
	[]string{"action", "result"},
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		LoginAttemptsTotal,
		UsersRegisteredTotal,
		RateLimitedTotal,
		EventsCreatedTotal,
		AttendanceChangesTotal,
	}
}

// Register adds every business metric to reg. Registering twice on the same
// registry is not an error.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
