// Package metrics defines and registers all custom Prometheus metrics for the
// LMS identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lms"

// ── Identity metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts account creations.
// Label:
//   - path: "self", "admin" or "bootstrap"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by registration path.",
	},
	[]string{"path"},
)

// ActivationsTotal counts activation attempts.
// Label:
//   - result: "ok", "invalid", "expired", "consumed" or "error"
var ActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activations_total",
		Help:      "Total number of account activation attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "ok", "invalid_credentials", "disabled", "locked" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts reset flow steps.
// Labels:
//   - step: "initiate" or "complete"
//   - result: "ok" or a short failure reason
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests, by step and result.",
	},
	[]string{"step", "result"},
)

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateRejectionsTotal counts calls refused by an authorization gate.
// Labels:
//   - transport: "http" or "grpc"
//   - reason: "missing", "malformed", "bad_signature", "expired" or "forbidden"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of calls rejected by an authorization gate.",
	},
	[]string{"transport", "reason"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailDispatchTotal counts outbound mail outcomes.
// Labels:
//   - template: "activate_account" or "reset_password"
//   - result: "sent", "failed" or "rejected" (queue full)
var MailDispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dispatch_total",
		Help:      "Total number of outbound emails, by template and result.",
	},
	[]string{"template", "result"},
)

// MailQueueDepth tracks the number of emails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MailDeliveryDuration measures how long a single delivery takes.
var MailDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_delivery_duration_seconds",
		Help:      "Duration of a single outbound email delivery.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"template"},
)
