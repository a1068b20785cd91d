// Package metrics defines all custom Prometheus metrics for the ExpenSpend
// API. It is the single source of truth for metric names, labels, and help
// strings; importing the package registers everything with the default
// Prometheus registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expenspend"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by terminal outcome.
// Label:
//   - outcome: "success", "not_found", "bad_password", "unconfirmed",
//     "locked_out", "not_allowed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by terminal outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "exists", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts minted bearer tokens by expiry policy.
// Label:
//   - policy: "session" (8h) or "remember_me" (30d)
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by expiry policy.",
	},
	[]string{"policy"},
)

// FederatedExchangesTotal counts Auth0 token exchanges.
// Label:
//   - result: "existing" (account reused), "provisioned" (new local account),
//     "upstream_error"
var FederatedExchangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "federated_exchanges_total",
		Help:      "Total number of federated token exchanges, by result.",
	},
	[]string{"result"},
)

// ── Friendship metrics ────────────────────────────────────────────────────────

// FriendshipRequestsTotal counts friend-request creations.
// Label:
//   - result: "created", "duplicate", "self"
var FriendshipRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "friendship_requests_total",
		Help:      "Total number of friend requests, by result.",
	},
	[]string{"result"},
)

// FriendshipResponsesTotal counts accept/block decisions applied to a pair.
// Label:
//   - status: the new status ("accepted" or "blocked")
var FriendshipResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "friendship_responses_total",
		Help:      "Total number of friend-request responses, by resulting status.",
	},
	[]string{"status"},
)

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailsSentTotal counts outbound email deliveries attempted by the workers.
// Labels:
//   - result: "sent" or "failed"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of outbound emails attempted, by result.",
	},
	[]string{"result"},
)

// EmailQueueDepth tracks the emails waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EmailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "email_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
