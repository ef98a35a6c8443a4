// Package metrics exposes the service's Prometheus instrumentation. Counters
// live on the default registry; the /metrics endpoint serves it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	InvitationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enroll_invitations_created_total",
		Help: "Invitations successfully created.",
	})

	InvitationsResent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enroll_invitations_resent_total",
		Help: "Invitation emails re-sent.",
	})

	InvitationsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enroll_invitations_revoked_total",
		Help: "Invitations revoked by an administrator.",
	})

	InvitationsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enroll_invitations_redeemed_total",
		Help: "Invitation codes redeemed through signup.",
	})

	InvitationsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enroll_invitations_deleted_total",
		Help: "Invitations hard-deleted by an administrator.",
	})

	CleanupRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enroll_cleanup_removed_total",
		Help: "Expired invitations removed by cleanup sweeps.",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enroll_notification_failures_total",
		Help: "Invitation notifications that could not be delivered.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
