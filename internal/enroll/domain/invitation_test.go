package domain_test

import (
	"testing"
	"time"

	"github.com/classforge/enroll/internal/enroll/domain"
	"github.com/stretchr/testify/require"
)

func TestEffectiveStatus(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	expires := created.Add(domain.InvitationTTL)

	pending := domain.Invitation{
		Status:    domain.InvitationPending,
		CreatedAt: created,
		ExpiresAt: expires,
	}

	t.Run("pending before expiry stays pending", func(t *testing.T) {
		require.Equal(t, domain.InvitationPending,
			domain.EffectiveStatus(pending, expires.Add(-time.Minute)))
	})

	t.Run("pending past expiry reads as expired", func(t *testing.T) {
		require.Equal(t, domain.InvitationExpired,
			domain.EffectiveStatus(pending, expires.Add(time.Minute)))
	})

	t.Run("terminal statuses are never rewritten by expiry", func(t *testing.T) {
		accepted := pending
		accepted.Status = domain.InvitationAccepted
		require.Equal(t, domain.InvitationAccepted,
			domain.EffectiveStatus(accepted, expires.Add(time.Hour)))

		cancelled := pending
		cancelled.Status = domain.InvitationCancelled
		require.Equal(t, domain.InvitationCancelled,
			domain.EffectiveStatus(cancelled, expires.Add(time.Hour)))
	})
}
