package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/classforge/enroll/internal/enroll/domain"
	"github.com/classforge/enroll/internal/enroll/metrics"
	"github.com/classforge/enroll/internal/enroll/store"
	"github.com/classforge/enroll/pkg/idx"
	"github.com/classforge/enroll/pkg/invitecode"
	"github.com/classforge/enroll/pkg/slogx"
)

var (
	ErrInvalidInvitee       = errors.New("invalid invitee details")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrInvitationNotPending = errors.New("invitation is not pending")
	ErrNotificationFailed   = errors.New("invitation notification failed")
	ErrCodeNotFound         = errors.New("invitation code not found")
)

// codeAttempts bounds the collision-check loop at mint time. With 40 bits of
// code entropy more than one retry is already extraordinary.
const codeAttempts = 5

const defaultNotifyTimeout = 5 * time.Second

// InvitationService owns the invitation lifecycle: creation, listing,
// resend, revoke, delete, redemption and the expired-invitation cleanup.
type InvitationService struct {
	Store    store.Store
	Notifier Notifier

	// NotifyTimeout bounds every Notifier call. Defaults to 5s.
	NotifyTimeout time.Duration

	// Now overrides the clock in tests. Defaults to time.Now in UTC.
	Now func() time.Time
}

type CreateInvitationInput struct {
	Name  string
	Email string
	Phone string
}

// CreateInvitation validates the invitee, mints a unique code and persists a
// new pending invitation scoped to the caller's organization. A notification
// delivery failure never rolls the invitation back: the invitation is
// returned alongside ErrNotificationFailed so callers can warn the admin.
func (s *InvitationService) CreateInvitation(
	ctx context.Context,
	orgID string,
	invitedBy string,
	in CreateInvitationInput,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate invitee details.
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return domain.Invitation{}, fmt.Errorf("%w: name is required", ErrInvalidInvitee)
	}
	if in.Email == "" {
		return domain.Invitation{}, fmt.Errorf("%w: email is required", ErrInvalidInvitee)
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return domain.Invitation{}, fmt.Errorf("%w: malformed email address", ErrInvalidInvitee)
	}

	// 2. Mint a code, collision-checked against live invitations. The unique
	// index on code backstops the races this check cannot see.
	code, err := s.mintCode(ctx)
	if err != nil {
		return domain.Invitation{}, err
	}

	now := s.now()
	inv := domain.Invitation{
		ID:        idx.New().String(),
		OrgID:     orgID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     strings.TrimSpace(in.Phone),
		Code:      code,
		Status:    domain.InvitationPending,
		InvitedBy: invitedBy,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.InvitationTTL),
	}

	// 3. Persist.
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, err
	}

	metrics.InvitationsCreated.Inc()
	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("org_id", orgID),
		slog.String("invited_by", invitedBy),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 4. Notify the invitee. A delivery failure never rolls the invitation
	// back: the caller gets the created invitation plus ErrNotificationFailed
	// as a warning, and can read the code off the response to share manually.
	if err := s.deliver(ctx, inv); err != nil {
		return inv, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return inv, nil
}

// ListInvitations returns every invitation in the organization, newest
// first. The slice is rebuilt on each call; no cursor state is retained.
func (s *InvitationService) ListInvitations(ctx context.Context, orgID string) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListInvitationsByOrg(ctx, orgID)
}

// GetInvitation fetches a single invitation within the caller's organization.
func (s *InvitationService) GetInvitation(ctx context.Context, orgID, id string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInvitationNotFound
		}
		return domain.Invitation{}, err
	}
	return inv, nil
}

// ResendInvitation re-delivers the original code under the original
// deadline. It never mutates the stored record: the code and expires_at the
// invitee receives are exactly those minted at creation.
func (s *InvitationService) ResendInvitation(ctx context.Context, orgID, id string) error {
	log := slogx.FromContext(ctx)

	inv, err := s.GetInvitation(ctx, orgID, id)
	if err != nil {
		return err
	}

	if eff := domain.EffectiveStatus(inv, s.now()); eff != domain.InvitationPending {
		log.Warn("resend attempted on non-pending invitation",
			slog.String("invitation_id", id),
			slog.String("status", string(eff)),
		)
		return fmt.Errorf("%w: status=%s", ErrInvitationNotPending, eff)
	}

	if err := s.deliver(ctx, inv); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	metrics.InvitationsResent.Inc()
	log.Info("invitation resent", slog.String("invitation_id", id))
	return nil
}

// RevokeInvitation cancels a pending invitation. The update is conditional
// on the stored status still being pending and unexpired, so two admin
// sessions racing a revoke against an accept cannot both win.
func (s *InvitationService) RevokeInvitation(ctx context.Context, orgID, id string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.Invitations().MarkCancelled(ctx, orgID, id, s.now())
	if err == nil {
		metrics.InvitationsRevoked.Inc()
		log.Info("invitation revoked", slog.String("invitation_id", id))
		return nil
	}
	if !errors.Is(err, store.ErrConflict) {
		log.Error("failed to revoke invitation",
			slog.String("invitation_id", id),
			slog.Any("error", err),
		)
		return err
	}

	// The conditional update missed: distinguish not-found from wrong-status.
	inv, err := s.GetInvitation(ctx, orgID, id)
	if err != nil {
		return err
	}
	eff := domain.EffectiveStatus(inv, s.now())
	log.Warn("revoke attempted on non-pending invitation",
		slog.String("invitation_id", id),
		slog.String("status", string(eff)),
	)
	return fmt.Errorf("%w: status=%s", ErrInvitationNotPending, eff)
}

// DeleteInvitation hard-removes an invitation in any status. Irreversible;
// the code becomes available for reuse by future invitations.
func (s *InvitationService) DeleteInvitation(ctx context.Context, orgID, id string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Invitations().DeleteInvitation(ctx, orgID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		log.Error("failed to delete invitation",
			slog.String("invitation_id", id),
			slog.Any("error", err),
		)
		return err
	}

	metrics.InvitationsDeleted.Inc()
	log.Info("invitation deleted", slog.String("invitation_id", id))
	return nil
}

// CleanupExpired bulk-removes every pending invitation in the organization
// whose deadline has passed. Naturally idempotent: an immediate second call
// finds nothing to remove and returns 0.
func (s *InvitationService) CleanupExpired(ctx context.Context, orgID string) (int64, error) {
	log := slogx.FromContext(ctx)

	removed, err := s.Store.Invitations().DeleteExpired(ctx, orgID, s.now())
	if err != nil {
		log.Error("cleanup sweep failed",
			slog.String("org_id", orgID),
			slog.Any("error", err),
		)
		return 0, err
	}

	if removed > 0 {
		metrics.CleanupRemoved.Add(float64(removed))
		log.Info("cleanup sweep removed expired invitations",
			slog.String("org_id", orgID),
			slog.Int64("removed", removed),
		)
	}
	return removed, nil
}

// RedeemInvitation marks an invitation accepted by its shareable code. This
// is the externally-triggered transition: the signup flow calls it once the
// prospective user submits their code. The accept is conditional on the
// invitation still being pending and unexpired, so a revoke or a cleanup
// sweep racing this call cannot be overwritten.
func (s *InvitationService) RedeemInvitation(ctx context.Context, rawCode string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	code := invitecode.Normalize(rawCode)
	if err := invitecode.Validate(code); err != nil {
		return domain.Invitation{}, ErrCodeNotFound
	}

	// Lookup and accept run in one transaction so a concurrent revoke or
	// sweep cannot slip between them.
	now := s.now()
	var inv domain.Invitation
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		inv, err = tx.Invitations().GetInvitationByCode(ctx, code)
		if err != nil {
			return err
		}
		return tx.Invitations().MarkAccepted(ctx, inv.ID, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Warn("redemption attempted with unknown code")
			return domain.Invitation{}, ErrCodeNotFound
		case errors.Is(err, store.ErrConflict):
			eff := domain.EffectiveStatus(inv, now)
			log.Warn("redemption attempted on non-pending invitation",
				slog.String("invitation_id", inv.ID),
				slog.String("status", string(eff)),
			)
			return domain.Invitation{}, fmt.Errorf("%w: status=%s", ErrInvitationNotPending, eff)
		default:
			log.Error("failed to mark invitation accepted",
				slog.Any("error", err),
			)
			return domain.Invitation{}, err
		}
	}

	inv.Status = domain.InvitationAccepted
	inv.AcceptedAt = &now

	metrics.InvitationsRedeemed.Inc()
	log.Info("invitation redeemed",
		slog.String("invitation_id", inv.ID),
		slog.String("org_id", inv.OrgID),
	)
	return inv, nil
}

func (s *InvitationService) mintCode(ctx context.Context) (string, error) {
	for range codeAttempts {
		code, err := invitecode.Generate()
		if err != nil {
			return "", err
		}
		inUse, err := s.Store.Invitations().CodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not mint a unique invitation code after %d attempts", codeAttempts)
}

// deliver sends the invitation notification with a bounded timeout. The
// payload always carries the code and deadline minted at creation.
func (s *InvitationService) deliver(ctx context.Context, inv domain.Invitation) error {
	log := slogx.FromContext(ctx)

	nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout())
	defer cancel()

	if err := s.Notifier.Send(nctx, notificationFor(inv)); err != nil {
		metrics.NotificationFailures.Inc()
		log.Warn("invitation notification delivery failed",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func (s *InvitationService) notifyTimeout() time.Duration {
	if s.NotifyTimeout > 0 {
		return s.NotifyTimeout
	}
	return defaultNotifyTimeout
}

func (s *InvitationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func notificationFor(inv domain.Invitation) Notification {
	return Notification{
		OrgID:     inv.OrgID,
		Email:     inv.Email,
		Name:      inv.Name,
		Code:      inv.Code,
		ExpiresAt: inv.ExpiresAt,
	}
}
