package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classforge/enroll/internal/enroll/domain"
	"github.com/classforge/enroll/internal/enroll/store"
	"github.com/classforge/enroll/internal/enroll/store/drivers/sqlite"
	"github.com/classforge/enroll/pkg/invitecode"
)

// fakeNotifier records deliveries and can be primed to fail.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) deliveries() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.sent))
	copy(out, f.sent)
	return out
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*InvitationService, *fakeNotifier, *testClock) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	notifier := &fakeNotifier{}
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}

	svc := &InvitationService{
		Store:         st,
		Notifier:      notifier,
		NotifyTimeout: time.Second,
		Now:           clock.Now,
	}
	return svc, notifier, clock
}

func mustCreate(t *testing.T, svc *InvitationService, orgID string) domain.Invitation {
	t.Helper()
	inv, err := svc.CreateInvitation(context.Background(), orgID, "admin-1", CreateInvitationInput{
		Name:  "Jamie Nguyen",
		Email: "jamie@example.com",
		Phone: "+61 400 000 000",
	})
	require.NoError(t, err)
	return inv
}

func TestCreateInvitation(t *testing.T) {
	svc, notifier, clock := newTestService(t)

	inv := mustCreate(t, svc, "org-1")

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, "org-1", inv.OrgID)
	assert.Equal(t, domain.InvitationPending, inv.Status)
	assert.Equal(t, clock.Now(), inv.CreatedAt)
	assert.Equal(t, clock.Now().Add(domain.InvitationTTL), inv.ExpiresAt)
	assert.NoError(t, invitecode.Validate(inv.Code))

	require.Len(t, notifier.deliveries(), 1)
	sent := notifier.deliveries()[0]
	assert.Equal(t, inv.Code, sent.Code)
	assert.Equal(t, "jamie@example.com", sent.Email)
	assert.Equal(t, inv.ExpiresAt, sent.ExpiresAt)
}

func TestCreateInvitation_RejectsInvalidInvitee(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInvitationInput
	}{
		{"empty name", CreateInvitationInput{Name: "  ", Email: "a@example.com"}},
		{"empty email", CreateInvitationInput{Name: "A", Email: ""}},
		{"malformed email", CreateInvitationInput{Name: "A", Email: "not-an-email"}},
		{"email with display name", CreateInvitationInput{Name: "A", Email: "A <a@example.com>"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateInvitation(ctx, "org-1", "admin-1", tc.input)
			assert.ErrorIs(t, err, ErrInvalidInvitee)
		})
	}
}

func TestCreateInvitation_NotificationFailureDoesNotRollBack(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	notifier.err = errors.New("smtp relay down")

	inv, err := svc.CreateInvitation(context.Background(), "org-1", "admin-1", CreateInvitationInput{
		Name:  "Jamie Nguyen",
		Email: "jamie@example.com",
	})
	assert.ErrorIs(t, err, ErrNotificationFailed)
	require.NotEmpty(t, inv.ID, "the created invitation is returned alongside the warning")

	// The invitation must still be readable even though delivery failed.
	got, gerr := svc.GetInvitation(context.Background(), "org-1", inv.ID)
	require.NoError(t, gerr)
	assert.Equal(t, domain.InvitationPending, got.Status)
	assert.Equal(t, inv.Code, got.Code)
}

func TestCreateInvitation_CodesAreUnique(t *testing.T) {
	svc, _, _ := newTestService(t)

	seen := make(map[string]bool)
	for range 20 {
		inv := mustCreate(t, svc, "org-1")
		assert.False(t, seen[inv.Code], "code %s minted twice", inv.Code)
		seen[inv.Code] = true
	}
}

func TestListInvitations_ScopedAndNewestFirst(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	first := mustCreate(t, svc, "org-1")
	clock.Advance(time.Minute)
	second := mustCreate(t, svc, "org-1")
	mustCreate(t, svc, "org-2")

	got, err := svc.ListInvitations(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestResendInvitation_DeliversOriginalCodeAndDeadline(t *testing.T) {
	svc, notifier, clock := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")

	clock.Advance(48 * time.Hour)
	require.NoError(t, svc.ResendInvitation(ctx, "org-1", inv.ID))

	require.Len(t, notifier.deliveries(), 2)
	resent := notifier.deliveries()[1]
	assert.Equal(t, inv.Code, resent.Code)
	assert.Equal(t, inv.ExpiresAt, resent.ExpiresAt, "resend must not extend the deadline")

	// The stored record is untouched.
	got, err := svc.GetInvitation(ctx, "org-1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ExpiresAt, got.ExpiresAt)
	assert.Equal(t, inv.Code, got.Code)
}

func TestResendInvitation_RejectsExpired(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")
	clock.Advance(domain.InvitationTTL + time.Hour)

	err := svc.ResendInvitation(ctx, "org-1", inv.ID)
	assert.ErrorIs(t, err, ErrInvitationNotPending)
	assert.Contains(t, err.Error(), string(domain.InvitationExpired))
}

func TestResendInvitation_NotificationFailure(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")
	notifier.err = errors.New("smtp relay down")

	err := svc.ResendInvitation(ctx, "org-1", inv.ID)
	assert.ErrorIs(t, err, ErrNotificationFailed)

	// Delivery failure must not mutate the invitation.
	got, gerr := svc.GetInvitation(ctx, "org-1", inv.ID)
	require.NoError(t, gerr)
	assert.Equal(t, domain.InvitationPending, got.Status)
}

func TestRevokeInvitation(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")
	require.NoError(t, svc.RevokeInvitation(ctx, "org-1", inv.ID))

	got, err := svc.GetInvitation(ctx, "org-1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.Equal(t, clock.Now(), *got.CancelledAt)
	assert.Nil(t, got.AcceptedAt)

	// A revoked code can no longer be redeemed.
	_, err = svc.RedeemInvitation(ctx, inv.Code)
	assert.ErrorIs(t, err, ErrInvitationNotPending)
}

func TestRevokeInvitation_NotPending(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")
	require.NoError(t, svc.RevokeInvitation(ctx, "org-1", inv.ID))

	err := svc.RevokeInvitation(ctx, "org-1", inv.ID)
	assert.ErrorIs(t, err, ErrInvitationNotPending)
	assert.Contains(t, err.Error(), string(domain.InvitationCancelled))
}

func TestRevokeInvitation_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.RevokeInvitation(context.Background(), "org-1", "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestRevokeInvitation_WrongOrg(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")

	err := svc.RevokeInvitation(ctx, "org-2", inv.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound, "invitations must be invisible outside their organization")
}

func TestDeleteInvitation_AnyStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pending := mustCreate(t, svc, "org-1")
	accepted := mustCreate(t, svc, "org-1")
	_, err := svc.RedeemInvitation(ctx, accepted.Code)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInvitation(ctx, "org-1", pending.ID))
	require.NoError(t, svc.DeleteInvitation(ctx, "org-1", accepted.ID))

	_, err = svc.GetInvitation(ctx, "org-1", pending.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	err = svc.DeleteInvitation(ctx, "org-1", pending.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestDeleteInvitation_FreesCodeForReuse(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")
	require.NoError(t, svc.DeleteInvitation(ctx, "org-1", inv.ID))

	// The deleted code is no longer considered in use.
	inUse, err := svc.Store.Invitations().CodeInUse(ctx, inv.Code)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestCleanupExpired(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	stale := mustCreate(t, svc, "org-1")
	accepted := mustCreate(t, svc, "org-1")
	_, err := svc.RedeemInvitation(ctx, accepted.Code)
	require.NoError(t, err)
	otherOrg := mustCreate(t, svc, "org-2")

	clock.Advance(domain.InvitationTTL + time.Hour)
	fresh := mustCreate(t, svc, "org-1")

	removed, err := svc.CleanupExpired(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed, "only the stale pending invitation should be removed")

	_, err = svc.GetInvitation(ctx, "org-1", stale.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	// Accepted, fresh, and other-org invitations survive.
	_, err = svc.GetInvitation(ctx, "org-1", accepted.ID)
	assert.NoError(t, err)
	_, err = svc.GetInvitation(ctx, "org-1", fresh.ID)
	assert.NoError(t, err)
	_, err = svc.GetInvitation(ctx, "org-2", otherOrg.ID)
	assert.NoError(t, err)

	// Idempotent: an immediate second sweep removes nothing.
	removed, err = svc.CleanupExpired(ctx, "org-1")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRedeemInvitation(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")

	got, err := svc.RedeemInvitation(ctx, inv.Code)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, domain.InvitationAccepted, got.Status)
	require.NotNil(t, got.AcceptedAt)
	assert.Equal(t, clock.Now(), *got.AcceptedAt)

	// Single use: a second redemption of the same code conflicts.
	_, err = svc.RedeemInvitation(ctx, inv.Code)
	assert.ErrorIs(t, err, ErrInvitationNotPending)
}

func TestRedeemInvitation_NormalizesCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")

	// Lowercase with a separator still resolves to the same code.
	messy := strings.ToLower(inv.Code[:4] + "-" + inv.Code[4:])
	got, err := svc.RedeemInvitation(ctx, "  "+messy+" ")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
}

func TestRedeemInvitation_UnknownOrMalformedCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RedeemInvitation(ctx, "ZZZZZZZZ")
	assert.ErrorIs(t, err, ErrCodeNotFound)

	_, err = svc.RedeemInvitation(ctx, "nope")
	assert.ErrorIs(t, err, ErrCodeNotFound, "malformed codes look identical to unknown ones")
}

func TestRedeemInvitation_Expired(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")
	clock.Advance(domain.InvitationTTL + time.Minute)

	_, err := svc.RedeemInvitation(ctx, inv.Code)
	assert.ErrorIs(t, err, ErrInvitationNotPending)
	assert.Contains(t, err.Error(), string(domain.InvitationExpired))
}

func TestStatusTimestampsMutuallyExclusive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	inv := mustCreate(t, svc, "org-1")
	accepted, err := svc.RedeemInvitation(ctx, inv.Code)
	require.NoError(t, err)

	assert.NotNil(t, accepted.AcceptedAt)
	assert.Nil(t, accepted.CancelledAt)

	other := mustCreate(t, svc, "org-1")
	require.NoError(t, svc.RevokeInvitation(ctx, "org-1", other.ID))
	got, err := svc.GetInvitation(ctx, "org-1", other.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AcceptedAt)
	assert.NotNil(t, got.CancelledAt)
}

func TestHousekeepingSweep_AllOrgs(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "org-1")
	mustCreate(t, svc, "org-2")
	clock.Advance(domain.InvitationTTL + time.Hour)
	survivor := mustCreate(t, svc, "org-3")

	removed, err := svc.Store.Invitations().SweepExpired(ctx, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = svc.GetInvitation(ctx, "org-3", survivor.ID)
	assert.NoError(t, err)
}

var _ store.Store = (*sqlite.Store)(nil)
