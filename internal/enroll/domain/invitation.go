package domain

import "time"

// InvitationTTL is the fixed validity window for every invitation. It is set
// once at creation and never extended, not even by a resend.
const InvitationTTL = 7 * 24 * time.Hour

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"

	// InvitationExpired is an effective status only: the stored status stays
	// "pending" after expires_at passes until a cleanup sweep removes the row.
	InvitationExpired InvitationStatus = "expired"
)

type Invitation struct {
	ID        string
	OrgID     string
	Name      string
	Email     string
	Phone     string // optional, free-form
	Code      string // unique shareable code, fixed for the invitation's lifetime
	Status    InvitationStatus
	InvitedBy string

	CreatedAt   time.Time
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	CancelledAt *time.Time
}

// EffectiveStatus is the invitation's real-world validity at the given time.
// Every operation that gates on "pending" must use this rather than the
// stored status field, which can lag behind the expiry deadline.
func EffectiveStatus(inv Invitation, now time.Time) InvitationStatus {
	if inv.Status == InvitationPending && now.After(inv.ExpiresAt) {
		return InvitationExpired
	}
	return inv.Status
}
