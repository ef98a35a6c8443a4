package service

import (
	"context"
	"time"
)

// Notification is the payload handed to the delivery channel when an
// invitation is created or resent. ExpiresAt is always the invitation's
// original deadline; a resend never extends it, and the message copy should
// render the real date rather than "expires in 7 days".
type Notification struct {
	OrgID     string
	Email     string
	Name      string
	Code      string
	ExpiresAt time.Time
}

// Notifier delivers an invitation notification. Implementations live in the
// notify package; delivery failure is never fatal to the invitation itself.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
