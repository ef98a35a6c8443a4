package enrollsdk

import "time"

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request",
	// "invalid_state", "action_in_progress")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// CreateInvitationRequest is the body for POST /v1/invitations.
type CreateInvitationRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Invitation is the wire representation of an invitation. Status is the
// effective status at response time, so a pending invitation past its
// deadline reads "expired" even though no sweep has removed it yet.
type Invitation struct {
	ID        string `json:"id"`
	OrgID     string `json:"org_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Code      string `json:"code"`
	Status    string `json:"status"`
	InvitedBy string `json:"invited_by"`

	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// CreateInvitationResponse is the body of a successful POST /v1/invitations.
// Warning is set when the invitation was created but the notification could
// not be delivered; the admin should share the code manually or resend.
type CreateInvitationResponse struct {
	Invitation
	Warning string `json:"warning,omitempty"`
}

// ListInvitationsResponse is the body of GET /v1/invitations.
type ListInvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
}

// ResendInvitationResponse reports the outcome of a resend. Warning is set
// when the invitation is intact but the notification could not be delivered.
type ResendInvitationResponse struct {
	Status  string `json:"status"` // "sent" or "undelivered"
	Warning string `json:"warning,omitempty"`
}

// CleanupResponse is the body of POST /v1/invitations/cleanup.
type CleanupResponse struct {
	Removed int64 `json:"removed"`
}

// RedeemRequest is the body for POST /v1/signup/redeem. The code is
// normalized server-side, so user-typed variants (lowercase, dashes) work.
type RedeemRequest struct {
	Code string `json:"code"`
}

// RedeemResponse is returned on a successful redemption; the signup flow
// uses OrgID to attach the new account to the inviting school.
type RedeemResponse struct {
	Invitation Invitation `json:"invitation"`
	OrgID      string     `json:"org_id"`
}

// RoutingDecision is the body of GET /v1/onboarding/route.
type RoutingDecision struct {
	Destination string            `json:"destination"`
	Category    string            `json:"category"`
	Params      map[string]string `json:"params"`
	Steps       []string          `json:"steps"`
}

// CodePromptResponse is the body of GET /v1/onboarding/code-prompt.
type CodePromptResponse struct {
	Prompt bool `json:"prompt"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of individual dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
