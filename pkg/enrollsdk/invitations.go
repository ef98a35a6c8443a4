package enrollsdk

import (
	"context"
	"net/http"
)

// CreateInvitation creates a new pending invitation in the caller's
// organization. Check the response's Warning field: the invitation may have
// been created even though its notification could not be delivered.
// Requires the invites:write scope.
func (c *Client) CreateInvitation(ctx context.Context, req CreateInvitationRequest) (*CreateInvitationResponse, error) {
	var resp CreateInvitationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invitations", req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListInvitations lists every invitation in the caller's organization,
// newest first. Requires the invites:read scope.
func (c *Client) ListInvitations(ctx context.Context) ([]Invitation, error) {
	var resp ListInvitationsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/invitations", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Invitations, nil
}

// ResendInvitation re-delivers a pending invitation's code. The returned
// response carries a warning when delivery failed; the invitation itself is
// never modified. Requires the invites:write scope.
func (c *Client) ResendInvitation(ctx context.Context, id string) (*ResendInvitationResponse, error) {
	var resp ResendInvitationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invitations/"+id+"/resend", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevokeInvitation cancels a pending invitation. Requires the invites:write
// scope.
func (c *Client) RevokeInvitation(ctx context.Context, id string) (*Invitation, error) {
	var inv Invitation
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invitations/"+id+"/revoke", nil, &inv, http.StatusOK); err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvitation permanently removes an invitation in any status.
// Requires the invites:write scope.
func (c *Client) DeleteInvitation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/invitations/"+id, nil, nil, http.StatusNoContent)
}

// CleanupInvitations removes every expired invitation in the caller's
// organization and reports how many were removed. Requires the
// invites:write scope.
func (c *Client) CleanupInvitations(ctx context.Context) (*CleanupResponse, error) {
	var resp CleanupResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invitations/cleanup", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RedeemInvitation accepts an invitation by its shareable code. Public
// endpoint; no token required.
func (c *Client) RedeemInvitation(ctx context.Context, code string) (*RedeemResponse, error) {
	var resp RedeemResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/signup/redeem", RedeemRequest{Code: code}, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}
