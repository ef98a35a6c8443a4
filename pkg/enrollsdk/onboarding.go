package enrollsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Route asks the onboarding engine where a prospective signup should go
// next. Public endpoint; no token required.
func (c *Client) Route(ctx context.Context, role, plan string, hasInvitationCode bool) (*RoutingDecision, error) {
	q := url.Values{}
	q.Set("role", role)
	q.Set("plan", plan)
	q.Set("has_code", strconv.FormatBool(hasInvitationCode))

	var d RoutingDecision
	if err := c.doJSON(ctx, http.MethodGet, "/v1/onboarding/route?"+q.Encode(), nil, &d, http.StatusOK); err != nil {
		return nil, err
	}
	return &d, nil
}

// ShouldPromptForCode reports whether the signup UI should offer an
// invitation code entry field for the given role and plan. Public endpoint.
func (c *Client) ShouldPromptForCode(ctx context.Context, role, plan string) (bool, error) {
	q := url.Values{}
	q.Set("role", role)
	q.Set("plan", plan)

	var resp CodePromptResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/onboarding/code-prompt?"+q.Encode(), nil, &resp, http.StatusOK); err != nil {
		return false, err
	}
	return resp.Prompt, nil
}
