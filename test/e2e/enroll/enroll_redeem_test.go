package enroll_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classforge/enroll/pkg/enrollsdk"
)

func TestRedeemInvitation(t *testing.T) {
	baseURL, _ := setupServer(t)
	admin := adminClient(t, baseURL, "school-1")
	public := publicClient(baseURL)

	inv, err := admin.CreateInvitation(t.Context(), enrollsdk.CreateInvitationRequest{
		Name:  "Priya Sharma",
		Email: "priya@example.com",
	})
	require.NoError(t, err)

	// Redeem with a user-typed variant of the code.
	typed := strings.ToLower(inv.Code[:4] + "-" + inv.Code[4:])
	resp, err := public.RedeemInvitation(t.Context(), typed)
	require.NoError(t, err)
	assert.Equal(t, "school-1", resp.OrgID)
	assert.Equal(t, inv.ID, resp.Invitation.ID)
	assert.Equal(t, "accepted", resp.Invitation.Status)
	require.NotNil(t, resp.Invitation.AcceptedAt)

	// The admin sees the accepted state.
	invs, err := admin.ListInvitations(t.Context())
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.Equal(t, "accepted", invs[0].Status)
}

func TestRedeemInvitationSingleUse(t *testing.T) {
	baseURL, _ := setupServer(t)
	admin := adminClient(t, baseURL, "school-1")
	public := publicClient(baseURL)

	inv, err := admin.CreateInvitation(t.Context(), enrollsdk.CreateInvitationRequest{
		Name:  "Priya Sharma",
		Email: "priya@example.com",
	})
	require.NoError(t, err)

	_, err = public.RedeemInvitation(t.Context(), inv.Code)
	require.NoError(t, err)

	_, err = public.RedeemInvitation(t.Context(), inv.Code)
	apiErr := &enrollsdk.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, enrollsdk.ErrorCodeInvalidState, apiErr.Code)
}

func TestRedeemUnknownCode(t *testing.T) {
	baseURL, _ := setupServer(t)
	public := publicClient(baseURL)

	_, err := public.RedeemInvitation(t.Context(), "ZZZZZZZZ")
	apiErr := &enrollsdk.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, enrollsdk.ErrorCodeNotFound, apiErr.Code)
}

func TestRedeemRevokedCode(t *testing.T) {
	baseURL, _ := setupServer(t)
	admin := adminClient(t, baseURL, "school-1")
	public := publicClient(baseURL)

	inv, err := admin.CreateInvitation(t.Context(), enrollsdk.CreateInvitationRequest{
		Name:  "Priya Sharma",
		Email: "priya@example.com",
	})
	require.NoError(t, err)

	_, err = admin.RevokeInvitation(t.Context(), inv.ID)
	require.NoError(t, err)

	_, err = public.RedeemInvitation(t.Context(), inv.Code)
	apiErr := &enrollsdk.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Description, "cancelled")
}
