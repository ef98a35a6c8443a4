package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classforge/enroll/internal/enroll/service"
	"github.com/classforge/enroll/pkg/enrollsdk"
)

func TestResendRejectedWhileActionInFlight(t *testing.T) {
	guard := service.NewActionGuard()
	require.True(t, guard.Begin("inv-1", "revoke"))
	defer guard.End("inv-1")

	// The guard rejects before the service is ever touched.
	h := &InvitationResendHandler{Guard: guard}

	req := httptest.NewRequest(http.MethodPost, "/v1/invitations/inv-1/resend", nil)
	req.SetPathValue("id", "inv-1")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp enrollsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "action_in_progress", resp.Error)
}

func TestWriteInvalidStateIncludesCurrentStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInvalidState(rec, fmt.Errorf("%w: status=expired", service.ErrInvitationNotPending))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp enrollsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_state", resp.Error)
	assert.Contains(t, resp.ErrorDescription, "expired")
}
