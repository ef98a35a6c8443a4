package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/classforge/enroll/internal/enroll/domain"
	"github.com/classforge/enroll/internal/enroll/service"
	"github.com/classforge/enroll/pkg/enrollsdk"
	"github.com/classforge/enroll/pkg/httpx"
	"github.com/classforge/enroll/pkg/slogx"
)

// presentInvitation maps a stored invitation onto the wire type. Status is
// recomputed at response time so invitations past their deadline read
// "expired" even before a cleanup sweep removes them.
func presentInvitation(inv domain.Invitation, now time.Time) enrollsdk.Invitation {
	return enrollsdk.Invitation{
		ID:          inv.ID,
		OrgID:       inv.OrgID,
		Name:        inv.Name,
		Email:       inv.Email,
		Phone:       inv.Phone,
		Code:        inv.Code,
		Status:      string(domain.EffectiveStatus(inv, now)),
		InvitedBy:   inv.InvitedBy,
		CreatedAt:   inv.CreatedAt,
		ExpiresAt:   inv.ExpiresAt,
		AcceptedAt:  inv.AcceptedAt,
		CancelledAt: inv.CancelledAt,
	}
}

type InvitationCreateHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Create Invitation
//	@Description	Create a pending invitation in the caller's organization. A unique shareable code is minted
//	@Description	and the invitee is notified; a delivery failure does not fail the request, it sets a warning
//	@Description	so the admin knows to share the code manually.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		enrollsdk.CreateInvitationRequest	true	"Invitee details"
//	@Success		201		{object}	enrollsdk.CreateInvitationResponse	"the created invitation, optional warning"
//	@Failure		400		{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Failure		401		{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, enrollsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	orgID := httpx.OrgIDFromCtx(ctx)
	userID := httpx.UserIDFromCtx(ctx)

	inv, err := h.InvitationService.CreateInvitation(ctx, orgID, userID, service.CreateInvitationInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	resp := enrollsdk.CreateInvitationResponse{}
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotificationFailed):
		// The invitation exists; only delivery fell over.
		resp.Warning = "Invitation created but the notification could not be delivered"
	case errors.Is(err, service.ErrInvalidInvitee):
		httpx.WriteJSON(w, http.StatusBadRequest, enrollsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: err.Error(),
		})
		return
	default:
		log.Error("failed to create invitation", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to create invitation",
		})
		return
	}

	resp.Invitation = presentInvitation(inv, time.Now().UTC())
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

type InvitationListHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		List Invitations
//	@Description	List every invitation in the caller's organization, newest first. Statuses are effective
//	@Description	at response time, so past-deadline invitations read "expired".
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	enrollsdk.ListInvitationsResponse	"invitations"
//	@Failure		401	{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [get].
func (h *InvitationListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	invs, err := h.InvitationService.ListInvitations(ctx, httpx.OrgIDFromCtx(ctx))
	if err != nil {
		log.Error("failed to list invitations", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list invitations",
		})
		return
	}

	now := time.Now().UTC()
	resp := enrollsdk.ListInvitationsResponse{
		Invitations: make([]enrollsdk.Invitation, 0, len(invs)),
	}
	for _, inv := range invs {
		resp.Invitations = append(resp.Invitations, presentInvitation(inv, now))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
