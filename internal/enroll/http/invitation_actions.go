package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/classforge/enroll/internal/enroll/service"
	"github.com/classforge/enroll/pkg/enrollsdk"
	"github.com/classforge/enroll/pkg/httpx"
	"github.com/classforge/enroll/pkg/slogx"
)

// writeActionInProgress is the shared 409 for the per-invitation action
// guard: a lifecycle action on this invitation is already running in this
// process, usually a double-submitted button.
func writeActionInProgress(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusConflict, enrollsdk.ErrorResponse{
		Error:            "action_in_progress",
		ErrorDescription: "Another action on this invitation is already in progress",
	})
}

// writeInvalidState maps ErrInvitationNotPending onto a 409 carrying the
// invitation's current (effective) status in the description.
func writeInvalidState(w http.ResponseWriter, err error) {
	desc := "Invitation is not pending"
	if _, status, found := strings.Cut(err.Error(), "status="); found {
		desc = "Invitation is not pending (current status: " + status + ")"
	}
	httpx.WriteJSON(w, http.StatusConflict, enrollsdk.ErrorResponse{
		Error:            "invalid_state",
		ErrorDescription: desc,
	})
}

func writeNotFound(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusNotFound, enrollsdk.ErrorResponse{
		Error:            "not_found",
		ErrorDescription: "Invitation not found",
	})
}

type InvitationResendHandler struct {
	InvitationService *service.InvitationService
	Guard             *service.ActionGuard
}

// ServeHTTP godoc
//
//	@Summary		Resend Invitation
//	@Description	Re-deliver a pending invitation's original code. The stored invitation is never modified:
//	@Description	the code and deadline the invitee receives are exactly those minted at creation. A delivery
//	@Description	failure returns 200 with a warning, since the invitation itself is intact.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string								true	"Invitation ID"
//	@Success		200	{object}	enrollsdk.ResendInvitationResponse	"status, warning"
//	@Failure		401	{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Failure		404	{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/resend [post].
func (h *InvitationResendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")

	if !h.Guard.Begin(id, "resend") {
		writeActionInProgress(w)
		return
	}
	defer h.Guard.End(id)

	err := h.InvitationService.ResendInvitation(ctx, httpx.OrgIDFromCtx(ctx), id)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, enrollsdk.ResendInvitationResponse{Status: "sent"})
	case errors.Is(err, service.ErrNotificationFailed):
		// The invitation is untouched; surface the delivery problem without
		// failing the request.
		httpx.WriteJSON(w, http.StatusOK, enrollsdk.ResendInvitationResponse{
			Status:  "undelivered",
			Warning: "Invitation is unchanged but the notification could not be delivered",
		})
	case errors.Is(err, service.ErrInvitationNotFound):
		writeNotFound(w)
	case errors.Is(err, service.ErrInvitationNotPending):
		writeInvalidState(w, err)
	default:
		log.Error("failed to resend invitation", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to resend invitation",
		})
	}
}

type InvitationRevokeHandler struct {
	InvitationService *service.InvitationService
	Guard             *service.ActionGuard
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invitation
//	@Description	Cancel a pending invitation. The record is kept for audit; its code can no longer be redeemed.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string					true	"Invitation ID"
//	@Success		200	{object}	enrollsdk.Invitation	"the cancelled invitation"
//	@Failure		401	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/revoke [post].
func (h *InvitationRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")
	orgID := httpx.OrgIDFromCtx(ctx)

	if !h.Guard.Begin(id, "revoke") {
		writeActionInProgress(w)
		return
	}
	defer h.Guard.End(id)

	err := h.InvitationService.RevokeInvitation(ctx, orgID, id)
	switch {
	case err == nil:
		inv, gerr := h.InvitationService.GetInvitation(ctx, orgID, id)
		if gerr != nil {
			log.Error("failed to read back revoked invitation", "err", gerr)
			httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to revoke invitation",
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, presentInvitation(inv, time.Now().UTC()))
	case errors.Is(err, service.ErrInvitationNotFound):
		writeNotFound(w)
	case errors.Is(err, service.ErrInvitationNotPending):
		writeInvalidState(w, err)
	default:
		log.Error("failed to revoke invitation", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to revoke invitation",
		})
	}
}

type InvitationDeleteHandler struct {
	InvitationService *service.InvitationService
	Guard             *service.ActionGuard
}

// ServeHTTP godoc
//
//	@Summary		Delete Invitation
//	@Description	Permanently remove an invitation in any status. Irreversible; the code becomes available
//	@Description	for future invitations.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204	"deleted"
//	@Failure		401	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id} [delete].
func (h *InvitationDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")

	if !h.Guard.Begin(id, "delete") {
		writeActionInProgress(w)
		return
	}
	defer h.Guard.End(id)

	err := h.InvitationService.DeleteInvitation(ctx, httpx.OrgIDFromCtx(ctx), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, service.ErrInvitationNotFound):
		writeNotFound(w)
	default:
		log.Error("failed to delete invitation", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to delete invitation",
		})
	}
}

type InvitationCleanupHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Cleanup Expired Invitations
//	@Description	Remove every expired invitation in the caller's organization. Idempotent: a second
//	@Description	immediate call removes nothing and reports zero.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	enrollsdk.CleanupResponse	"removed"
//	@Failure		401	{object}	enrollsdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/cleanup [post].
func (h *InvitationCleanupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	removed, err := h.InvitationService.CleanupExpired(ctx, httpx.OrgIDFromCtx(ctx))
	if err != nil {
		log.Error("failed to clean up invitations", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to clean up invitations",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, enrollsdk.CleanupResponse{Removed: removed})
}
