package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/classforge/enroll/internal/enroll/service"
	"github.com/classforge/enroll/pkg/enrollsdk"
	"github.com/classforge/enroll/pkg/httpx"
	"github.com/classforge/enroll/pkg/slogx"
)

type RedeemHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Redeem Invitation Code
//	@Description	Accept an invitation by its shareable code during signup. Codes are normalized before
//	@Description	lookup, so lowercase and dash-separated variants work. Single use: a code can only be
//	@Description	redeemed once, and only while the invitation is pending and unexpired.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		enrollsdk.RedeemRequest	true	"Invitation code"
//	@Success		200		{object}	enrollsdk.RedeemResponse	"invitation, org_id"
//	@Failure		400		{object}	enrollsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	enrollsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	enrollsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/signup/redeem [post].
func (h *RedeemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, enrollsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Code == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, enrollsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "code is required",
		})
		return
	}

	inv, err := h.InvitationService.RedeemInvitation(ctx, req.Code)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, enrollsdk.RedeemResponse{
			Invitation: presentInvitation(inv, time.Now().UTC()),
			OrgID:      inv.OrgID,
		})
	case errors.Is(err, service.ErrCodeNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, enrollsdk.ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "Invitation code not found",
		})
	case errors.Is(err, service.ErrInvitationNotPending):
		writeInvalidState(w, err)
	default:
		log.Error("failed to redeem invitation", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, enrollsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to redeem invitation",
		})
	}
}
