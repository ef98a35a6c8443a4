package http

import (
	"net/http"

	"github.com/classforge/enroll/internal/enroll/service"
	"github.com/classforge/enroll/pkg/enrollsdk"
	"github.com/classforge/enroll/pkg/httpx"
)

type OnboardingRouteHandler struct {
	OnboardingService *service.OnboardingService
}

// ServeHTTP godoc
//
//	@Summary		Onboarding Route
//	@Description	Decide which signup flow a prospective user should enter, given their role, selected plan,
//	@Description	and whether they hold an invitation code. Pure and deterministic; unknown roles and plans
//	@Description	fall back to the generic flow rather than failing.
//	@Tags			Onboarding
//	@Produce		json
//	@Param			role		query		string	false	"User role (school_admin, teacher, student)"
//	@Param			plan		query		string	false	"Selected plan (free, family, premium, enterprise)"
//	@Param			has_code	query		bool	false	"Whether the user holds an invitation code"
//	@Success		200			{object}	enrollsdk.RoutingDecision	"destination, category, params, steps"
//	@Router			/v1/onboarding/route [get].
func (h *OnboardingRouteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	d := h.OnboardingService.Route(service.OnboardingInput{
		Role:              q.Get("role"),
		Plan:              q.Get("plan"),
		HasInvitationCode: q.Get("has_code") == "true",
	})

	httpx.WriteJSON(w, http.StatusOK, enrollsdk.RoutingDecision{
		Destination: d.Destination,
		Category:    string(d.Category),
		Params:      d.Params,
		Steps:       d.Steps,
	})
}

type CodePromptHandler struct {
	OnboardingService *service.OnboardingService
}

// ServeHTTP godoc
//
//	@Summary		Invitation Code Prompt
//	@Description	Report whether the signup UI should offer an invitation code entry field for the given
//	@Description	role and plan.
//	@Tags			Onboarding
//	@Produce		json
//	@Param			role	query		string	false	"User role"
//	@Param			plan	query		string	false	"Selected plan"
//	@Success		200		{object}	enrollsdk.CodePromptResponse	"prompt"
//	@Router			/v1/onboarding/code-prompt [get].
func (h *CodePromptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prompt := h.OnboardingService.ShouldPromptForInvitationCode(q.Get("role"), q.Get("plan"))
	httpx.WriteJSON(w, http.StatusOK, enrollsdk.CodePromptResponse{Prompt: prompt})
}
