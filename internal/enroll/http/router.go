package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/classforge/enroll/internal/enroll/metrics"
	"github.com/classforge/enroll/internal/enroll/service"
	"github.com/classforge/enroll/internal/enroll/store"
	"github.com/classforge/enroll/pkg/httpx"
	"github.com/classforge/enroll/pkg/jwtx"
	"github.com/classforge/enroll/pkg/slogx"

	_ "github.com/classforge/enroll/api/enroll" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Scopes enforced on the invitation management endpoints. Tokens are issued
// by the platform auth service; this service only verifies them.
const (
	ScopeInvitesRead  = "invites:read"
	ScopeInvitesWrite = "invites:write"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	guard             *service.ActionGuard
	InvitationService *service.InvitationService
	OnboardingService *service.OnboardingService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		guard:        service.NewActionGuard(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerSignup()
	r.registerOnboarding()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			ClassForge Enrollment Service API
//	@version		0.1.0
//	@description	Invitation lifecycle and onboarding routing for the ClassForge platform.
//	@description
//	@description				Schools invite teachers and students by shareable code; the onboarding
//	@description				engine routes prospective signups to the right flow for their role and plan.
//
//	@contact.name				ClassForge Team
//	@contact.url				https://github.com/classforge/enroll
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvitations() {
	createHandler := &InvitationCreateHandler{InvitationService: r.InvitationService}
	listHandler := &InvitationListHandler{InvitationService: r.InvitationService}
	resendHandler := &InvitationResendHandler{InvitationService: r.InvitationService, Guard: r.guard}
	revokeHandler := &InvitationRevokeHandler{InvitationService: r.InvitationService, Guard: r.guard}
	deleteHandler := &InvitationDeleteHandler{InvitationService: r.InvitationService, Guard: r.guard}
	cleanupHandler := &InvitationCleanupHandler{InvitationService: r.InvitationService}

	// POST /invitations - moderate rate limit by user (admin operation)
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(createHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeInvitesWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /invitations - lenient rate limit by user (dashboard listing)
	r.Mux.Handle("GET /v1/invitations",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeInvitesRead, ScopeInvitesWrite),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /invitations/{id}/resend - moderate rate limit (sends email)
	r.Mux.Handle("POST /v1/invitations/{id}/resend",
		httpx.Chain(resendHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeInvitesWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /invitations/{id}/revoke - moderate rate limit
	r.Mux.Handle("POST /v1/invitations/{id}/revoke",
		httpx.Chain(revokeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeInvitesWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// DELETE /invitations/{id} - moderate rate limit
	r.Mux.Handle("DELETE /v1/invitations/{id}",
		httpx.Chain(deleteHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeInvitesWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /invitations/cleanup - moderate rate limit (bulk operation)
	r.Mux.Handle("POST /v1/invitations/cleanup",
		httpx.Chain(cleanupHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeInvitesWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSignup() {
	redeemHandler := &RedeemHandler{InvitationService: r.InvitationService}

	// POST /signup/redeem - strict rate limit by IP (public, code guessing target)
	r.Mux.Handle("POST /v1/signup/redeem",
		httpx.Chain(redeemHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOnboarding() {
	routeHandler := &OnboardingRouteHandler{OnboardingService: r.OnboardingService}
	promptHandler := &CodePromptHandler{OnboardingService: r.OnboardingService}

	// Public read-only endpoints with a high limit
	r.Mux.Handle("GET /v1/onboarding/route",
		httpx.Chain(routeHandler,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/onboarding/code-prompt",
		httpx.Chain(promptHandler,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", metrics.Handler())
}
