package service

import "github.com/classforge/enroll/internal/enroll/domain"

// Subscription plans recognised by the routing engine. Unknown plan strings
// degrade to the free tier rather than erroring, so a stale client with a
// plan the server has never heard of still gets a usable signup flow.
const (
	PlanFree       = "free"
	PlanFamily     = "family"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"

	// PlanCoveredBySchool is synthesised when a student arrives holding an
	// invitation code: their access is paid for by the inviting school, so
	// whatever plan they selected is overridden.
	PlanCoveredBySchool = "covered_by_school"
)

const (
	RoleSchoolAdmin = "school_admin"
	RoleTeacher     = "teacher"
	RoleStudent     = "student"
)

// Flow identifiers carried in the routing parameters so the client can tell
// which signup variant it landed on without parsing the destination path.
const (
	FlowSchoolCreation = "school_creation"
	FlowCodeRedemption = "code_redemption"
	FlowTeacherSignup  = "teacher_signup"
	FlowFamilySignup   = "family_signup"
	FlowGeneric        = "generic"
)

// Account types the chosen flow will provision.
const (
	AccountTypeOrganization = "organization"
	AccountTypeEducator     = "educator"
	AccountTypeLearner      = "learner"
)

// OnboardingInput is the answers a prospective user has given so far.
// HasInvitationCode means a code was presented, not that it was validated;
// validation happens at redemption.
type OnboardingInput struct {
	Role              string
	Plan              string
	HasInvitationCode bool
}

// OnboardingService decides where a prospective user goes next in signup.
// It is deliberately pure: no store, no clock, no side effects, so the same
// input always yields the same decision.
type OnboardingService struct{}

// Route evaluates the routing rules in order and returns the first match.
// It never fails; inputs outside the known vocabulary fall through to the
// generic signup destination. Every decision carries a flat parameter set:
// plan (effective), tier (the plan actually selected, normalized), role,
// flow, and account_type where the role is recognised.
func (s *OnboardingService) Route(in OnboardingInput) domain.RoutingDecision {
	plan := normalizePlan(in.Plan)

	switch {
	case in.Role == RoleSchoolAdmin:
		// School admins create the institution itself, regardless of plan or
		// any code they might be carrying.
		return decision("/signup/school", domain.OnboardingOrganizationCreation,
			routeParams{plan: plan, tier: plan, role: in.Role, flow: FlowSchoolCreation, accountType: AccountTypeOrganization},
			"registration_request",
			"approval_wait",
			"school_setup",
			"configuration",
			"invite_team",
		)

	case in.Role == RoleTeacher && in.HasInvitationCode:
		return decision("/signup/redeem", domain.OnboardingInstitutional,
			routeParams{plan: plan, tier: plan, role: in.Role, flow: FlowCodeRedemption, accountType: AccountTypeEducator},
			"code_validation",
			"account_creation",
			"profile_completion",
			"school_integration",
		)

	case in.Role == RoleTeacher:
		return decision("/signup/teacher", domain.OnboardingIndividual,
			routeParams{plan: plan, tier: plan, role: in.Role, flow: FlowTeacherSignup, accountType: AccountTypeEducator},
			"account_creation",
			"profile_setup",
			"plan_selection",
			"payment",
			"feature_configuration",
		)

	case in.Role == RoleStudent && in.HasInvitationCode:
		// The school covers an invited student; tier keeps the plan the
		// student originally selected.
		return decision("/signup/redeem", domain.OnboardingInstitutional,
			routeParams{plan: PlanCoveredBySchool, tier: plan, role: in.Role, flow: FlowCodeRedemption, accountType: AccountTypeLearner},
			"code_validation",
			"account_creation",
			"enrollment_confirmation",
			"preference_setup",
		)

	case in.Role == RoleStudent:
		return decision("/signup/family", domain.OnboardingIndividual,
			routeParams{plan: plan, tier: plan, role: in.Role, flow: FlowFamilySignup, accountType: AccountTypeLearner},
			"account_creation",
			"family_profile",
			"student_registration",
			"plan_selection",
			"preference_setup",
		)

	default:
		return decision("/signup", domain.OnboardingIndividual,
			routeParams{plan: plan, tier: plan, role: in.Role, flow: FlowGeneric})
	}
}

// ShouldPromptForInvitationCode reports whether the signup UI should offer a
// code entry field. Resolution is role-only today: invitable roles are
// prompted on any plan. The plan still travels in the signature so
// plan-sensitive rules can land without breaking callers.
func (s *OnboardingService) ShouldPromptForInvitationCode(role, plan string) bool {
	return role == RoleTeacher || role == RoleStudent
}

func normalizePlan(plan string) string {
	switch plan {
	case PlanFree, PlanFamily, PlanPremium, PlanEnterprise:
		return plan
	default:
		return PlanFree
	}
}

// routeParams is the flat parameter set attached to a RoutingDecision.
// Empty role and accountType are omitted from the map: an unrecognised role
// provisions no particular account type.
type routeParams struct {
	plan        string
	tier        string
	role        string
	flow        string
	accountType string
}

// decision builds a RoutingDecision with freshly allocated maps and slices
// so callers can never alias state between evaluations.
func decision(dest string, category domain.OnboardingCategory, p routeParams, steps ...string) domain.RoutingDecision {
	params := map[string]string{
		"plan": p.plan,
		"tier": p.tier,
		"flow": p.flow,
	}
	if p.role != "" {
		params["role"] = p.role
	}
	if p.accountType != "" {
		params["account_type"] = p.accountType
	}

	d := domain.RoutingDecision{
		Destination: dest,
		Category:    category,
		Params:      params,
		Steps:       make([]string, len(steps)),
	}
	copy(d.Steps, steps)
	return d
}
