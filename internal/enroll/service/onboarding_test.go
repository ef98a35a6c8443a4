package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classforge/enroll/internal/enroll/domain"
)

func TestOnboardingRoute_SchoolAdmin(t *testing.T) {
	var svc OnboardingService

	d := svc.Route(OnboardingInput{Role: RoleSchoolAdmin, Plan: PlanEnterprise})

	assert.Equal(t, "/signup/school", d.Destination)
	assert.Equal(t, domain.OnboardingOrganizationCreation, d.Category)
	assert.Equal(t, map[string]string{
		"plan":         PlanEnterprise,
		"tier":         PlanEnterprise,
		"role":         RoleSchoolAdmin,
		"flow":         FlowSchoolCreation,
		"account_type": AccountTypeOrganization,
	}, d.Params)
	assert.Equal(t, []string{
		"registration_request",
		"approval_wait",
		"school_setup",
		"configuration",
		"invite_team",
	}, d.Steps)
}

func TestOnboardingRoute_SchoolAdminIgnoresCode(t *testing.T) {
	var svc OnboardingService

	d := svc.Route(OnboardingInput{Role: RoleSchoolAdmin, Plan: PlanPremium, HasInvitationCode: true})

	assert.Equal(t, "/signup/school", d.Destination,
		"admins create schools, an invitation code should not reroute them")
}

func TestOnboardingRoute_TeacherWithCode(t *testing.T) {
	var svc OnboardingService

	d := svc.Route(OnboardingInput{Role: RoleTeacher, Plan: PlanPremium, HasInvitationCode: true})

	assert.Equal(t, "/signup/redeem", d.Destination)
	assert.Equal(t, domain.OnboardingInstitutional, d.Category)
	assert.Equal(t, PlanPremium, d.Params["plan"], "a teacher's own plan survives redemption routing")
	assert.Equal(t, PlanPremium, d.Params["tier"])
	assert.Equal(t, RoleTeacher, d.Params["role"])
	assert.Equal(t, FlowCodeRedemption, d.Params["flow"])
	assert.Equal(t, AccountTypeEducator, d.Params["account_type"])
	assert.Contains(t, d.Steps, "school_integration")
}

func TestOnboardingRoute_TeacherWithoutCode(t *testing.T) {
	var svc OnboardingService

	d := svc.Route(OnboardingInput{Role: RoleTeacher, Plan: PlanPremium})

	assert.Equal(t, "/signup/teacher", d.Destination)
	assert.Equal(t, domain.OnboardingIndividual, d.Category)
	assert.Equal(t, FlowTeacherSignup, d.Params["flow"])
	assert.Equal(t, AccountTypeEducator, d.Params["account_type"])
	assert.Equal(t, []string{
		"account_creation",
		"profile_setup",
		"plan_selection",
		"payment",
		"feature_configuration",
	}, d.Steps)
}

func TestOnboardingRoute_StudentWithCodeOverridesPlan(t *testing.T) {
	var svc OnboardingService

	d := svc.Route(OnboardingInput{Role: RoleStudent, Plan: PlanPremium, HasInvitationCode: true})

	assert.Equal(t, "/signup/redeem", d.Destination)
	assert.Equal(t, domain.OnboardingInstitutional, d.Category)
	assert.Equal(t, PlanCoveredBySchool, d.Params["plan"],
		"an invited student's selected plan is overridden by school coverage")
	assert.Equal(t, PlanPremium, d.Params["tier"], "tier keeps the plan the student selected")
	assert.Equal(t, RoleStudent, d.Params["role"])
	assert.Equal(t, FlowCodeRedemption, d.Params["flow"])
	assert.Equal(t, AccountTypeLearner, d.Params["account_type"])
	assert.Equal(t, []string{
		"code_validation",
		"account_creation",
		"enrollment_confirmation",
		"preference_setup",
	}, d.Steps)
}

func TestOnboardingRoute_StudentWithoutCode(t *testing.T) {
	var svc OnboardingService

	d := svc.Route(OnboardingInput{Role: RoleStudent, Plan: PlanFamily})

	assert.Equal(t, "/signup/family", d.Destination)
	assert.Equal(t, PlanFamily, d.Params["plan"])
	assert.Equal(t, FlowFamilySignup, d.Params["flow"])
	assert.Equal(t, AccountTypeLearner, d.Params["account_type"])
	assert.Contains(t, d.Steps, "family_profile")
}

func TestOnboardingRoute_UnknownInputsDegradeGracefully(t *testing.T) {
	var svc OnboardingService

	d := svc.Route(OnboardingInput{Role: "superintendent", Plan: "platinum"})

	assert.Equal(t, "/signup", d.Destination)
	assert.Equal(t, domain.OnboardingIndividual, d.Category)
	assert.Equal(t, PlanFree, d.Params["plan"], "unknown plans degrade to free")
	assert.Equal(t, FlowGeneric, d.Params["flow"])
	assert.NotContains(t, d.Params, "account_type", "unknown roles provision no account type")
	assert.Empty(t, d.Steps)
}

func TestOnboardingRoute_Deterministic(t *testing.T) {
	var svc OnboardingService
	in := OnboardingInput{Role: RoleStudent, Plan: PlanPremium, HasInvitationCode: true}

	first := svc.Route(in)
	second := svc.Route(in)

	assert.Equal(t, first, second)

	// Mutating one decision must not leak into the next evaluation.
	first.Params["plan"] = "tampered"
	if len(first.Steps) > 0 {
		first.Steps[0] = "tampered"
	}
	third := svc.Route(in)
	assert.Equal(t, second, third)
}

func TestShouldPromptForInvitationCode(t *testing.T) {
	var svc OnboardingService

	assert.True(t, svc.ShouldPromptForInvitationCode(RoleTeacher, PlanPremium))
	assert.True(t, svc.ShouldPromptForInvitationCode(RoleStudent, PlanFree))
	assert.False(t, svc.ShouldPromptForInvitationCode(RoleSchoolAdmin, PlanEnterprise))
	assert.False(t, svc.ShouldPromptForInvitationCode("parent", PlanFamily))

	// Role-only resolution: the plan never flips the answer.
	for _, plan := range []string{PlanFree, PlanFamily, PlanPremium, PlanEnterprise, "platinum"} {
		assert.True(t, svc.ShouldPromptForInvitationCode(RoleTeacher, plan))
		assert.False(t, svc.ShouldPromptForInvitationCode(RoleSchoolAdmin, plan))
	}
}
