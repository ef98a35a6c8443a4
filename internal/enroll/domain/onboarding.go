package domain

type OnboardingCategory string

const (
	OnboardingInstitutional        OnboardingCategory = "institutional"
	OnboardingIndividual           OnboardingCategory = "individual"
	OnboardingOrganizationCreation OnboardingCategory = "organization_creation"
)

// RoutingDecision is the output of the onboarding engine: where to send a
// prospective signup and what they will be asked to complete there.
type RoutingDecision struct {
	Destination string             // signup flow path, e.g. "/signup/redeem"
	Category    OnboardingCategory
	Params      map[string]string // flat routing parameters (plan, tier, role, flow, account_type)
	Steps       []string          // ordered required steps for the chosen flow
}
