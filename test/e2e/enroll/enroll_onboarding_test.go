package enroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingRouting(t *testing.T) {
	baseURL, _ := setupServer(t)
	public := publicClient(baseURL)

	cases := []struct {
		name        string
		role        string
		plan        string
		hasCode     bool
		destination string
		category    string
		wantPlan    string
		wantFlow    string
	}{
		{
			name:        "school admin creates the organization",
			role:        "school_admin",
			plan:        "enterprise",
			destination: "/signup/school",
			category:    "organization_creation",
			wantPlan:    "enterprise",
			wantFlow:    "school_creation",
		},
		{
			name:        "invited teacher goes to redemption",
			role:        "teacher",
			plan:        "premium",
			hasCode:     true,
			destination: "/signup/redeem",
			category:    "institutional",
			wantPlan:    "premium",
			wantFlow:    "code_redemption",
		},
		{
			name:        "invited student is covered by the school",
			role:        "student",
			plan:        "premium",
			hasCode:     true,
			destination: "/signup/redeem",
			category:    "institutional",
			wantPlan:    "covered_by_school",
			wantFlow:    "code_redemption",
		},
		{
			name:        "independent student signs up as a family",
			role:        "student",
			plan:        "family",
			destination: "/signup/family",
			category:    "individual",
			wantPlan:    "family",
			wantFlow:    "family_signup",
		},
		{
			name:        "unknown role falls back to generic signup",
			role:        "librarian",
			plan:        "platinum",
			destination: "/signup",
			category:    "individual",
			wantPlan:    "free",
			wantFlow:    "generic",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := public.Route(t.Context(), tc.role, tc.plan, tc.hasCode)
			require.NoError(t, err)
			assert.Equal(t, tc.destination, d.Destination)
			assert.Equal(t, tc.category, d.Category)
			assert.Equal(t, tc.wantPlan, d.Params["plan"])
			assert.Equal(t, tc.wantFlow, d.Params["flow"])
		})
	}
}

func TestOnboardingCodePrompt(t *testing.T) {
	baseURL, _ := setupServer(t)
	public := publicClient(baseURL)

	for role, want := range map[string]bool{
		"teacher":      true,
		"student":      true,
		"school_admin": false,
		"parent":       false,
	} {
		prompt, err := public.ShouldPromptForCode(t.Context(), role, "premium")
		require.NoError(t, err)
		assert.Equal(t, want, prompt, "role %s", role)
	}
}
