package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privatecounsel/leadsite/structs"
)

var testPlans = []structs.Plan{
	{ID: "free", DisplayName: "Initial Dialogue (Free)", Price: 0, Currency: "USD"},
	{ID: "continuous", DisplayName: "Continuous Counsel ($710)", Price: 710, Currency: "USD"},
}

var testRules = []structs.LegacyPlanRule{
	{Contains: "710", PlanID: "continuous"},
	{Contains: "continuous", PlanID: "continuous"},
}

func TestResolveCanonicalPlan(t *testing.T) {
	plan, err := ResolvePlan("continuous", "", testPlans, testRules)
	require.NoError(t, err)
	assert.Equal(t, "Continuous Counsel ($710)", plan.DisplayName)
	assert.Equal(t, 710, plan.Price)
	assert.True(t, plan.Paid())

	plan, err = ResolvePlan("free", "", testPlans, testRules)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Price)
	assert.False(t, plan.Paid())
}

func TestResolveUnknownPlan(t *testing.T) {
	_, err := ResolvePlan("platinum", "", testPlans, testRules)
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestResolveLegacyLabels(t *testing.T) {
	cases := []struct {
		label  string
		planID string
		price  int
	}{
		{"Continuous Counsel ($710)", "continuous", 710},
		{"CONTINUOUS support", "continuous", 710},
		{"anything with 710 in it", "continuous", 710},
		{"Basic Chat", "free", 0},
		{"Initial Dialogue", "free", 0},
	}

	for _, tc := range cases {
		plan, err := ResolvePlan("", tc.label, testPlans, testRules)
		require.NoError(t, err, tc.label)
		assert.Equal(t, tc.planID, plan.ID, tc.label)
		assert.Equal(t, tc.price, plan.Price, tc.label)
	}
}

func TestResolveFirstRuleWins(t *testing.T) {
	// a label matching several rules takes the earliest one
	plan, err := ResolvePlan("", "free trial of Continuous Counsel ($710)", testPlans, testRules)
	require.NoError(t, err)
	assert.Equal(t, "continuous", plan.ID)
}

func TestResolveIsIdempotent(t *testing.T) {
	first, err := ResolvePlan("continuous", "", testPlans, testRules)
	require.NoError(t, err)
	second, err := ResolvePlan("continuous", "", testPlans, testRules)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveDefaultsToFree(t *testing.T) {
	plan, err := ResolvePlan("", "", testPlans, testRules)
	require.NoError(t, err)
	assert.Equal(t, "free", plan.ID)
}
