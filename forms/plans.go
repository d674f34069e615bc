package forms

import (
	"errors"
	"strings"

	"github.com/privatecounsel/leadsite/structs"
)

// ErrUnknownPlan is returned when a canonical plan id is supplied but
// not present in the site's plan table.
var ErrUnknownPlan = errors.New("unknown plan")

// ResolvePlan maps a submitted plan identifier to its canonical plan
// record. When no id was sent but an old free-text label was, the
// label is classified through the site's ordered legacy rules; the
// first matching rule wins and anything unmatched falls back to the
// free plan. Resolution is a pure lookup and therefore idempotent.
func ResolvePlan(planID, legacyLabel string, site []structs.Plan, rules []structs.LegacyPlanRule) (structs.Plan, error) {
	if planID == "" && legacyLabel != "" {
		planID = classifyLegacyLabel(legacyLabel, rules)
	}
	if planID == "" {
		planID = "free"
	}

	for _, plan := range site {
		if plan.ID == planID {
			return plan, nil
		}
	}
	return structs.Plan{}, ErrUnknownPlan
}

func classifyLegacyLabel(label string, rules []structs.LegacyPlanRule) string {
	lowered := strings.ToLower(label)
	for _, rule := range rules {
		if strings.Contains(lowered, strings.ToLower(rule.Contains)) {
			return rule.PlanID
		}
	}
	return "free"
}
