// Package forms holds the field validation, sanitization and plan
// resolution used by the lead submission endpoint.
package forms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/privatecounsel/leadsite/configs"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CleanFields is a validated, HTML-escaped view of the submitted form.
type CleanFields struct {
	Name       string
	Email      string
	Phone      string
	Focus      string
	Referrer   string
	PlanID     string
	LegacyPlan string
}

// Validate enforces the site's required-field policy and the email
// shape, then escapes every free-text value so it is safe to
// interpolate into generated HTML. The honeypot check happens before
// this is called.
func Validate(values map[string]string, form configs.FormConfig) (CleanFields, error) {
	for _, field := range form.RequiredFields {
		if strings.TrimSpace(values[field]) == "" {
			return CleanFields{}, &ValidationError{Field: field, Message: "is required"}
		}
	}

	email := strings.TrimSpace(values["email"])
	if email != "" && !emailPattern.MatchString(email) {
		return CleanFields{}, &ValidationError{Field: "email", Message: "is not a valid address"}
	}

	// older form revisions used support_type instead of focus
	focus := values["focus"]
	if focus == "" {
		focus = values["support_type"]
	}
	if focus == "" {
		focus = form.DefaultFocus
	}

	// and selected_plan (a display label) instead of plan_id
	planID := strings.TrimSpace(values["plan_id"])
	legacyPlan := strings.TrimSpace(values["selected_plan"])

	clean := CleanFields{
		Name:       EscapeHTML(strings.TrimSpace(values["name"])),
		Email:      EscapeHTML(email),
		Phone:      EscapeHTML(strings.TrimSpace(values["phone"])),
		Focus:      EscapeHTML(strings.TrimSpace(focus)),
		Referrer:   EscapeHTML(strings.TrimSpace(values["referrer"])),
		PlanID:     planID,
		LegacyPlan: legacyPlan,
	}

	return clean, nil
}

// EscapeHTML neutralizes markup in free-text fields before they are
// embedded in the notification email body.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
