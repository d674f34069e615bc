package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/structs"
)

func testSite() *configs.WebsiteConfig {
	site := &configs.WebsiteConfig{SiteName: "Private Counsel"}
	site.Email.FromAddress = "onboarding@privatecounsel.example"
	site.Email.FromName = "Private Counsel"
	site.Email.Operator = "operator@privatecounsel.example"
	return site
}

func paidSubmission() structs.Submission {
	return structs.Submission{
		ID:        "AB12CD34",
		Name:      "Ada",
		Email:     "ada@example.com",
		PlanID:    "continuous",
		PlanName:  "Continuous Counsel ($710)",
		Amount:    710,
		Currency:  "USD",
		Focus:     "Contracts",
		Referrer:  "newsletter",
		ClientIP:  "1.2.3.4",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLeadNotificationPaidSubject(t *testing.T) {
	msg, err := BuildLeadNotification(testSite(), "operator@privatecounsel.example", paidSubmission())
	require.NoError(t, err)

	assert.Equal(t, "[PAYMENT PENDING] New Lead: Ada", msg.Subject)
	assert.Equal(t, []string{"operator@privatecounsel.example"}, msg.To)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Contains(t, msg.HTMLBody, "PAYMENT PENDING")
	assert.Contains(t, msg.HTMLBody, "$710")
}

func TestLeadNotificationFreeSubject(t *testing.T) {
	sub := paidSubmission()
	sub.PlanID = "free"
	sub.PlanName = "Initial Dialogue (Free)"
	sub.Amount = 0

	msg, err := BuildLeadNotification(testSite(), "operator@privatecounsel.example", sub)
	require.NoError(t, err)

	assert.Equal(t, "[FREE] New Lead: Ada", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "FREE CONSULTATION")
	assert.NotContains(t, msg.HTMLBody, "PAYMENT PENDING")
}

func TestLeadNotificationBodyFields(t *testing.T) {
	msg, err := BuildLeadNotification(testSite(), "operator@privatecounsel.example", paidSubmission())
	require.NoError(t, err)

	for _, want := range []string{"AB12CD34", "Ada", "ada@example.com", "Continuous Counsel ($710)", "Contracts", "newsletter"} {
		assert.Contains(t, msg.HTMLBody, want)
		assert.Contains(t, msg.TextBody, want)
	}
}

func TestLeadNotificationReferrerFallsBackToDirect(t *testing.T) {
	sub := paidSubmission()
	sub.Referrer = ""

	msg, err := BuildLeadNotification(testSite(), "operator@privatecounsel.example", sub)
	require.NoError(t, err)
	assert.Contains(t, msg.HTMLBody, "Direct")
}

func TestLeadNotificationKeepsEscapedFields(t *testing.T) {
	sub := paidSubmission()
	sub.Name = "&lt;script&gt;alert(1)&lt;/script&gt;"

	msg, err := BuildLeadNotification(testSite(), "operator@privatecounsel.example", sub)
	require.NoError(t, err)
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
	assert.NotContains(t, msg.HTMLBody, "<script>alert")
}

func TestAutoReply(t *testing.T) {
	msg, err := BuildAutoReply(testSite(), paidSubmission())
	require.NoError(t, err)

	assert.Equal(t, []string{"ada@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "AB12CD34")
	assert.Contains(t, msg.HTMLBody, "Private Counsel")
	assert.Contains(t, msg.HTMLBody, "$710")
	assert.NotEmpty(t, msg.TextBody)
}
