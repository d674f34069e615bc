package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/leadlog"
	"github.com/privatecounsel/leadsite/ratelimit"
	"github.com/privatecounsel/leadsite/structs"
)

type fakeNotifier struct {
	sent        []structs.Submission
	autoReplies []structs.Submission
	sendErr     error
}

func (f *fakeNotifier) SendLeadNotification(siteConfig *configs.WebsiteConfig, sub structs.Submission) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, sub)
	return "msg-1", nil
}

func (f *fakeNotifier) SendAutoReply(siteConfig *configs.WebsiteConfig, sub structs.Submission) (string, error) {
	f.autoReplies = append(f.autoReplies, sub)
	return "msg-2", nil
}

type testHarness struct {
	api      *APIV1
	router   http.Handler
	notifier *fakeNotifier
	logbook  *leadlog.Writer
	logDir   string
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	site := &configs.WebsiteConfig{SiteName: "test.example"}
	site.Form = configs.FormConfig{
		RequiredFields: []string{"name", "email"},
		HoneypotField:  "company",
		DefaultFocus:   "General",
	}
	site.Plans = []structs.Plan{
		{ID: "free", DisplayName: "Initial Dialogue (Free)", Price: 0, Currency: "USD"},
		{ID: "continuous", DisplayName: "Continuous Counsel ($710)", Price: 710, Currency: "USD"},
	}
	site.LegacyPlanRules = []structs.LegacyPlanRule{
		{Contains: "710", PlanID: "continuous"},
		{Contains: "continuous", PlanID: "continuous"},
	}
	site.Payment.LinkBase = "https://paypal.me/privatecounsel"
	site.Email.Operator = "operator@test.example"

	env := &configs.EnvironmentConfig{}

	logDir := t.TempDir()
	logbook, err := leadlog.NewWriter(logDir)
	require.NoError(t, err)

	notifier := &fakeNotifier{}

	log := logrus.New()
	log.SetOutput(io.Discard)

	a := NewAPIV1(env, site, ratelimit.New(time.Minute, 100), logbook, notifier, nil, log)

	return &testHarness{
		api:      a,
		router:   a.APIRouter(site.SiteName),
		notifier: notifier,
		logbook:  logbook,
		logDir:   logDir,
	}
}

func (h *testHarness) post(t *testing.T, path string, body map[string]interface{}) (*httptest.ResponseRecorder, SubmitResponse) {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func (h *testHarness) leadLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(h.logbook.FileName("leads"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestSubmitPaidPlan(t *testing.T) {
	h := newHarness(t)

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"name":    "Ada",
		"email":   "ada@example.com",
		"plan_id": "continuous",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Regexp(t, "^[0-9A-F]{8}$", resp.SubmissionID)
	assert.Contains(t, resp.RedirectURL, "710")
	assert.Contains(t, resp.RedirectURL, "memo="+resp.SubmissionID)

	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, 710, h.notifier.sent[0].Amount)

	lines := h.leadLines(t)
	require.Len(t, lines, 1)
	var logged structs.Submission
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &logged))
	assert.Equal(t, resp.SubmissionID, logged.ID)
}

func TestSubmitFreePlanHasNoRedirect(t *testing.T) {
	h := newHarness(t)

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"name":    "Ada",
		"email":   "ada@example.com",
		"plan_id": "free",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, resp.RedirectURL)
}

func TestSubmitLegacyPlanLabels(t *testing.T) {
	h := newHarness(t)

	_, resp := h.post(t, "/submit", map[string]interface{}{
		"name":          "Ada",
		"email":         "ada@example.com",
		"selected_plan": "Continuous Counsel ($710)",
	})
	assert.Contains(t, resp.RedirectURL, "710")

	_, resp = h.post(t, "/submit", map[string]interface{}{
		"name":          "Bob",
		"email":         "bob@example.com",
		"selected_plan": "Basic Chat",
	})
	assert.Empty(t, resp.RedirectURL)
}

func TestSubmitLegacyEndpointAlias(t *testing.T) {
	h := newHarness(t)

	rec, resp := h.post(t, "/submit-form", map[string]interface{}{
		"name":         "Ada",
		"email":        "ada@example.com",
		"support_type": "Contracts",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", resp.Status)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Contracts", h.notifier.sent[0].Focus)
}

func TestSubmitMissingFields(t *testing.T) {
	h := newHarness(t)

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "name")
	assert.Empty(t, h.leadLines(t))
	assert.Empty(t, h.notifier.sent)
}

func TestSubmitUnknownPlan(t *testing.T) {
	h := newHarness(t)

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"name":    "Ada",
		"email":   "ada@example.com",
		"plan_id": "platinum",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Empty(t, h.leadLines(t))
}

func TestSubmitHoneypot(t *testing.T) {
	h := newHarness(t)

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"name":    "Bot",
		"email":   "bot@example.com",
		"plan_id": "continuous",
		"company": "https://spam.example",
	})

	// success-shaped, indistinguishable from a real acceptance
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Regexp(t, "^[0-9A-F]{8}$", resp.SubmissionID)
	assert.Contains(t, resp.RedirectURL, "memo=")

	// but no lead record and no email
	assert.Empty(t, h.leadLines(t))
	assert.Empty(t, h.notifier.sent)

	// only the bot activity log sees it
	data, err := os.ReadFile(h.logbook.FileName("bots"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "spam.example")
}

func TestSubmitRateLimited(t *testing.T) {
	h := newHarness(t)
	h.api.limiter = ratelimit.New(time.Minute, 2)

	body := map[string]interface{}{"name": "Ada", "email": "ada@example.com"}

	rec, _ := h.post(t, "/submit", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = h.post(t, "/submit", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := h.post(t, "/submit", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "error", resp.Status)

	// the rejected attempt was neither logged nor emailed
	assert.Len(t, h.leadLines(t), 2)
	assert.Len(t, h.notifier.sent, 2)
}

func TestSubmitNotificationFailureDegradesToWarning(t *testing.T) {
	h := newHarness(t)
	h.notifier.sendErr = assert.AnError

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"name":    "Ada",
		"email":   "ada@example.com",
		"plan_id": "continuous",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "warning", resp.Status)
	assert.NotEmpty(t, resp.SubmissionID)
	// the lead itself is safe in the log
	assert.Len(t, h.leadLines(t), 1)
}

func TestSubmitLogFailureDegradesToWarning(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.RemoveAll(h.logDir))

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"name":  "Ada",
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "warning", resp.Status)
	// notification still went out so the lead is not lost
	assert.Len(t, h.notifier.sent, 1)
}

func TestSubmitBothLegsFailing(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.RemoveAll(h.logDir))
	h.notifier.sendErr = assert.AnError

	rec, resp := h.post(t, "/submit", map[string]interface{}{
		"name":  "Ada",
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestSubmitAutoReply(t *testing.T) {
	h := newHarness(t)
	h.api.siteConfig.Form.AutoReply = true

	_, resp := h.post(t, "/submit", map[string]interface{}{
		"name":  "Ada",
		"email": "ada@example.com",
	})

	assert.Equal(t, "success", resp.Status)
	require.Len(t, h.notifier.autoReplies, 1)
	assert.Equal(t, resp.SubmissionID, h.notifier.autoReplies[0].ID)
}

func TestGetPlans(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest("GET", "/plans", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var plans []structs.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	require.Len(t, plans, 2)
	assert.Equal(t, "continuous", plans[1].ID)
}
