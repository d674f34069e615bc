package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/privatecounsel/leadsite/forms"
	"github.com/privatecounsel/leadsite/structs"
)

// submitLead runs the submission pipeline: rate limit, honeypot,
// validate, plan resolve, durable log, archive, notify, respond.
// The lead is logged before the notification is attempted so it is
// never lost to a send failure.
func (api *APIV1) submitLead(w http.ResponseWriter, r *http.Request) {
	clientIP := remoteIP(r)

	if !api.limiter.Allow(clientIP) {
		api.log.WithField("ip", clientIP).Warn("submission rate limited")
		writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
		return
	}

	values, err := decodeFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if hp := values[api.siteConfig.Form.HoneypotField]; hp != "" {
		api.handleBot(w, r, values, clientIP, hp)
		return
	}

	clean, err := forms.Validate(values, api.siteConfig.Form)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := forms.ResolvePlan(clean.PlanID, clean.LegacyPlan, api.siteConfig.Plans, api.siteConfig.LegacyPlanRules)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown plan: %s", clean.PlanID))
		return
	}

	sub := structs.Submission{
		ID:        forms.NewSubmissionID(),
		Name:      clean.Name,
		Email:     clean.Email,
		Phone:     clean.Phone,
		PlanID:    plan.ID,
		PlanName:  plan.DisplayName,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Focus:     clean.Focus,
		Referrer:  clean.Referrer,
		ClientIP:  clientIP,
		Timestamp: time.Now().UTC(),
	}

	// durable record first
	logErr := api.logbook.Append("leads", sub)
	if logErr != nil {
		api.log.WithError(logErr).WithField("submission_id", sub.ID).Error("failed to write lead log")
	}

	// archive database is best effort and never changes the response
	if api.archive != nil && api.archive.Connected {
		if err := api.archive.InsertLead(sub); err != nil {
			api.log.WithError(err).WithField("submission_id", sub.ID).Warn("failed to archive lead")
		}
	}

	_, sendErr := api.mailer.SendLeadNotification(api.siteConfig, sub)
	if sendErr != nil {
		api.log.WithError(sendErr).WithField("submission_id", sub.ID).Error("failed to send lead notification")
	} else if api.siteConfig.Form.AutoReply {
		if _, err := api.mailer.SendAutoReply(api.siteConfig, sub); err != nil {
			api.log.WithError(err).WithField("submission_id", sub.ID).Warn("failed to send auto reply")
		}
	}

	redirectURL := api.redirectURL(plan, sub.ID)

	switch {
	case logErr == nil && sendErr == nil:
		writeJSON(w, http.StatusCreated, SubmitResponse{
			Status:       "success",
			SubmissionID: sub.ID,
			RedirectURL:  redirectURL,
		})
	case logErr == nil && sendErr != nil:
		writeJSON(w, http.StatusAccepted, SubmitResponse{
			Status:       "warning",
			Message:      "Submission recorded, notification delivery is delayed",
			SubmissionID: sub.ID,
			RedirectURL:  redirectURL,
		})
	case logErr != nil && sendErr == nil:
		writeJSON(w, http.StatusAccepted, SubmitResponse{
			Status:       "warning",
			Message:      "Submission received, durable record is delayed",
			SubmissionID: sub.ID,
			RedirectURL:  redirectURL,
		})
	default:
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

// handleBot answers a honeypot hit with a payload shaped exactly like
// a normal success, without validating, recording a lead or sending
// mail. Only the bot activity log sees it.
func (api *APIV1) handleBot(w http.ResponseWriter, r *http.Request, values map[string]string, clientIP, value string) {
	sighting := structs.BotSighting{
		Field:     api.siteConfig.Form.HoneypotField,
		Value:     value,
		ClientIP:  clientIP,
		UserAgent: r.UserAgent(),
		Timestamp: time.Now().UTC(),
	}
	if err := api.logbook.Append("bots", sighting); err != nil {
		api.log.WithError(err).Warn("failed to write bot log")
	}
	api.log.WithFields(logrus.Fields{
		"ip":    clientIP,
		"field": sighting.Field,
	}).Info("honeypot triggered")

	decoyID := forms.NewSubmissionID()
	redirectURL := ""
	if plan, err := forms.ResolvePlan(
		strings.TrimSpace(values["plan_id"]),
		strings.TrimSpace(values["selected_plan"]),
		api.siteConfig.Plans,
		api.siteConfig.LegacyPlanRules,
	); err == nil {
		redirectURL = api.redirectURL(plan, decoyID)
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Status:       "success",
		SubmissionID: decoyID,
		RedirectURL:  redirectURL,
	})
}

// redirectURL builds the payment link for paid plans, carrying the
// submission id as the memo so payments can be reconciled.
func (api *APIV1) redirectURL(plan structs.Plan, submissionID string) string {
	if !plan.Paid() || api.siteConfig.Payment.LinkBase == "" {
		return ""
	}
	base := strings.TrimSuffix(api.siteConfig.Payment.LinkBase, "/")
	return fmt.Sprintf("%s/%d%s?memo=%s", base, plan.Price, plan.Currency, submissionID)
}

// decodeFields flattens the JSON body into string fields. Numbers are
// kept so a numeric phone value still validates.
func decodeFields(r *http.Request) (map[string]string, error) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(payload))
	for key, raw := range payload {
		switch v := raw.(type) {
		case string:
			values[key] = v
		case float64:
			values[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			values[key] = strconv.FormatBool(v)
		}
	}
	return values, nil
}

func remoteIP(r *http.Request) string {
	// middleware.RealIP has already folded X-Forwarded-For into
	// RemoteAddr when present
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
