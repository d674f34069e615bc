package email

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/sirupsen/logrus"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/structs"
)

// Submission fields arrive here already HTML-escaped by the validator,
// so the bodies are built with text/template.

var leadNotificationTemplate = template.Must(
	template.New("leadNotification").Funcs(sprig.TxtFuncMap()).Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .banner { padding: 15px; margin-bottom: 20px; }
        .pending { background: #fff3cd; color: #856404; border: 1px solid #ffeeba; }
        .free { background: #d4edda; color: #155724; border: 1px solid #c3e6cb; }
        hr { border: none; border-top: 1px solid #ddd; }
    </style>
</head>
<body>
    <div class="container">
{{- if gt .Submission.Amount 0 }}
        <div class="banner pending">
            <strong>PAYMENT PENDING</strong><br>
            This order requires a payment of {{ "$" }}{{ .Submission.Amount }}.<br>
            Verify the payment arrived (memo {{ .Submission.ID }}) before contacting the client.
        </div>
{{- else }}
        <div class="banner free">
            <strong>FREE CONSULTATION</strong> - no payment required, follow up directly.
        </div>
{{- end }}
        <p><strong>Submission ID:</strong> {{ .Submission.ID }}</p>
        <p><strong>Name:</strong> {{ .Submission.Name }}</p>
        <p><strong>Email:</strong> {{ .Submission.Email }}</p>
{{- if .Submission.Phone }}
        <p><strong>Phone:</strong> {{ .Submission.Phone }}</p>
{{- end }}
        <p><strong>Referrer:</strong> {{ default "Direct" .Submission.Referrer }}</p>
        <hr>
        <p><strong>Plan:</strong> {{ .Submission.PlanName }}</p>
        <p><strong>Focus:</strong> {{ .Submission.Focus }}</p>
    </div>
</body>
</html>
`))

var autoReplyTemplate = template.Must(
	template.New("autoReply").Funcs(sprig.TxtFuncMap()).Parse(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
    <p>Hi {{ .Submission.Name }},</p>
    <p>Thank you for reaching out to {{ .SiteName }}. Your request has been received
    under reference <strong>{{ .Submission.ID }}</strong>.</p>
    <p>Selected plan: {{ .Submission.PlanName }}</p>
{{- if gt .Submission.Amount 0 }}
    <p>Your plan requires a payment of {{ "$" }}{{ .Submission.Amount }}. Please include
    your reference in the payment memo so we can match it to your request.</p>
{{- end }}
    <p>We usually reply within one business day.</p>
</body>
</html>
`))

type notificationData struct {
	SiteName   string
	Submission structs.Submission
}

// BuildLeadNotification renders the operator-facing email describing a
// submission. The subject encodes payment-pending vs. free-tier status
// and reply-to is set to the submitter so the operator can answer
// directly.
func BuildLeadNotification(siteConfig *configs.WebsiteConfig, operator string, sub structs.Submission) (EmailMessage, error) {
	subjectPrefix := "[FREE]"
	if sub.Amount > 0 {
		subjectPrefix = "[PAYMENT PENDING]"
	}

	var body bytes.Buffer
	err := leadNotificationTemplate.Execute(&body, notificationData{
		SiteName:   siteConfig.SiteName,
		Submission: sub,
	})
	if err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render lead notification: %v", err)
	}

	htmlBody := body.String()
	return EmailMessage{
		To:          []string{operator},
		FromAddress: siteConfig.Email.FromAddress,
		FromName:    siteConfig.Email.FromName,
		ReplyTo:     sub.Email,
		Subject:     fmt.Sprintf("%s New Lead: %s", subjectPrefix, sub.Name),
		HTMLBody:    htmlBody,
		TextBody:    structs.HTMLToText(htmlBody),
	}, nil
}

// BuildAutoReply renders the confirmation sent back to the submitter
// when the site has auto-reply enabled.
func BuildAutoReply(siteConfig *configs.WebsiteConfig, sub structs.Submission) (EmailMessage, error) {
	var body bytes.Buffer
	err := autoReplyTemplate.Execute(&body, notificationData{
		SiteName:   siteConfig.SiteName,
		Submission: sub,
	})
	if err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render auto reply: %v", err)
	}

	htmlBody := body.String()
	return EmailMessage{
		To:          []string{sub.Email},
		FromAddress: siteConfig.Email.FromAddress,
		FromName:    siteConfig.Email.FromName,
		Subject:     fmt.Sprintf("We received your request (%s)", sub.ID),
		HTMLBody:    htmlBody,
		TextBody:    structs.HTMLToText(htmlBody),
	}, nil
}

// SendLeadNotification formats and sends the operator notification for
// an accepted submission.
func (e *Service) SendLeadNotification(siteConfig *configs.WebsiteConfig, sub structs.Submission) (string, error) {
	operator := siteConfig.OperatorAddress(e.envConfig)
	if operator == "" {
		return "", fmt.Errorf("no operator address configured for site %s", siteConfig.SiteName)
	}

	msg, err := BuildLeadNotification(siteConfig, operator, sub)
	if err != nil {
		return "", err
	}

	messageID, err := e.SendEmail(msg)
	if err != nil {
		return "", err
	}

	e.log.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"message_id":    messageID,
	}).Info("lead notification sent")

	return messageID, nil
}

// SendAutoReply sends the submitter-facing confirmation.
func (e *Service) SendAutoReply(siteConfig *configs.WebsiteConfig, sub structs.Submission) (string, error) {
	msg, err := BuildAutoReply(siteConfig, sub)
	if err != nil {
		return "", err
	}
	return e.SendEmail(msg)
}
