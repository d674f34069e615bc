package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/privatecounsel/leadsite/configs"
)

const resendBaseURL = "https://api.resend.com"

// resendProvider sends through the Resend transactional email API.
type resendProvider struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func newResendProvider(envConfig *configs.EnvironmentConfig) (*resendProvider, error) {
	if envConfig.Email.Resend.APIKey == "" {
		return nil, fmt.Errorf("resend provider requires an API key")
	}
	return &resendProvider{
		APIKey:  envConfig.Email.Resend.APIKey,
		BaseURL: resendBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type resendEmailResponse struct {
	ID string `json:"id"`
}

func (p *resendProvider) Send(msg EmailMessage) (string, error) {
	from := msg.FromAddress
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.FromAddress)
	}

	payload := resendEmailRequest{
		From:    from,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		Text:    msg.TextBody,
	}

	var emailResp resendEmailResponse
	if err := p.doRequest("POST", "/emails", payload, &emailResp); err != nil {
		return "", err
	}

	return emailResp.ID, nil
}

// doRequest is a helper method to make HTTP requests to the Resend API
func (p *resendProvider) doRequest(method, endpoint string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(method, p.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errorResp)
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
