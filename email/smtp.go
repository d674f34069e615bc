package email

import (
	"fmt"
	"net/smtp"

	"github.com/privatecounsel/leadsite/configs"
)

// smtpProvider sends through a plain SMTP relay. Mostly useful for
// local development against a capture server like mailpit.
type smtpProvider struct {
	Server   string
	Port     int
	Username string
	Password string
}

func newSMTPProvider(envConfig *configs.EnvironmentConfig) (*smtpProvider, error) {
	if envConfig.Email.SMTP.Server == "" {
		return nil, fmt.Errorf("smtp provider requires a server")
	}
	return &smtpProvider{
		Server:   envConfig.Email.SMTP.Server,
		Port:     envConfig.Email.SMTP.Port,
		Username: envConfig.Email.SMTP.Username,
		Password: envConfig.Email.SMTP.Password,
	}, nil
}

func (p *smtpProvider) Send(msg EmailMessage) (string, error) {
	headers := make(map[string]string)

	if msg.FromName != "" {
		headers["From"] = fmt.Sprintf("%s <%s>", msg.FromName, msg.FromAddress)
	} else {
		headers["From"] = msg.FromAddress
	}
	headers["To"] = msg.To[0]
	headers["Subject"] = msg.Subject
	headers["MIME-Version"] = "1.0"
	if msg.ReplyTo != "" {
		headers["Reply-To"] = msg.ReplyTo
	}

	var body string
	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := "boundary-leadsite-alt"
		headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=\"%s\"", boundary)

		body = fmt.Sprintf("--%s\r\n", boundary)
		body += "Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n"
		body += msg.TextBody + "\r\n\r\n"
		body += fmt.Sprintf("--%s\r\n", boundary)
		body += "Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n"
		body += msg.HTMLBody + "\r\n\r\n"
		body += fmt.Sprintf("--%s--", boundary)
	} else if msg.HTMLBody != "" {
		headers["Content-Type"] = "text/html; charset=\"UTF-8\""
		body = msg.HTMLBody
	} else {
		headers["Content-Type"] = "text/plain; charset=\"UTF-8\""
		body = msg.TextBody
	}

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	addr := fmt.Sprintf("%s:%d", p.Server, p.Port)

	var auth smtp.Auth
	if p.Username != "" {
		auth = smtp.PlainAuth("", p.Username, p.Password, p.Server)
	}

	err := smtp.SendMail(addr, auth, msg.FromAddress, msg.To, []byte(message))
	if err != nil {
		return "", fmt.Errorf("failed to send email: %v", err)
	}

	// SMTP has no message id to report
	return "", nil
}
