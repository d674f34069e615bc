package email

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/sirupsen/logrus"

	"github.com/privatecounsel/leadsite/configs"
)

type EmailMessage struct {
	To          []string
	FromAddress string
	FromName    string
	ReplyTo     string
	Subject     string
	HTMLBody    string
	TextBody    string
}

// Provider delivers a message through one transactional email backend
// and returns the provider-side message id.
type Provider interface {
	Send(msg EmailMessage) (string, error)
}

type Service struct {
	provider  Provider
	envConfig *configs.EnvironmentConfig
	log       *logrus.Logger
}

// NewService creates the email service for the configured provider.
func NewService(envConfig *configs.EnvironmentConfig, log *logrus.Logger) (*Service, error) {
	var provider Provider
	var err error

	switch envConfig.Email.Provider {
	case "ses":
		provider, err = newSESProvider(envConfig)
	case "resend":
		provider, err = newResendProvider(envConfig)
	case "smtp":
		provider, err = newSMTPProvider(envConfig)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", envConfig.Email.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &Service{
		provider:  provider,
		envConfig: envConfig,
		log:       log,
	}, nil
}

// SendEmail sends an email via the configured provider.
func (e *Service) SendEmail(msg EmailMessage) (string, error) {
	return e.provider.Send(msg)
}

// sesProvider sends through AWS SES.
type sesProvider struct {
	sesClient *ses.SES
}

func newSESProvider(envConfig *configs.EnvironmentConfig) (*sesProvider, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(envConfig.Email.SES.Region),
		Credentials: credentials.NewStaticCredentials(
			envConfig.Email.SES.AccessKeyID,
			envConfig.Email.SES.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}

	return &sesProvider{sesClient: ses.New(sess)}, nil
}

func (p *sesProvider) Send(msg EmailMessage) (string, error) {
	from := msg.FromAddress
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.FromAddress)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &ses.Destination{
			ToAddresses: aws.StringSlice(msg.To),
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Data: aws.String(msg.Subject),
			},
			Body: &ses.Body{},
		},
	}

	if msg.HTMLBody != "" {
		input.Message.Body.Html = &ses.Content{
			Data: aws.String(msg.HTMLBody),
		}
	}

	if msg.TextBody != "" {
		input.Message.Body.Text = &ses.Content{
			Data: aws.String(msg.TextBody),
		}
	}

	if msg.ReplyTo != "" {
		input.ReplyToAddresses = aws.StringSlice([]string{msg.ReplyTo})
	}

	result, err := p.sesClient.SendEmail(input)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %v", err)
	}

	return aws.StringValue(result.MessageId), nil
}
