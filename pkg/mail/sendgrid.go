package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"internship-tracker/backend/config"
)

const (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// SendGrid plain-text mail sender
type SendGrid struct {
	key  string
	from *sgmail.Email
}

// NewSendGrid returns nil when no API key is configured
func NewSendGrid(cfg *config.MailConfig) *SendGrid {
	if cfg.SendGridKey == "" {
		return nil
	}
	return &SendGrid{
		key:  cfg.SendGridKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

// Send one personalization per recipient so addresses are not disclosed to each other
func (s *SendGrid) Send(ctx context.Context, to []string, subject, body string) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = subject
	for _, addr := range to {
		p := sgmail.NewPersonalization()
		p.AddTos(sgmail.NewEmail("", addr))
		m.AddPersonalizations(p)
	}
	m.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
