package email

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Dialer is the part of *gomail.Dialer the provider uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// GomailProvider sends mail through an SMTP server with gomail.
type GomailProvider struct {
	config   *SMTPConfig
	dialer   Dialer
	renderer TemplateRenderer
}

func NewGomailProvider(config *SMTPConfig, renderer TemplateRenderer) *GomailProvider {
	return &GomailProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}
}

// WithDialer swaps the SMTP dialer, mainly for tests.
func (p *GomailProvider) WithDialer(d Dialer) *GomailProvider {
	p.dialer = d
	return p
}

func (p *GomailProvider) Validate() error {
	if p.config == nil {
		return errors.New("email: smtp config is nil")
	}
	if p.config.Host == "" {
		return errors.New("email: smtp host is required")
	}
	if p.config.Port <= 0 {
		return errors.New("email: smtp port is required")
	}
	if p.config.FromEmail == "" {
		return errors.New("email: from address is required")
	}
	return nil
}

func (p *GomailProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return errors.New("email: no recipients")
	}

	m := p.buildMessage(email)
	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *GomailProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	if p.renderer == nil {
		return errors.New("email: template renderer is not configured")
	}

	html, err := p.renderer.Render(templateName, data)
	if err != nil {
		return err
	}

	return p.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: html,
	})
}

func (p *GomailProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = p.config.FromEmail
	}
	if p.config.FromName != "" && email.From == "" {
		m.SetAddressHeader("From", from, p.config.FromName)
	} else {
		m.SetHeader("From", from)
	}

	m.SetHeader("To", email.To...)
	if len(email.Cc) > 0 {
		m.SetHeader("Cc", email.Cc...)
	}
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}
	return m
}
