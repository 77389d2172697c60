package app

import (
	"automarket_backend/internal/email"
	"automarket_backend/internal/logger"
)

// MockEmailProvider используется для тестов и локальной разработки:
// письма только пишутся в лог.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error {
	logger.Info("email (not sent)", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	logger.Info("email (not sent)", "to", to, "subject", subject, "template", templateName)
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }
