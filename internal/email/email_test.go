package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func testConfig() *SMTPConfig {
	return &SMTPConfig{Host: "smtp.test", Port: 587, FromEmail: "noreply@automarket.test", FromName: "AutoMarket"}
}

func TestTemplateManager_RenderPaymentTemplates(t *testing.T) {
	tm := NewDefaultTemplateManager()

	html, err := tm.Render(TemplatePaymentApproved, TemplateData{
		"SellerName":      "Sam",
		"PlanName":        "Pro",
		"FeaturedCredits": 5,
		"RequestID":       "req-1",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Sam")
	assert.Contains(t, html, "5 featured credits")

	html, err = tm.Render(TemplatePaymentRejected, TemplateData{
		"SellerName": "<b>Sam</b>",
		"PlanName":   "Pro",
		"Reason":     "invalid proof",
		"RequestID":  "req-2",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "invalid proof")
	assert.NotContains(t, html, "<b>Sam</b>")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestGomailProvider_SendTemplate(t *testing.T) {
	dialer := &recordingDialer{}
	p := NewGomailProvider(testConfig(), NewDefaultTemplateManager()).WithDialer(dialer)

	err := p.SendTemplate([]string{"s@x.com"}, "Approved", TemplatePaymentApproved, TemplateData{
		"SellerName": "Sam", "PlanName": "Pro", "RequestID": "r",
	})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"s@x.com"}, dialer.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Approved"}, dialer.sent[0].GetHeader("Subject"))
}

func TestGomailProvider_Errors(t *testing.T) {
	dialer := &recordingDialer{err: errors.New("connection refused")}
	p := NewGomailProvider(testConfig(), nil).WithDialer(dialer)

	assert.Error(t, p.Send(&Email{To: []string{"s@x.com"}, Body: "hi"}))
	assert.Error(t, p.Send(&Email{Body: "no recipients"}))
	assert.Error(t, p.SendTemplate([]string{"s@x.com"}, "x", TemplatePaymentApproved, nil))

	invalid := NewGomailProvider(&SMTPConfig{}, nil)
	assert.Error(t, invalid.Validate())
}
