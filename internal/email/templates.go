package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Template names
const (
	TemplatePaymentApproved = "payment_approved"
	TemplatePaymentRejected = "payment_rejected"
)

const paymentApprovedTemplate = `<p>Hello {{.SellerName}},</p>
<p>Your upgrade to the <strong>{{.PlanName}}</strong> plan has been approved.</p>
{{if .FeaturedCredits}}<p>{{.FeaturedCredits}} featured credits were added to your account.</p>{{end}}
{{if .Notes}}<p>Note from our team: {{.Notes}}</p>{{end}}
<p>Request ID: {{.RequestID}}</p>`

const paymentRejectedTemplate = `<p>Hello {{.SellerName}},</p>
<p>Your upgrade request for the <strong>{{.PlanName}}</strong> plan was not approved.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>You can submit a new request at any time. Request ID: {{.RequestID}}</p>`

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

// NewDefaultTemplateManager returns a manager with the payment templates loaded.
func NewDefaultTemplateManager() *TemplateManager {
	tm := NewTemplateManager()
	for name, body := range map[string]string{
		TemplatePaymentApproved: paymentApprovedTemplate,
		TemplatePaymentRejected: paymentRejectedTemplate,
	} {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
