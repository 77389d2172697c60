package services

import (
	"context"
	"fmt"

	"automarket_backend/internal/email"
	"automarket_backend/internal/logger"
	"automarket_backend/internal/models"
)

// PaymentNotifier tells sellers how their upgrade request was resolved.
type PaymentNotifier interface {
	PaymentApproved(ctx context.Context, seller *models.User, req *models.PaymentRequest, plan *models.Plan) error
	PaymentRejected(ctx context.Context, seller *models.User, req *models.PaymentRequest, plan *models.Plan) error
}

type emailPaymentNotifier struct {
	provider email.Provider
}

func NewEmailPaymentNotifier(provider email.Provider) PaymentNotifier {
	return &emailPaymentNotifier{provider: provider}
}

func (n *emailPaymentNotifier) PaymentApproved(ctx context.Context, seller *models.User, req *models.PaymentRequest, plan *models.Plan) error {
	data := email.TemplateData{
		"SellerName":      seller.DisplayName(),
		"PlanName":        plan.Name,
		"FeaturedCredits": plan.FeaturedCredits,
		"RequestID":       req.ID,
		"Notes":           deref(req.Notes),
	}
	subject := fmt.Sprintf("Your %s plan is active", plan.Name)

	logger.CtxDebug(ctx, "sending payment approval email", "to", seller.Email, "request_id", req.ID)
	return n.provider.SendTemplate([]string{seller.Email}, subject, email.TemplatePaymentApproved, data)
}

func (n *emailPaymentNotifier) PaymentRejected(ctx context.Context, seller *models.User, req *models.PaymentRequest, plan *models.Plan) error {
	data := email.TemplateData{
		"SellerName": seller.DisplayName(),
		"PlanName":   plan.Name,
		"Reason":     deref(req.RejectionReason),
		"RequestID":  req.ID,
	}
	subject := fmt.Sprintf("Your %s plan request was not approved", plan.Name)

	logger.CtxDebug(ctx, "sending payment rejection email", "to", seller.Email, "request_id", req.ID)
	return n.provider.SendTemplate([]string{seller.Email}, subject, email.TemplatePaymentRejected, data)
}
