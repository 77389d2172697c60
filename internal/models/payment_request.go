package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRequest is one seller plan-upgrade request. Rows are never deleted;
// the seller's current request is the most recent one.
type PaymentRequest struct {
	ID              string               `gorm:"type:uuid;primaryKey" json:"id"`
	SellerEmail     string               `gorm:"type:varchar(255);not null;index:idx_payment_requests_seller_requested,priority:1" json:"sellerEmail"`
	PlanID          PlanID               `gorm:"type:varchar(64);not null" json:"planId"`
	Amount          int64                `gorm:"not null" json:"amount"`
	Status          PaymentRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentProof    *string              `json:"paymentProof,omitempty"`
	PaymentMethod   *PaymentMethod       `gorm:"type:varchar(20)" json:"paymentMethod,omitempty"`
	TransactionID   *string              `gorm:"type:varchar(255)" json:"transactionId,omitempty"`
	RequestedAt     time.Time            `gorm:"not null;index:idx_payment_requests_seller_requested,priority:2" json:"requestedAt"`
	ResolvedAt      *time.Time           `json:"resolvedAt,omitempty"`
	ResolvedBy      *string              `gorm:"type:varchar(255)" json:"resolvedBy,omitempty"`
	RejectionReason *string              `json:"rejectionReason,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	UpdatedAt       time.Time            `json:"updatedAt"`

	Seller *User `gorm:"foreignKey:SellerEmail;references:Email;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (r *PaymentRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RequestedAt.IsZero() {
		r.RequestedAt = time.Now().UTC()
	}
	return nil
}

func (r *PaymentRequest) IsPending() bool {
	return r.Status == PaymentStatusPending
}

// SubmitPaymentRequest is the seller's upgrade request body.
type SubmitPaymentRequest struct {
	SellerEmail   string        `json:"sellerEmail" validate:"required,email"`
	PlanID        PlanID        `json:"planId" validate:"required,is-plan-id"`
	Amount        *int64        `json:"amount" validate:"required"`
	PaymentProof  string        `json:"paymentProof" validate:"omitempty,max=2048"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"omitempty,is-payment-method"`
	TransactionID string        `json:"transactionId" validate:"omitempty,max=255"`
}

type ApprovePaymentRequest struct {
	PaymentRequestID string `json:"paymentRequestId" validate:"required"`
	AdminEmail       string `json:"adminEmail" validate:"required,email"`
	Notes            string `json:"notes" validate:"omitempty,max=1000"`
}

type RejectPaymentRequest struct {
	PaymentRequestID string `json:"paymentRequestId" validate:"required"`
	AdminEmail       string `json:"adminEmail" validate:"required,email"`
	RejectionReason  string `json:"rejectionReason" validate:"omitempty,max=1000"`
}

// PaymentRequestSummary is the admin list projection.
type PaymentRequestSummary struct {
	PaymentRequest
	SellerName string `json:"sellerName"`
	PlanName   string `json:"planName,omitempty"`
}

// PaymentResolution describes the state change applied to a pending request.
type PaymentResolution struct {
	RequestID       string
	Status          PaymentRequestStatus
	AdminEmail      string
	ResolvedAt      time.Time
	Notes           *string
	RejectionReason *string
}

// EntitlementGrant is applied to the seller in the same transaction as an approval.
type EntitlementGrant struct {
	SellerEmail     string
	PlanID          PlanID
	FeaturedCredits int
}
