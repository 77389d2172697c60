package models

type UserStatus string
type UserRole string
type PaymentRequestStatus string
type PaymentMethod string
type VehicleStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleCustomer UserRole = "customer"
	UserRoleSeller   UserRole = "seller"
	UserRoleAdmin    UserRole = "admin"

	PaymentStatusPending  PaymentRequestStatus = "pending"
	PaymentStatusApproved PaymentRequestStatus = "approved"
	PaymentStatusRejected PaymentRequestStatus = "rejected"

	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"

	VehicleStatusActive   VehicleStatus = "active"
	VehicleStatusSold     VehicleStatus = "sold"
	VehicleStatusArchived VehicleStatus = "archived"
)

// PaymentStatusFilterAll disables status filtering when listing requests.
const PaymentStatusFilterAll = "all"

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCustomer, UserRoleSeller, UserRoleAdmin:
		return true
	}
	return false
}

func (s PaymentRequestStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected:
		return true
	}
	return false
}

// IsTerminal is true once an admin has resolved the request.
func (s PaymentRequestStatus) IsTerminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusActive, VehicleStatusSold, VehicleStatusArchived:
		return true
	}
	return false
}
