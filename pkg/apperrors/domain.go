package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

func ErrNotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

func ErrConflict(domain, message string) *AppError {
	return New(CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

func ErrLimitExceeded(domain, message string) *AppError {
	return New(CodeLimitExceeded, domain, message, http.StatusConflict)
}

// =========================================================================
// Predefined errors
// =========================================================================

// ErrInsufficientPermissions - caller is not an admin where one is required.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Admin privileges required",
	http.StatusForbidden,
)

// --- Users ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrSellerNotFound = New(
	CodeNotFound,
	"user",
	"Seller not found",
	http.StatusNotFound,
)

var ErrAccountSuspended = New(
	CodeForbidden,
	"user",
	"Account is suspended",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeConflict,
	"user",
	"Email already in use",
	http.StatusConflict,
)

// --- Plans ---

var ErrPlanNotFound = New(
	CodeNotFound,
	"plan",
	"Plan not found",
	http.StatusNotFound,
)

var ErrPlanNameRequired = New(
	CodeValidationFailed,
	"plan",
	"Plan name is required",
	http.StatusBadRequest,
)

var ErrPlanIDRequired = New(
	CodeValidationFailed,
	"plan",
	"Plan ID is required",
	http.StatusBadRequest,
)

var ErrInvalidPlanID = New(
	CodeValidationFailed,
	"plan",
	"Plan ID may contain only lowercase letters, digits, '-' and '_'",
	http.StatusBadRequest,
)

// ErrBasePlanDelete - built-in plans live for the lifetime of the application.
var ErrBasePlanDelete = New(
	CodeConflict,
	"plan",
	"Cannot delete base plans",
	http.StatusConflict,
)

var ErrPlanLimitReached = New(
	CodeLimitExceeded,
	"plan",
	"Maximum number of plans reached",
	http.StatusConflict,
)

// --- Payment requests ---

var ErrPaymentRequestNotFound = New(
	CodeNotFound,
	"payment",
	"Payment request not found",
	http.StatusNotFound,
)

var ErrPendingRequestExists = New(
	CodeConflict,
	"payment",
	"A pending payment request already exists for this seller",
	http.StatusConflict,
)

var ErrRequestNotPending = New(
	CodeInvalidStatus,
	"payment",
	"Payment request has already been resolved",
	http.StatusConflict,
)

var ErrInvalidPaymentAmount = New(
	CodeValidationFailed,
	"payment",
	"Amount does not match the plan price",
	http.StatusBadRequest,
)

var ErrPlanNotBillable = New(
	CodeValidationFailed,
	"payment",
	"Plan is free and cannot be purchased",
	http.StatusBadRequest,
)

// --- Vehicles ---

var ErrVehicleNotFound = New(
	CodeNotFound,
	"vehicle",
	"Vehicle not found",
	http.StatusNotFound,
)

var ErrNotVehicleOwner = New(
	CodeForbidden,
	"vehicle",
	"Vehicle belongs to another seller",
	http.StatusForbidden,
)

var ErrListingLimitReached = New(
	CodeLimitExceeded,
	"subscription",
	"Listing limit for the current plan has been reached",
	http.StatusConflict,
)

var ErrNoFeaturedCredits = New(
	CodeLimitExceeded,
	"subscription",
	"No featured credits left",
	http.StatusConflict,
)

var ErrCertificationLimitReached = New(
	CodeLimitExceeded,
	"subscription",
	"Free certifications for the current plan are used up",
	http.StatusConflict,
)

var ErrAlreadyFeatured = New(
	CodeConflict,
	"vehicle",
	"Vehicle is already featured",
	http.StatusConflict,
)

var ErrAlreadyCertified = New(
	CodeConflict,
	"vehicle",
	"Vehicle is already certified",
	http.StatusConflict,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
