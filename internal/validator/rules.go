package validator

import (
	"log"

	"automarket_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила валидации.
func registerCustomRules(v *validator.Validate) {
	// Ошибка регистрации правила означает ошибку конфигурации, приложение не стартует.
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-payment-status", validatePaymentStatus)
	mustRegister("is-payment-method", validatePaymentMethod)
	mustRegister("is-plan-id", validatePlanID)
	mustRegister("is-listing-limit", validateListingLimit)
}

// Пустые значения не проверяем, для этого есть 'required'.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).IsValid()
}

// validatePaymentStatus also accepts "all", the list filter wildcard.
func validatePaymentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" || value == models.PaymentStatusFilterAll {
		return true
	}
	return models.PaymentRequestStatus(value).IsValid()
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PaymentMethod(value).IsValid()
}

func validatePlanID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PlanID(value).IsValid()
}

func validateListingLimit(fl validator.FieldLevel) bool {
	return models.IsValidListingLimit(int(fl.Field().Int()))
}
