package auth

import "automarket_backend/internal/models"

type Permission string

const (
	PermBuyPlans       Permission = "plans:buy"
	PermReviewPayments Permission = "payments:review"
	PermManageListings Permission = "vehicles:write"
)

// rolePermissions is the whole RBAC table; there are no per-user grants.
var rolePermissions = map[models.UserRole][]Permission{
	models.UserRoleAdmin: {
		PermReviewPayments,
	},
	models.UserRoleSeller: {
		PermBuyPlans,
		PermManageListings,
	},
	models.UserRoleCustomer: {},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Can checks an active user against a permission; suspended accounts can do nothing.
func Can(user *models.User, permission Permission) bool {
	if user == nil || user.Status == models.UserStatusSuspended {
		return false
	}
	return HasPermission(user.Role, permission)
}
