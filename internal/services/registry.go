package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	PlanService    PlanService
	PaymentService PaymentService
	UserService    UserService
	VehicleService VehicleService
}
