package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	PlanHandler           *PlanHandler
	PaymentRequestHandler *PaymentRequestHandler
	UserHandler           *UserHandler
	VehicleHandler        *VehicleHandler
	HealthHandler         *HealthHandler
}
