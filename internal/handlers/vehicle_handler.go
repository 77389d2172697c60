package handlers

import (
	"net/http"

	"automarket_backend/internal/models"
	"automarket_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	*BaseHandler
	vehicleService services.VehicleService
}

func NewVehicleHandler(base *BaseHandler, vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		BaseHandler:    base,
		vehicleService: vehicleService,
	}
}

func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup) {
	vehicles := r.Group("/vehicles")
	{
		vehicles.POST("", h.CreateVehicle)
		vehicles.GET("", h.ListVehicles)
		vehicles.PUT("", h.handlePut)
		vehicles.DELETE("", h.DeleteVehicle)
	}
}

type vehicleQuery struct {
	ID          string `form:"id" validate:"required"`
	SellerEmail string `form:"sellerEmail" validate:"required,email"`
}

func (h *VehicleHandler) handlePut(c *gin.Context) {
	switch action := c.Query("action"); action {
	case "feature":
		h.FeatureVehicle(c)
	case "certify":
		h.CertifyVehicle(c)
	default:
		unknownAction(c, action)
	}
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req models.CreateVehicleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vehicle listed successfully",
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	var q sellerQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	vehicles, err := h.vehicleService.ListBySeller(c.Request.Context(), q.SellerEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"total":    len(vehicles),
	})
}

func (h *VehicleHandler) FeatureVehicle(c *gin.Context) {
	var q vehicleQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	vehicle, err := h.vehicleService.Feature(c.Request.Context(), q.ID, q.SellerEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle featured",
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) CertifyVehicle(c *gin.Context) {
	var q vehicleQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	vehicle, err := h.vehicleService.Certify(c.Request.Context(), q.ID, q.SellerEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle certified",
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	var q vehicleQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	if err := h.vehicleService.Delete(c.Request.Context(), q.ID, q.SellerEmail); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
