package handlers

import (
	"net/http"
	"strings"

	"automarket_backend/internal/models"
	"automarket_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	*BaseHandler
	planService services.PlanService
}

func NewPlanHandler(base *BaseHandler, planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		BaseHandler: base,
		planService: planService,
	}
}

func (h *PlanHandler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/plans")
	{
		plans.GET("", h.GetPlans)
		plans.POST("", h.CreatePlan)
		plans.PUT("", h.UpdatePlan)
		plans.DELETE("", h.DeletePlan)
	}
}

// GetPlans returns the whole catalog, or a single plan when ?id= is given.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	ctx := c.Request.Context()

	if id := strings.TrimSpace(c.Query("id")); id != "" {
		plan, err := h.planService.GetPlan(ctx, models.PlanID(id))
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"plan": plan})
		return
	}

	plans, err := h.planService.ListPlans(ctx)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	canAdd, err := h.planService.CanAddNewPlan(ctx)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans":         plans,
		"canAddNewPlan": canAdd,
	})
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req models.CreatePlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	id, err := h.planService.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Plan created successfully",
		"id":      id,
	})
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var patch models.PlanOverride
	if !h.BindAndValidate_JSON(c, &patch) {
		return
	}

	id := models.PlanID(strings.TrimSpace(c.Query("id")))
	if err := h.planService.UpdatePlan(c.Request.Context(), id, patch); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan updated successfully"})
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, ok := h.RequireQuery(c, "id")
	if !ok {
		return
	}

	if _, err := h.planService.DeletePlan(c.Request.Context(), models.PlanID(id)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}
