package handlers

import (
	"net/http"

	"automarket_backend/internal/models"
	"automarket_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", h.handleGet)
	}
}

type emailQuery struct {
	Email string `form:"email" validate:"required,email"`
}

func (h *UserHandler) handleGet(c *gin.Context) {
	switch action := c.Query("action"); action {
	case "":
		h.GetUser(c)
	case "entitlements":
		h.GetEntitlements(c)
	default:
		unknownAction(c, action)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	var q emailQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	user, err := h.userService.GetByEmail(c.Request.Context(), q.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetEntitlements shows plan limits next to current usage.
func (h *UserHandler) GetEntitlements(c *gin.Context) {
	var q emailQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	entitlements, err := h.userService.GetEntitlements(c.Request.Context(), q.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entitlements": entitlements})
}
