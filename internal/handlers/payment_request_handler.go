package handlers

import (
	"net/http"

	"automarket_backend/internal/logger"
	"automarket_backend/internal/models"
	"automarket_backend/internal/services"
	"automarket_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PaymentRequestHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentRequestHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentRequestHandler {
	return &PaymentRequestHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

// Every verb is multiplexed on ?action=.
func (h *PaymentRequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/payment-requests")
	{
		requests.GET("", h.handleGet)
		requests.POST("", h.handlePost)
		requests.PUT("", h.handlePut)
	}
}

type sellerQuery struct {
	SellerEmail string `form:"sellerEmail" validate:"required,email"`
}

type listQuery struct {
	AdminEmail string `form:"adminEmail" validate:"required,email"`
	Status     string `form:"status" validate:"omitempty,is-payment-status"`
}

type uploadProofForm struct {
	SellerEmail string `form:"sellerEmail" validate:"required,email"`
}

func (h *PaymentRequestHandler) handleGet(c *gin.Context) {
	switch action := c.Query("action"); action {
	case "status":
		h.GetStatus(c)
	case "history":
		h.GetHistory(c)
	case "list":
		h.ListRequests(c)
	default:
		unknownAction(c, action)
	}
}

func (h *PaymentRequestHandler) handlePost(c *gin.Context) {
	switch action := c.Query("action"); action {
	case "create":
		h.CreateRequest(c)
	case "upload-proof":
		h.UploadProof(c)
	default:
		unknownAction(c, action)
	}
}

func (h *PaymentRequestHandler) handlePut(c *gin.Context) {
	switch action := c.Query("action"); action {
	case "approve":
		h.Approve(c)
	case "reject":
		h.Reject(c)
	default:
		unknownAction(c, action)
	}
}

// --- Seller handlers ---

func (h *PaymentRequestHandler) GetStatus(c *gin.Context) {
	var q sellerQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	req, err := h.paymentService.GetStatus(c.Request.Context(), q.SellerEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentRequest": req})
}

func (h *PaymentRequestHandler) GetHistory(c *gin.Context) {
	var q sellerQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	requests, err := h.paymentService.GetHistory(c.Request.Context(), q.SellerEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentRequests": requests,
		"total":           len(requests),
	})
}

func (h *PaymentRequestHandler) CreateRequest(c *gin.Context) {
	var req models.SubmitPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ctx := logger.WithActor(c.Request.Context(), req.SellerEmail)
	created, err := h.paymentService.SubmitRequest(ctx, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Payment request submitted successfully",
		"paymentRequest": created,
	})
}

func (h *PaymentRequestHandler) UploadProof(c *gin.Context) {
	var form uploadProofForm
	if err := c.ShouldBind(&form); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid form data: "+err.Error()))
		return
	}
	if !h.validate(c, &form) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to read file: "+err.Error()))
		return
	}
	defer file.Close()

	ctx := logger.WithActor(c.Request.Context(), form.SellerEmail)
	url, err := h.paymentService.UploadProof(ctx, form.SellerEmail, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// --- Admin handlers ---

func (h *PaymentRequestHandler) ListRequests(c *gin.Context) {
	var q listQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	ctx := logger.WithActor(c.Request.Context(), q.AdminEmail)
	requests, err := h.paymentService.ListRequests(ctx, q.AdminEmail, q.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentRequests": requests})
}

func (h *PaymentRequestHandler) Approve(c *gin.Context) {
	var req models.ApprovePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ctx := logger.WithActor(c.Request.Context(), req.AdminEmail)
	approved, err := h.paymentService.Approve(ctx, req.PaymentRequestID, req.AdminEmail, req.Notes)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment request approved",
		"paymentRequest": approved,
	})
}

func (h *PaymentRequestHandler) Reject(c *gin.Context) {
	var req models.RejectPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ctx := logger.WithActor(c.Request.Context(), req.AdminEmail)
	rejected, err := h.paymentService.Reject(ctx, req.PaymentRequestID, req.AdminEmail, req.RejectionReason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment request rejected",
		"paymentRequest": rejected,
	})
}
