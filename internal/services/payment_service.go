package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"automarket_backend/internal/auth"
	"automarket_backend/internal/logger"
	"automarket_backend/internal/models"
	"automarket_backend/internal/repositories"
	"automarket_backend/internal/storage"
	"automarket_backend/pkg/apperrors"
)

type PaymentService interface {
	SubmitRequest(ctx context.Context, req *models.SubmitPaymentRequest) (*models.PaymentRequest, error)
	// GetStatus returns the seller's latest request, or nil when there is none.
	GetStatus(ctx context.Context, sellerEmail string) (*models.PaymentRequest, error)
	GetHistory(ctx context.Context, sellerEmail string) ([]models.PaymentRequest, error)
	ListRequests(ctx context.Context, adminEmail, status string) ([]models.PaymentRequestSummary, error)
	Approve(ctx context.Context, requestID, adminEmail, notes string) (*models.PaymentRequest, error)
	Reject(ctx context.Context, requestID, adminEmail, reason string) (*models.PaymentRequest, error)
	UploadProof(ctx context.Context, sellerEmail, filename string, size int64, r io.Reader) (string, error)
}

// ProofUploader stores payment proof files and returns their URL.
type ProofUploader interface {
	Upload(ctx context.Context, sellerEmail, filename string, size int64, r io.Reader) (string, error)
}

type paymentService struct {
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRequestRepository
	plans       PlanService
	notifier    PaymentNotifier
	proofs      ProofUploader
	now         func() time.Time
}

func NewPaymentService(
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRequestRepository,
	plans PlanService,
	notifier PaymentNotifier,
	proofs ProofUploader,
) PaymentService {
	return &paymentService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		plans:       plans,
		notifier:    notifier,
		proofs:      proofs,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *paymentService) SubmitRequest(ctx context.Context, req *models.SubmitPaymentRequest) (*models.PaymentRequest, error) {
	sellerEmail := normalizeEmail(req.SellerEmail)

	seller, err := s.findSeller(ctx, sellerEmail)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsBillable() {
		return nil, apperrors.ErrPlanNotBillable
	}
	if req.Amount == nil || *req.Amount != plan.Price {
		return nil, apperrors.ErrInvalidPaymentAmount.WithDetails(map[string]int64{"expected": plan.Price})
	}

	pending, err := s.paymentRepo.HasPending(ctx, seller.Email)
	if err != nil {
		return nil, storeError(err)
	}
	if pending {
		return nil, apperrors.ErrPendingRequestExists
	}

	paymentRequest := &models.PaymentRequest{
		SellerEmail:   seller.Email,
		PlanID:        plan.ID,
		Amount:        plan.Price,
		Status:        models.PaymentStatusPending,
		PaymentProof:  optional(req.PaymentProof),
		TransactionID: optional(req.TransactionID),
		RequestedAt:   s.now(),
	}
	if req.PaymentMethod != "" {
		method := req.PaymentMethod
		paymentRequest.PaymentMethod = &method
	}

	if err := s.paymentRepo.Create(ctx, paymentRequest); err != nil {
		if errors.Is(err, repositories.ErrPendingRequestExists) {
			return nil, apperrors.ErrPendingRequestExists
		}
		return nil, storeError(err)
	}

	logger.CtxInfo(ctx, "payment request submitted",
		"request_id", paymentRequest.ID,
		"seller", seller.Email,
		"plan", plan.ID,
	)
	return paymentRequest, nil
}

func (s *paymentService) GetStatus(ctx context.Context, sellerEmail string) (*models.PaymentRequest, error) {
	req, err := s.paymentRepo.FindLatestBySeller(ctx, normalizeEmail(sellerEmail))
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentRequestNotFound) {
			return nil, nil
		}
		return nil, storeError(err)
	}
	return req, nil
}

func (s *paymentService) GetHistory(ctx context.Context, sellerEmail string) ([]models.PaymentRequest, error) {
	requests, err := s.paymentRepo.ListBySeller(ctx, normalizeEmail(sellerEmail))
	if err != nil {
		return nil, storeError(err)
	}
	return requests, nil
}

func (s *paymentService) ListRequests(ctx context.Context, adminEmail, status string) ([]models.PaymentRequestSummary, error) {
	if _, err := s.requireAdmin(ctx, adminEmail); err != nil {
		return nil, err
	}

	var filter models.PaymentRequestStatus
	switch status {
	case "":
		filter = models.PaymentStatusPending
	case models.PaymentStatusFilterAll:
		filter = ""
	default:
		filter = models.PaymentRequestStatus(status)
		if !filter.IsValid() {
			return nil, apperrors.ValidationError(map[string]string{"status": "Must be one of: pending, approved, rejected, all"})
		}
	}

	requests, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}

	emails := make([]string, 0, len(requests))
	seen := make(map[string]bool)
	for _, r := range requests {
		if !seen[r.SellerEmail] {
			seen[r.SellerEmail] = true
			emails = append(emails, r.SellerEmail)
		}
	}
	sellers, err := s.userRepo.FindByEmails(ctx, emails)
	if err != nil {
		return nil, storeError(err)
	}

	planNames := make(map[models.PlanID]string)
	summaries := make([]models.PaymentRequestSummary, 0, len(requests))
	for _, r := range requests {
		summary := models.PaymentRequestSummary{PaymentRequest: r, SellerName: r.SellerEmail}
		if seller, ok := sellers[r.SellerEmail]; ok {
			summary.SellerName = seller.DisplayName()
		}

		name, ok := planNames[r.PlanID]
		if !ok {
			if plan, err := s.plans.GetPlan(ctx, r.PlanID); err == nil {
				name = plan.Name
			}
			planNames[r.PlanID] = name
		}
		summary.PlanName = name

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *paymentService) Approve(ctx context.Context, requestID, adminEmail, notes string) (*models.PaymentRequest, error) {
	admin, err := s.requireAdmin(ctx, adminEmail)
	if err != nil {
		return nil, err
	}

	req, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.paymentRepo.Resolve(ctx, models.PaymentResolution{
		RequestID:  req.ID,
		Status:     models.PaymentStatusApproved,
		AdminEmail: admin.Email,
		ResolvedAt: s.now(),
		Notes:      optional(notes),
	}, &models.EntitlementGrant{
		SellerEmail:     req.SellerEmail,
		PlanID:          plan.ID,
		FeaturedCredits: plan.FeaturedCredits,
	})
	if err != nil {
		return nil, resolveError(err)
	}

	logger.CtxInfo(ctx, "payment request approved",
		"request_id", resolved.ID,
		"seller", resolved.SellerEmail,
		"plan", plan.ID,
		"featured_credits_granted", plan.FeaturedCredits,
		"admin", admin.Email,
	)
	s.notify(ctx, resolved, plan)
	return resolved, nil
}

func (s *paymentService) Reject(ctx context.Context, requestID, adminEmail, reason string) (*models.PaymentRequest, error) {
	admin, err := s.requireAdmin(ctx, adminEmail)
	if err != nil {
		return nil, err
	}

	req, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.paymentRepo.Resolve(ctx, models.PaymentResolution{
		RequestID:       req.ID,
		Status:          models.PaymentStatusRejected,
		AdminEmail:      admin.Email,
		ResolvedAt:      s.now(),
		RejectionReason: optional(reason),
	}, nil)
	if err != nil {
		return nil, resolveError(err)
	}

	logger.CtxInfo(ctx, "payment request rejected",
		"request_id", resolved.ID,
		"seller", resolved.SellerEmail,
		"admin", admin.Email,
	)

	plan, err := s.plans.GetPlan(ctx, resolved.PlanID)
	if err != nil {
		// custom plan deleted meanwhile; the email still names the id
		plan = &models.Plan{ID: resolved.PlanID, Name: string(resolved.PlanID)}
	}
	s.notify(ctx, resolved, plan)
	return resolved, nil
}

func (s *paymentService) UploadProof(ctx context.Context, sellerEmail, filename string, size int64, r io.Reader) (string, error) {
	if s.proofs == nil {
		return "", apperrors.Unavailable(errors.New("proof storage is not configured"))
	}

	seller, err := s.findSeller(ctx, normalizeEmail(sellerEmail))
	if err != nil {
		return "", err
	}

	url, err := s.proofs.Upload(ctx, seller.Email, filename, size, r)
	switch {
	case err == nil:
		return url, nil
	case errors.Is(err, storage.ErrProofTooLarge):
		return "", apperrors.ErrFileTooLarge
	case errors.Is(err, storage.ErrProofTypeDenied):
		return "", apperrors.ErrInvalidFileType
	case errors.Is(err, storage.ErrProofEmpty):
		return "", apperrors.NewBadRequestError("Payment proof file is empty")
	default:
		return "", storeError(err)
	}
}

func (s *paymentService) findSeller(ctx context.Context, email string) (*models.User, error) {
	seller, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrSellerNotFound
		}
		return nil, storeError(err)
	}
	if !seller.IsSeller() {
		return nil, apperrors.ErrSellerNotFound
	}
	if !auth.Can(seller, auth.PermBuyPlans) {
		return nil, apperrors.ErrAccountSuspended
	}
	return seller, nil
}

// requireAdmin resolves adminEmail to an admin user; anything else is Forbidden.
func (s *paymentService) requireAdmin(ctx context.Context, adminEmail string) (*models.User, error) {
	email := normalizeEmail(adminEmail)
	if email == "" {
		return nil, apperrors.ErrInsufficientPermissions
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInsufficientPermissions
		}
		return nil, storeError(err)
	}
	if !auth.Can(user, auth.PermReviewPayments) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return user, nil
}

func (s *paymentService) pendingRequest(ctx context.Context, requestID string) (*models.PaymentRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if !isUUID(requestID) {
		return nil, apperrors.ErrPaymentRequestNotFound
	}

	req, err := s.paymentRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentRequestNotFound) {
			return nil, apperrors.ErrPaymentRequestNotFound
		}
		return nil, storeError(err)
	}
	if !req.IsPending() {
		return nil, apperrors.ErrRequestNotPending.WithDetails(map[string]string{"status": string(req.Status)})
	}
	return req, nil
}

// notify never fails the caller: the resolution is already committed.
func (s *paymentService) notify(ctx context.Context, req *models.PaymentRequest, plan *models.Plan) {
	if s.notifier == nil {
		return
	}

	seller, err := s.userRepo.FindByEmail(ctx, req.SellerEmail)
	if err != nil {
		logger.CtxWithError(ctx, "seller lookup for notification failed", err, "request_id", req.ID)
		return
	}

	if req.Status == models.PaymentStatusApproved {
		err = s.notifier.PaymentApproved(ctx, seller, req, plan)
	} else {
		err = s.notifier.PaymentRejected(ctx, seller, req, plan)
	}
	if err != nil {
		logger.CtxWithError(ctx, "payment notification failed", err, "request_id", req.ID, "seller", seller.Email)
	}
}

func resolveError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrRequestNotPending):
		return apperrors.ErrRequestNotPending
	case errors.Is(err, repositories.ErrPaymentRequestNotFound):
		return apperrors.ErrPaymentRequestNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrSellerNotFound
	default:
		return storeError(err)
	}
}
