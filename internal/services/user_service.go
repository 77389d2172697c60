package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"automarket_backend/internal/auth"
	"automarket_backend/internal/models"
	"automarket_backend/internal/repositories"
	"automarket_backend/pkg/apperrors"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetEntitlements(ctx context.Context, email string) (*models.Entitlements, error)
	// SeedFirstAdmin creates an admin account when none exists yet.
	SeedFirstAdmin(ctx context.Context, email, password, name string) (bool, error)
}

type userService struct {
	userRepo    repositories.UserRepository
	vehicleRepo repositories.VehicleRepository
	plans       PlanService
}

func NewUserService(
	userRepo repositories.UserRepository,
	vehicleRepo repositories.VehicleRepository,
	plans PlanService,
) UserService {
	return &userService{
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		plans:       plans,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error) {
	if req.Role == models.UserRoleAdmin {
		return nil, apperrors.NewForbiddenError("Admin accounts cannot be self-registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
		}
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:            normalizeEmail(req.Email),
		Name:             strings.TrimSpace(req.Name),
		PasswordHash:     hash,
		Role:             req.Role,
		Status:           models.UserStatusActive,
		SubscriptionPlan: models.PlanFree,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, storeError(err)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return user, nil
}

func (s *userService) GetEntitlements(ctx context.Context, email string) (*models.Entitlements, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	plan, err := currentPlan(ctx, s.plans, user)
	if err != nil {
		return nil, err
	}

	active, err := s.vehicleRepo.CountActiveBySeller(ctx, user.Email)
	if err != nil {
		return nil, storeError(err)
	}

	return &models.Entitlements{
		Email:              user.Email,
		Plan:               *plan,
		ActiveListings:     active,
		ListingLimit:       plan.ListingLimit,
		CanAddListing:      user.IsSeller() && plan.AllowsListing(active),
		FeaturedCredits:    user.FeaturedCredits,
		UsedCertifications: user.UsedCertifications,
		CertificationLimit: plan.FreeCertifications,
	}, nil
}

func (s *userService) SeedFirstAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, errors.New("first admin email is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("first admin password: %w", err)
	}

	return s.userRepo.SeedAdmin(ctx, &models.User{
		Email:            email,
		Name:             name,
		PasswordHash:     hash,
		Role:             models.UserRoleAdmin,
		Status:           models.UserStatusActive,
		SubscriptionPlan: models.PlanFree,
	})
}

// currentPlan resolves the user's plan; a plan that no longer exists (a
// deleted custom plan) falls back to free.
func currentPlan(ctx context.Context, plans PlanService, user *models.User) (*models.Plan, error) {
	plan, err := plans.GetPlan(ctx, user.CurrentPlan())
	if err == nil {
		return plan, nil
	}
	if apperrors.HasCode(err, apperrors.CodeNotFound) {
		return plans.GetPlan(ctx, models.PlanFree)
	}
	return nil, err
}
