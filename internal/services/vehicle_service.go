package services

import (
	"context"
	"errors"
	"strings"

	"automarket_backend/internal/auth"
	"automarket_backend/internal/models"
	"automarket_backend/internal/repositories"
	"automarket_backend/pkg/apperrors"

	"github.com/lib/pq"
)

type VehicleService interface {
	Create(ctx context.Context, req *models.CreateVehicleRequest) (*models.Vehicle, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]models.Vehicle, error)
	Delete(ctx context.Context, id, sellerEmail string) error
	// Feature spends one featured credit on the vehicle.
	Feature(ctx context.Context, id, sellerEmail string) (*models.Vehicle, error)
	// Certify uses one of the plan's free certifications.
	Certify(ctx context.Context, id, sellerEmail string) (*models.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo repositories.VehicleRepository
	userRepo    repositories.UserRepository
	plans       PlanService
}

func NewVehicleService(
	vehicleRepo repositories.VehicleRepository,
	userRepo repositories.UserRepository,
	plans PlanService,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		plans:       plans,
	}
}

func (s *vehicleService) Create(ctx context.Context, req *models.CreateVehicleRequest) (*models.Vehicle, error) {
	seller, err := s.seller(ctx, req.SellerEmail)
	if err != nil {
		return nil, err
	}

	plan, err := currentPlan(ctx, s.plans, seller)
	if err != nil {
		return nil, err
	}

	active, err := s.vehicleRepo.CountActiveBySeller(ctx, seller.Email)
	if err != nil {
		return nil, storeError(err)
	}
	if !plan.AllowsListing(active) {
		return nil, apperrors.ErrListingLimitReached.WithDetails(map[string]interface{}{
			"plan":         plan.ID,
			"listingLimit": plan.ListingLimit,
			"active":       active,
		})
	}

	vehicle := &models.Vehicle{
		SellerEmail: seller.Email,
		Make:        strings.TrimSpace(req.Make),
		Model:       strings.TrimSpace(req.Model),
		Year:        req.Year,
		Price:       req.Price,
		Mileage:     req.Mileage,
		City:        strings.TrimSpace(req.City),
		Description: req.Description,
		ImageURLs:   pq.StringArray(req.ImageURLs),
		Status:      models.VehicleStatusActive,
	}
	if vehicle.ImageURLs == nil {
		vehicle.ImageURLs = pq.StringArray{}
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, storeError(err)
	}
	return vehicle, nil
}

func (s *vehicleService) ListBySeller(ctx context.Context, sellerEmail string) ([]models.Vehicle, error) {
	vehicles, err := s.vehicleRepo.ListBySeller(ctx, normalizeEmail(sellerEmail))
	if err != nil {
		return nil, storeError(err)
	}
	return vehicles, nil
}

func (s *vehicleService) Delete(ctx context.Context, id, sellerEmail string) error {
	if _, _, err := s.owned(ctx, id, sellerEmail); err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrVehicleNotFound) {
			return apperrors.ErrVehicleNotFound
		}
		return storeError(err)
	}
	return nil
}

func (s *vehicleService) Feature(ctx context.Context, id, sellerEmail string) (*models.Vehicle, error) {
	vehicle, _, err := s.owned(ctx, id, sellerEmail)
	if err != nil {
		return nil, err
	}
	if vehicle.IsFeatured {
		return nil, apperrors.ErrAlreadyFeatured
	}

	featured, err := s.vehicleRepo.Feature(ctx, vehicle.ID, vehicle.SellerEmail)
	switch {
	case err == nil:
		return featured, nil
	case errors.Is(err, repositories.ErrNoFeaturedCredits):
		return nil, apperrors.ErrNoFeaturedCredits
	case errors.Is(err, repositories.ErrVehicleAlreadyFeatured):
		return nil, apperrors.ErrAlreadyFeatured
	default:
		return nil, storeError(err)
	}
}

func (s *vehicleService) Certify(ctx context.Context, id, sellerEmail string) (*models.Vehicle, error) {
	vehicle, seller, err := s.owned(ctx, id, sellerEmail)
	if err != nil {
		return nil, err
	}
	if vehicle.IsCertified {
		return nil, apperrors.ErrAlreadyCertified
	}

	plan, err := currentPlan(ctx, s.plans, seller)
	if err != nil {
		return nil, err
	}

	certified, err := s.vehicleRepo.Certify(ctx, vehicle.ID, vehicle.SellerEmail, plan.FreeCertifications)
	switch {
	case err == nil:
		return certified, nil
	case errors.Is(err, repositories.ErrCertificationLimit):
		return nil, apperrors.ErrCertificationLimitReached.WithDetails(map[string]int{"limit": plan.FreeCertifications})
	case errors.Is(err, repositories.ErrVehicleAlreadyCertified):
		return nil, apperrors.ErrAlreadyCertified
	default:
		return nil, storeError(err)
	}
}

func (s *vehicleService) seller(ctx context.Context, email string) (*models.User, error) {
	seller, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrSellerNotFound
		}
		return nil, storeError(err)
	}
	if !seller.IsSeller() {
		return nil, apperrors.ErrSellerNotFound
	}
	if !auth.Can(seller, auth.PermManageListings) {
		return nil, apperrors.ErrAccountSuspended
	}
	return seller, nil
}

// owned loads the vehicle, checks it belongs to sellerEmail and that the
// seller may still manage listings.
func (s *vehicleService) owned(ctx context.Context, id, sellerEmail string) (*models.Vehicle, *models.User, error) {
	if !isUUID(id) {
		return nil, nil, apperrors.ErrVehicleNotFound
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVehicleNotFound) {
			return nil, nil, apperrors.ErrVehicleNotFound
		}
		return nil, nil, storeError(err)
	}
	if vehicle.SellerEmail != normalizeEmail(sellerEmail) {
		return nil, nil, apperrors.ErrNotVehicleOwner
	}

	seller, err := s.seller(ctx, vehicle.SellerEmail)
	if err != nil {
		return nil, nil, err
	}
	return vehicle, seller, nil
}
