package services

import (
	"context"
	"errors"
	"strings"

	"automarket_backend/internal/models"
	"automarket_backend/internal/repositories/plans"
	"automarket_backend/pkg/apperrors"
)

type PlanService interface {
	GetPlan(ctx context.Context, id models.PlanID) (*models.Plan, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
	CreatePlan(ctx context.Context, req *models.CreatePlanRequest) (models.PlanID, error)
	UpdatePlan(ctx context.Context, id models.PlanID, patch models.PlanOverride) error
	DeletePlan(ctx context.Context, id models.PlanID) (bool, error)
	CanAddNewPlan(ctx context.Context) (bool, error)
}

type planService struct {
	store    plans.Store
	maxPlans int
}

func NewPlanService(store plans.Store, maxPlans int) PlanService {
	if maxPlans <= 0 {
		maxPlans = models.MaxCatalogPlans
	}
	return &planService{store: store, maxPlans: maxPlans}
}

func (s *planService) GetPlan(ctx context.Context, id models.PlanID) (*models.Plan, error) {
	override, err := s.store.Get(ctx, id)
	found := true
	if err != nil {
		if !errors.Is(err, plans.ErrNotFound) {
			return nil, storeError(err)
		}
		found = false
	}

	if base, ok := models.BuiltInPlan(id); ok {
		plan := override.ApplyTo(base)
		return &plan, nil
	}
	if !found || override.IsEmpty() {
		return nil, apperrors.ErrPlanNotFound
	}

	plan := override.ToPlan(id)
	return &plan, nil
}

// ListPlans returns the built-ins (with edits applied) in declaration order,
// then custom plans in creation order, at most maxPlans in total.
func (s *planService) ListPlans(ctx context.Context) ([]models.Plan, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	overrides := make(map[models.PlanID]models.PlanOverride, len(entries))
	for _, e := range entries {
		overrides[e.ID] = e.Override
	}

	result := make([]models.Plan, 0, s.maxPlans)
	for _, base := range models.BuiltInPlans() {
		result = append(result, overrides[base.ID].ApplyTo(base))
	}
	for _, e := range entries {
		if e.ID.IsBuiltIn() || e.Override.IsEmpty() {
			continue
		}
		result = append(result, e.Override.ToPlan(e.ID))
	}

	if len(result) > s.maxPlans {
		result = result[:s.maxPlans]
	}
	return result, nil
}

func (s *planService) CreatePlan(ctx context.Context, req *models.CreatePlanRequest) (models.PlanID, error) {
	if err := validatePlanFields(req.AsOverride()); err != nil {
		return "", err
	}

	current, err := s.ListPlans(ctx)
	if err != nil {
		return "", err
	}
	if len(current) >= s.maxPlans {
		return "", apperrors.ErrPlanLimitReached.WithDetails(map[string]int{"maxPlans": s.maxPlans})
	}

	id, err := s.freshID(ctx)
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, id, req.AsOverride()); err != nil {
		return "", storeError(err)
	}
	return id, nil
}

func (s *planService) freshID(ctx context.Context) (models.PlanID, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id := models.NewCustomPlanID()
		_, err := s.store.Get(ctx, id)
		if errors.Is(err, plans.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", storeError(err)
		}
	}
	return "", apperrors.ErrConflict("plan", "Could not allocate a plan id")
}

// UpdatePlan merges patch onto the stored override for id. Editing an id with
// no stored override (a built-in or a new id) creates one; an empty patch
// changes nothing.
func (s *planService) UpdatePlan(ctx context.Context, id models.PlanID, patch models.PlanOverride) error {
	if id == "" {
		return apperrors.ErrPlanIDRequired
	}
	if !id.IsValid() {
		return apperrors.ErrInvalidPlanID
	}
	if err := validatePlanFields(patch); err != nil {
		return err
	}

	if patch.IsEmpty() {
		return nil
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil && !errors.Is(err, plans.ErrNotFound) {
		return storeError(err)
	}

	if err := s.store.Put(ctx, id, existing.Merge(patch)); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *planService) DeletePlan(ctx context.Context, id models.PlanID) (bool, error) {
	if id == "" {
		return false, apperrors.ErrPlanIDRequired
	}
	if id.IsBuiltIn() {
		return false, apperrors.ErrBasePlanDelete
	}

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, storeError(err)
	}
	if !removed {
		return false, apperrors.ErrPlanNotFound
	}
	return true, nil
}

func (s *planService) CanAddNewPlan(ctx context.Context) (bool, error) {
	current, err := s.ListPlans(ctx)
	if err != nil {
		return false, err
	}
	return len(current) < s.maxPlans, nil
}

// validatePlanFields checks the fields that are set.
func validatePlanFields(o models.PlanOverride) error {
	details := map[string]string{}

	if o.Name != nil && strings.TrimSpace(*o.Name) == "" {
		return apperrors.ErrPlanNameRequired
	}
	if o.Price != nil && *o.Price < 0 {
		details["price"] = "Must be greater than or equal to 0"
	}
	if o.ListingLimit != nil && !models.IsValidListingLimit(*o.ListingLimit) {
		details["listingLimit"] = "Must be -1 (unlimited) or at least 1"
	}
	if o.FeaturedCredits != nil && *o.FeaturedCredits < 0 {
		details["featuredCredits"] = "Must be greater than or equal to 0"
	}
	if o.FreeCertifications != nil && *o.FreeCertifications < 0 {
		details["freeCertifications"] = "Must be greater than or equal to 0"
	}

	if len(details) > 0 {
		return apperrors.ValidationError(details)
	}
	return nil
}
