package repositories

import (
	"context"
	"errors"
	"time"

	"automarket_backend/internal/models"

	"gorm.io/gorm"
)

// OnePendingIndexSQL backs the one-pending-request-per-seller rule in the
// database. Both postgres and sqlite support partial indexes.
const OnePendingIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_requests_one_pending
	ON payment_requests (seller_email) WHERE status = 'pending'`

type PaymentRequestRepository interface {
	// Create inserts a pending request; ErrPendingRequestExists when the
	// seller already has one.
	Create(ctx context.Context, req *models.PaymentRequest) error
	FindByID(ctx context.Context, id string) (*models.PaymentRequest, error)
	// FindLatestBySeller returns the seller's most recent request or ErrPaymentRequestNotFound.
	FindLatestBySeller(ctx context.Context, sellerEmail string) (*models.PaymentRequest, error)
	HasPending(ctx context.Context, sellerEmail string) (bool, error)
	// List returns requests newest first; an empty status means all.
	List(ctx context.Context, status models.PaymentRequestStatus) ([]models.PaymentRequest, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]models.PaymentRequest, error)
	// Resolve moves a pending request to its terminal status and, when grant
	// is set, applies it to the seller in the same transaction.
	Resolve(ctx context.Context, res models.PaymentResolution, grant *models.EntitlementGrant) (*models.PaymentRequest, error)
}

type PaymentRequestRepositoryImpl struct {
	scope
}

func NewPaymentRequestRepository(db *gorm.DB, timeout time.Duration) PaymentRequestRepository {
	return &PaymentRequestRepositoryImpl{scope: newScope(db, timeout)}
}

func (r *PaymentRequestRepositoryImpl) Create(ctx context.Context, req *models.PaymentRequest) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	err := db.Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPendingRequestExists
	}
	return err
}

func (r *PaymentRequestRepositoryImpl) FindByID(ctx context.Context, id string) (*models.PaymentRequest, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var req models.PaymentRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PaymentRequestRepositoryImpl) FindLatestBySeller(ctx context.Context, sellerEmail string) (*models.PaymentRequest, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var req models.PaymentRequest
	err := db.Where("seller_email = ?", sellerEmail).
		Order("requested_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PaymentRequestRepositoryImpl) HasPending(ctx context.Context, sellerEmail string) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&models.PaymentRequest{}).
		Where("seller_email = ? AND status = ?", sellerEmail, models.PaymentStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentRequestRepositoryImpl) List(ctx context.Context, status models.PaymentRequestStatus) ([]models.PaymentRequest, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query := db.Model(&models.PaymentRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.PaymentRequest
	err := query.Order("requested_at DESC").Find(&requests).Error
	return requests, err
}

func (r *PaymentRequestRepositoryImpl) ListBySeller(ctx context.Context, sellerEmail string) ([]models.PaymentRequest, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var requests []models.PaymentRequest
	err := db.Where("seller_email = ?", sellerEmail).Order("requested_at DESC").Find(&requests).Error
	return requests, err
}

func (r *PaymentRequestRepositoryImpl) Resolve(
	ctx context.Context,
	res models.PaymentResolution,
	grant *models.EntitlementGrant,
) (*models.PaymentRequest, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var resolved models.PaymentRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      res.Status,
			"resolved_at": res.ResolvedAt,
			"resolved_by": res.AdminEmail,
			"updated_at":  time.Now().UTC(),
		}
		if res.Notes != nil {
			updates["notes"] = *res.Notes
		}
		if res.RejectionReason != nil {
			updates["rejection_reason"] = *res.RejectionReason
		}

		// Guard on status so a concurrent approve/reject loses cleanly.
		result := tx.Model(&models.PaymentRequest{}).
			Where("id = ? AND status = ?", res.RequestID, models.PaymentStatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.PaymentRequest{}).Where("id = ?", res.RequestID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrPaymentRequestNotFound
			}
			return ErrRequestNotPending
		}

		if grant != nil {
			result := tx.Model(&models.User{}).
				Where("email = ?", grant.SellerEmail).
				Updates(map[string]interface{}{
					"subscription_plan": grant.PlanID,
					"featured_credits":  gorm.Expr("featured_credits + ?", grant.FeaturedCredits),
					"updated_at":        time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrUserNotFound
			}
		}

		return tx.First(&resolved, "id = ?", res.RequestID).Error
	})
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}
