package repositories

import (
	"context"
	"errors"
	"time"

	"automarket_backend/internal/models"

	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]models.Vehicle, error)
	CountActiveBySeller(ctx context.Context, sellerEmail string) (int64, error)
	Delete(ctx context.Context, id string) error
	// Feature spends one of the seller's featured credits on the vehicle.
	Feature(ctx context.Context, id, sellerEmail string) (*models.Vehicle, error)
	// Certify marks the vehicle certified while the seller's used
	// certifications stay below limit.
	Certify(ctx context.Context, id, sellerEmail string, limit int) (*models.Vehicle, error)
}

type VehicleRepositoryImpl struct {
	scope
}

func NewVehicleRepository(db *gorm.DB, timeout time.Duration) VehicleRepository {
	return &VehicleRepositoryImpl{scope: newScope(db, timeout)}
}

func (r *VehicleRepositoryImpl) Create(ctx context.Context, vehicle *models.Vehicle) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Create(vehicle).Error
}

func (r *VehicleRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var vehicle models.Vehicle
	if err := db.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepositoryImpl) ListBySeller(ctx context.Context, sellerEmail string) ([]models.Vehicle, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var vehicles []models.Vehicle
	err := db.Where("seller_email = ?", sellerEmail).
		Order("is_featured DESC, created_at DESC").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *VehicleRepositoryImpl) CountActiveBySeller(ctx context.Context, sellerEmail string) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&models.Vehicle{}).
		Where("seller_email = ? AND status = ?", sellerEmail, models.VehicleStatusActive).
		Count(&count).Error
	return count, err
}

func (r *VehicleRepositoryImpl) Delete(ctx context.Context, id string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Where("id = ?", id).Delete(&models.Vehicle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func (r *VehicleRepositoryImpl) Feature(ctx context.Context, id, sellerEmail string) (*models.Vehicle, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var vehicle models.Vehicle
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Vehicle{}).
			Where("id = ? AND seller_email = ? AND is_featured = ?", id, sellerEmail, false).
			Updates(map[string]interface{}{"is_featured": true, "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVehicleAlreadyFeatured
		}

		result = tx.Model(&models.User{}).
			Where("email = ? AND featured_credits > 0", sellerEmail).
			Updates(map[string]interface{}{
				"featured_credits": gorm.Expr("featured_credits - 1"),
				"updated_at":       time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNoFeaturedCredits
		}

		return tx.First(&vehicle, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepositoryImpl) Certify(ctx context.Context, id, sellerEmail string, limit int) (*models.Vehicle, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var vehicle models.Vehicle
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Vehicle{}).
			Where("id = ? AND seller_email = ? AND is_certified = ?", id, sellerEmail, false).
			Updates(map[string]interface{}{"is_certified": true, "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVehicleAlreadyCertified
		}

		result = tx.Model(&models.User{}).
			Where("email = ? AND used_certifications < ?", sellerEmail, limit).
			Updates(map[string]interface{}{
				"used_certifications": gorm.Expr("used_certifications + 1"),
				"updated_at":          time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCertificationLimit
		}

		return tx.First(&vehicle, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}
