package repositories

import (
	"context"
	"errors"
	"time"

	"automarket_backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmails(ctx context.Context, emails []string) (map[string]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
	// SeedAdmin creates the admin only when no admin exists yet. Reports
	// whether a row was inserted.
	SeedAdmin(ctx context.Context, admin *models.User) (bool, error)
}

type UserRepositoryImpl struct {
	scope
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) UserRepository {
	return &UserRepositoryImpl{scope: newScope(db, timeout)}
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmails(ctx context.Context, emails []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(emails))
	if len(emails) == 0 {
		return result, nil
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	var users []models.User
	if err := db.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		result[users[i].Email] = &users[i]
	}
	return result, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	err := db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepositoryImpl) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) SeedAdmin(ctx context.Context, admin *models.User) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	created := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", admin.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			// promote the existing account instead of failing on the unique email
			return tx.Model(&models.User{}).Where("email = ?", admin.Email).
				Updates(map[string]interface{}{"role": models.UserRoleAdmin, "updated_at": time.Now()}).Error
		}

		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
