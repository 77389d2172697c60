package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds a store call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrPaymentRequestNotFound  = errors.New("payment request not found")
	ErrPendingRequestExists    = errors.New("pending payment request already exists")
	ErrRequestNotPending       = errors.New("payment request is not pending")
	ErrVehicleNotFound         = errors.New("vehicle not found")
	ErrNoFeaturedCredits       = errors.New("no featured credits left")
	ErrCertificationLimit      = errors.New("certification limit reached")
	ErrVehicleAlreadyFeatured  = errors.New("vehicle already featured")
	ErrVehicleAlreadyCertified = errors.New("vehicle already certified")
)

// scope gives every repository a bounded *gorm.DB per call.
type scope struct {
	db      *gorm.DB
	timeout time.Duration
}

func newScope(db *gorm.DB, timeout time.Duration) scope {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return scope{db: db, timeout: timeout}
}

func (s scope) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}
