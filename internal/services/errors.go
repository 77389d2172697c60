package services

import (
	"automarket_backend/pkg/apperrors"
)

// storeError passes AppErrors through and turns anything else coming out of
// a store into Unavailable.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.Unavailable(err)
}
