package services

import (
	"context"
	"fmt"
	"testing"

	"automarket_backend/internal/models"
	"automarket_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVehicle(seller string, n int) *models.CreateVehicleRequest {
	return &models.CreateVehicleRequest{
		SellerEmail: seller,
		Make:        "Maruti",
		Model:       fmt.Sprintf("Swift %d", n),
		Year:        2019,
		Price:       550000,
		Mileage:     42000,
		City:        "Pune",
	}
}

func TestVehicleService_ListingLimitFollowsPlan(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, sellerEmail, models.UserRoleSeller, 0)
	env.addUser(t, adminEmail, models.UserRoleAdmin, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, i))
		require.NoError(t, err)
	}
	_, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, 3))
	assert.ErrorIs(t, err, apperrors.ErrListingLimitReached)

	req := submitPro(t, env)
	_, err = env.payment.Approve(ctx, req.ID, adminEmail, "")
	require.NoError(t, err)

	v, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, 3))
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusActive, v.Status)

	list, err := env.vehicle.ListBySeller(ctx, sellerEmail)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestVehicleService_CreateRequiresSeller(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "buyer@x.com", models.UserRoleCustomer, 0)

	_, err := env.vehicle.Create(context.Background(), newVehicle("buyer@x.com", 0))
	assert.ErrorIs(t, err, apperrors.ErrSellerNotFound)

	_, err = env.vehicle.Create(context.Background(), newVehicle("ghost@x.com", 0))
	assert.ErrorIs(t, err, apperrors.ErrSellerNotFound)
}

func TestVehicleService_FeatureSpendsCredits(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, sellerEmail, models.UserRoleSeller, 1)
	ctx := context.Background()

	first, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, 0))
	require.NoError(t, err)
	second, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, 1))
	require.NoError(t, err)

	featured, err := env.vehicle.Feature(ctx, first.ID, sellerEmail)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)
	assert.Equal(t, 0, env.reloadUser(t, sellerEmail).FeaturedCredits)

	_, err = env.vehicle.Feature(ctx, first.ID, sellerEmail)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFeatured)

	_, err = env.vehicle.Feature(ctx, second.ID, sellerEmail)
	assert.ErrorIs(t, err, apperrors.ErrNoFeaturedCredits)

	list, err := env.vehicle.ListBySeller(ctx, sellerEmail)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestVehicleService_CertifyUsesPlanAllowance(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, sellerEmail, models.UserRoleSeller, 0)
	env.addUser(t, adminEmail, models.UserRoleAdmin, 0)
	ctx := context.Background()

	v, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, 0))
	require.NoError(t, err)

	// free plan has no certifications
	_, err = env.vehicle.Certify(ctx, v.ID, sellerEmail)
	assert.ErrorIs(t, err, apperrors.ErrCertificationLimitReached)

	req := submitPro(t, env)
	_, err = env.payment.Approve(ctx, req.ID, adminEmail, "")
	require.NoError(t, err)

	certified, err := env.vehicle.Certify(ctx, v.ID, sellerEmail)
	require.NoError(t, err)
	assert.True(t, certified.IsCertified)
	assert.Equal(t, 1, env.reloadUser(t, sellerEmail).UsedCertifications)

	_, err = env.vehicle.Certify(ctx, v.ID, sellerEmail)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCertified)
}

func TestVehicleService_OwnershipChecks(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, sellerEmail, models.UserRoleSeller, 2)
	env.addUser(t, "t@x.com", models.UserRoleSeller, 2)
	ctx := context.Background()

	v, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, 0))
	require.NoError(t, err)

	_, err = env.vehicle.Feature(ctx, v.ID, "t@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotVehicleOwner)
	assert.ErrorIs(t, env.vehicle.Delete(ctx, v.ID, "t@x.com"), apperrors.ErrNotVehicleOwner)

	assert.ErrorIs(t, env.vehicle.Delete(ctx, "not-a-uuid", sellerEmail), apperrors.ErrVehicleNotFound)

	require.NoError(t, env.vehicle.Delete(ctx, v.ID, sellerEmail))
	assert.ErrorIs(t, env.vehicle.Delete(ctx, v.ID, sellerEmail), apperrors.ErrVehicleNotFound)
}

func TestVehicleService_SuspendedSellerCannotList(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, sellerEmail, models.UserRoleSeller, 3)
	ctx := context.Background()

	v, err := env.vehicle.Create(ctx, newVehicle(sellerEmail, 0))
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("email = ?", sellerEmail).
		Update("status", models.UserStatusSuspended).Error)

	_, err = env.vehicle.Create(ctx, newVehicle(sellerEmail, 1))
	assert.ErrorIs(t, err, apperrors.ErrAccountSuspended)

	_, err = env.vehicle.Feature(ctx, v.ID, sellerEmail)
	assert.ErrorIs(t, err, apperrors.ErrAccountSuspended)
	_, err = env.vehicle.Certify(ctx, v.ID, sellerEmail)
	assert.ErrorIs(t, err, apperrors.ErrAccountSuspended)
	assert.ErrorIs(t, env.vehicle.Delete(ctx, v.ID, sellerEmail), apperrors.ErrAccountSuspended)

	var seller models.User
	require.NoError(t, env.db.Where("email = ?", sellerEmail).First(&seller).Error)
	assert.Equal(t, 3, seller.FeaturedCredits)

	list, err := env.vehicle.ListBySeller(ctx, sellerEmail)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.payment.SubmitRequest(context.Background(), &models.SubmitPaymentRequest{
		SellerEmail: sellerEmail,
		PlanID:      models.PlanPro,
		Amount:      int64Ptr(999),
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountSuspended)
}
