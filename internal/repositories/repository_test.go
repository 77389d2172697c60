package repositories

import (
	"context"
	"testing"
	"time"

	"automarket_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func createUser(t *testing.T, repo UserRepository, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test " + string(role), PasswordHash: "x", Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, time.Second)
	ctx := context.Background()

	created := createUser(t, repo, "s@x.com", models.UserRoleSeller)
	assert.NotEmpty(t, created.ID)

	found, err := repo.FindByEmail(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, found.SubscriptionPlan)
	assert.Equal(t, models.UserStatusActive, found.Status)

	_, err = repo.FindByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = repo.Create(ctx, &models.User{Email: "s@x.com", PasswordHash: "y", Role: models.UserRoleSeller})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	byEmail, err := repo.FindByEmails(ctx, []string{"s@x.com", "missing@x.com"})
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)
}

func TestUserRepository_SeedAdmin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, time.Second)
	ctx := context.Background()

	created, err := repo.SeedAdmin(ctx, &models.User{Email: "a@x.com", PasswordHash: "h", Role: models.UserRoleAdmin})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.SeedAdmin(ctx, &models.User{Email: "b@x.com", PasswordHash: "h", Role: models.UserRoleAdmin})
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.CountByRole(ctx, models.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPaymentRequestRepository_OnePendingPerSeller(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db, time.Second)
	repo := NewPaymentRequestRepository(db, time.Second)
	ctx := context.Background()
	createUser(t, users, "s@x.com", models.UserRoleSeller)

	first := &models.PaymentRequest{SellerEmail: "s@x.com", PlanID: models.PlanPro, Amount: 999, Status: models.PaymentStatusPending}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	second := &models.PaymentRequest{SellerEmail: "s@x.com", PlanID: models.PlanPremium, Amount: 2499, Status: models.PaymentStatusPending}
	assert.ErrorIs(t, repo.Create(ctx, second), ErrPendingRequestExists)

	pending, err := repo.HasPending(ctx, "s@x.com")
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestPaymentRequestRepository_ResolveAppliesGrant(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db, time.Second)
	repo := NewPaymentRequestRepository(db, time.Second)
	ctx := context.Background()

	seller := &models.User{Email: "s@x.com", PasswordHash: "x", Role: models.UserRoleSeller, FeaturedCredits: 2}
	require.NoError(t, users.Create(ctx, seller))

	req := &models.PaymentRequest{SellerEmail: "s@x.com", PlanID: models.PlanPro, Amount: 999, Status: models.PaymentStatusPending}
	require.NoError(t, repo.Create(ctx, req))

	notes := "looks good"
	resolved, err := repo.Resolve(ctx, models.PaymentResolution{
		RequestID:  req.ID,
		Status:     models.PaymentStatusApproved,
		AdminEmail: "a@x.com",
		ResolvedAt: time.Now().UTC(),
		Notes:      &notes,
	}, &models.EntitlementGrant{SellerEmail: "s@x.com", PlanID: models.PlanPro, FeaturedCredits: 5})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "a@x.com", *resolved.ResolvedBy)
	require.NotNil(t, resolved.Notes)
	assert.Equal(t, "looks good", *resolved.Notes)
	assert.NotNil(t, resolved.ResolvedAt)

	updated, err := users.FindByEmail(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, 7, updated.FeaturedCredits)
	assert.Equal(t, models.PlanPro, updated.SubscriptionPlan)

	// terminal: a second resolution is refused and changes nothing
	_, err = repo.Resolve(ctx, models.PaymentResolution{
		RequestID:  req.ID,
		Status:     models.PaymentStatusRejected,
		AdminEmail: "a@x.com",
		ResolvedAt: time.Now().UTC(),
	}, nil)
	assert.ErrorIs(t, err, ErrRequestNotPending)

	_, err = repo.Resolve(ctx, models.PaymentResolution{RequestID: "00000000-0000-0000-0000-000000000000", Status: models.PaymentStatusRejected}, nil)
	assert.ErrorIs(t, err, ErrPaymentRequestNotFound)
}

func TestPaymentRequestRepository_HistoryAndLatest(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db, time.Second)
	repo := NewPaymentRequestRepository(db, time.Second)
	ctx := context.Background()
	createUser(t, users, "s@x.com", models.UserRoleSeller)

	old := &models.PaymentRequest{
		SellerEmail: "s@x.com", PlanID: models.PlanPro, Amount: 999,
		Status: models.PaymentStatusPending, RequestedAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, old))
	_, err := repo.Resolve(ctx, models.PaymentResolution{
		RequestID: old.ID, Status: models.PaymentStatusRejected, AdminEmail: "a@x.com", ResolvedAt: time.Now().UTC(),
	}, nil)
	require.NoError(t, err)

	latest := &models.PaymentRequest{SellerEmail: "s@x.com", PlanID: models.PlanPremium, Amount: 2499, Status: models.PaymentStatusPending}
	require.NoError(t, repo.Create(ctx, latest))

	got, err := repo.FindLatestBySeller(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, latest.ID, got.ID)

	history, err := repo.ListBySeller(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	pending, err := repo.List(ctx, models.PaymentStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, latest.ID, pending[0].ID)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.FindLatestBySeller(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrPaymentRequestNotFound)
}

func TestVehicleRepository_FeatureAndCertify(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db, time.Second)
	repo := NewVehicleRepository(db, time.Second)
	ctx := context.Background()

	seller := &models.User{Email: "s@x.com", PasswordHash: "x", Role: models.UserRoleSeller, FeaturedCredits: 1}
	require.NoError(t, users.Create(ctx, seller))

	first := &models.Vehicle{SellerEmail: "s@x.com", Make: "Toyota", Model: "Corolla", Year: 2019, ImageURLs: []string{"https://img/1.jpg"}}
	second := &models.Vehicle{SellerEmail: "s@x.com", Make: "Honda", Model: "Civic", Year: 2020}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	count, err := repo.CountActiveBySeller(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	featured, err := repo.Feature(ctx, first.ID, "s@x.com")
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)

	_, err = repo.Feature(ctx, first.ID, "s@x.com")
	assert.ErrorIs(t, err, ErrVehicleAlreadyFeatured)

	// out of credits: the vehicle update is rolled back with the transaction
	_, err = repo.Feature(ctx, second.ID, "s@x.com")
	assert.ErrorIs(t, err, ErrNoFeaturedCredits)
	reloaded, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsFeatured)

	certified, err := repo.Certify(ctx, first.ID, "s@x.com", 1)
	require.NoError(t, err)
	assert.True(t, certified.IsCertified)

	_, err = repo.Certify(ctx, second.ID, "s@x.com", 1)
	assert.ErrorIs(t, err, ErrCertificationLimit)

	list, err := repo.ListBySeller(ctx, "s@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, []string{"https://img/1.jpg"}, []string(list[0].ImageURLs))

	require.NoError(t, repo.Delete(ctx, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, second.ID), ErrVehicleNotFound)
}
