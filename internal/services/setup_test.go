package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"automarket_backend/internal/models"
	"automarket_backend/internal/repositories"
	"automarket_backend/internal/repositories/plans"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingNotifier struct {
	mu       sync.Mutex
	approved []string
	rejected []string
	err      error
}

func (n *recordingNotifier) PaymentApproved(ctx context.Context, seller *models.User, req *models.PaymentRequest, plan *models.Plan) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved = append(n.approved, seller.Email)
	return n.err
}

func (n *recordingNotifier) PaymentRejected(ctx context.Context, seller *models.User, req *models.PaymentRequest, plan *models.Plan) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected = append(n.rejected, seller.Email)
	return n.err
}

type fakeUploader struct {
	err error
}

func (u *fakeUploader) Upload(ctx context.Context, sellerEmail, filename string, size int64, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.test/payment-proofs/" + filename, nil
}

type testEnv struct {
	db       *gorm.DB
	users    repositories.UserRepository
	payments repositories.PaymentRequestRepository
	vehicles repositories.VehicleRepository
	planSvc  PlanService
	payment  PaymentService
	userSvc  UserService
	vehicle  VehicleService
	notifier *recordingNotifier
	uploader *fakeUploader
}

func newTestEnv(t *testing.T) *testEnv {
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
	require.NoError(t, repositories.Migrate(db))

	env := &testEnv{
		db:       db,
		users:    repositories.NewUserRepository(db, time.Second),
		payments: repositories.NewPaymentRequestRepository(db, time.Second),
		vehicles: repositories.NewVehicleRepository(db, time.Second),
		planSvc:  NewPlanService(plans.NewMemoryStore(), models.MaxCatalogPlans),
		notifier: &recordingNotifier{},
		uploader: &fakeUploader{},
	}
	env.payment = NewPaymentService(env.users, env.payments, env.planSvc, env.notifier, env.uploader)
	env.userSvc = NewUserService(env.users, env.vehicles, env.planSvc)
	env.vehicle = NewVehicleService(env.vehicles, env.users, env.planSvc)
	return env
}

func (e *testEnv) addUser(t *testing.T, email string, role models.UserRole, credits int) *models.User {
	t.Helper()
	user := &models.User{
		Email:           email,
		Name:            "User " + email,
		PasswordHash:    "hash",
		Role:            role,
		FeaturedCredits: credits,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) reloadUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.users.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	return user
}

// failingStore simulates an unreachable plan store.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) Get(ctx context.Context, id models.PlanID) (models.PlanOverride, error) {
	return models.PlanOverride{}, errStoreDown
}
func (failingStore) Put(ctx context.Context, id models.PlanID, o models.PlanOverride) error {
	return errStoreDown
}
func (failingStore) Delete(ctx context.Context, id models.PlanID) (bool, error) {
	return false, errStoreDown
}
func (failingStore) List(ctx context.Context) ([]plans.Entry, error) {
	return nil, errStoreDown
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
