package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"automarket_backend/internal/middleware"
	"automarket_backend/internal/models"
	"automarket_backend/internal/repositories"
	"automarket_backend/internal/repositories/plans"
	"automarket_backend/internal/services"
	"automarket_backend/internal/storage"
	"automarket_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type apiEnv struct {
	router *gin.Engine
	users  repositories.UserRepository
}

func newAPI(t *testing.T, planStore plans.Store) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repositories.Migrate(db))

	local, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository(db, time.Second)
	paymentRepo := repositories.NewPaymentRequestRepository(db, time.Second)
	vehicleRepo := repositories.NewVehicleRepository(db, time.Second)

	planService := services.NewPlanService(planStore, models.MaxCatalogPlans)
	proofs := storage.NewProofUploader(local, 1024, []string{"image/png", "application/pdf"})

	base := NewBaseHandler(validator.New())
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware(), middleware.CORSMiddleware())
	router.GET("/health", NewHealthHandler(sqlDB).Health)

	api := router.Group("/api/v1")
	NewPlanHandler(base, planService).RegisterRoutes(api)
	NewPaymentRequestHandler(base, services.NewPaymentService(userRepo, paymentRepo, planService, nil, proofs)).RegisterRoutes(api)
	NewUserHandler(base, services.NewUserService(userRepo, vehicleRepo, planService)).RegisterRoutes(api)
	NewVehicleHandler(base, services.NewVehicleService(vehicleRepo, userRepo, planService)).RegisterRoutes(api)

	return &apiEnv{router: router, users: userRepo}
}

func (e *apiEnv) addUser(t *testing.T, email string, role models.UserRole) {
	t.Helper()
	require.NoError(t, e.users.Create(context.Background(), &models.User{
		Email:        email,
		Name:         "User " + email,
		PasswordHash: "hash",
		Role:         role,
	}))
}

func (e *apiEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// downStore fails every call the way an unreachable backend would.
type downStore struct{}

var errDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (downStore) Get(ctx context.Context, id models.PlanID) (models.PlanOverride, error) {
	return models.PlanOverride{}, errDown
}
func (downStore) Put(ctx context.Context, id models.PlanID, o models.PlanOverride) error {
	return errDown
}
func (downStore) Delete(ctx context.Context, id models.PlanID) (bool, error) {
	return false, errDown
}
func (downStore) List(ctx context.Context) ([]plans.Entry, error) {
	return nil, errDown
}
