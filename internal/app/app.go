package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"automarket_backend/internal/config"
	"automarket_backend/internal/email"
	"automarket_backend/internal/handlers"
	"automarket_backend/internal/logger"
	"automarket_backend/internal/middleware"
	"automarket_backend/internal/repositories"
	"automarket_backend/internal/repositories/plans"
	"automarket_backend/internal/routes"
	"automarket_backend/internal/services"
	"automarket_backend/internal/storage"
	"automarket_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := repositories.Migrate(gormDB); err != nil {
		logger.Fatal("Database migration failed", "error", err)
	}

	serviceContainer, fileStore, err := initializeServices(cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	if err := seedFirstAdmin(serviceContainer.UserService, cfg); err != nil {
		// без админа заявки некому одобрять
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := SetupRouter(serviceContainer, sqlDB)
	if local, ok := fileStore.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		ginRouter.Static(cfg.Storage.BaseURL, local.BasePath())
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires handlers and middleware around an existing service container.
func SetupRouter(serviceContainer *services.ServiceContainer, sqlDB *sql.DB) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer, sqlDB)
	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) (*services.ServiceContainer, storage.Storage, error) {
	planStore, err := newPlanStore(cfg, gormDB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Plan override store initialized", "store", cfg.Plans.Store)

	fileStore, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository(gormDB, cfg.Database.QueryTimeout)
	paymentRepo := repositories.NewPaymentRequestRepository(gormDB, cfg.Database.QueryTimeout)
	vehicleRepo := repositories.NewVehicleRepository(gormDB, cfg.Database.QueryTimeout)

	// --- Инициализация сервисов ---
	planService := services.NewPlanService(planStore, cfg.Plans.MaxPlans)
	notifier := services.NewEmailPaymentNotifier(newEmailProvider(cfg))
	proofs := storage.NewProofUploader(fileStore, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes)

	return &services.ServiceContainer{
		PlanService:    planService,
		PaymentService: services.NewPaymentService(userRepo, paymentRepo, planService, notifier, proofs),
		UserService:    services.NewUserService(userRepo, vehicleRepo, planService),
		VehicleService: services.NewVehicleService(vehicleRepo, userRepo, planService),
	}, fileStore, nil
}

func newPlanStore(cfg *config.Config, gormDB *gorm.DB) (plans.Store, error) {
	var store plans.Store
	switch cfg.Plans.Store {
	case config.PlanStoreMemory:
		logger.Warn("Plan edits are kept in memory and lost on restart")
		store = plans.NewMemoryStore()
	case config.PlanStorePostgres:
		store = plans.NewGormStore(gormDB)
	case config.PlanStoreRedis:
		client, err := plans.NewRedisClient(context.Background(), cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		store = plans.NewRedisStore(client, cfg.Plans.RedisKey)
	default:
		return nil, fmt.Errorf("unknown plan store %q", cfg.Plans.Store)
	}
	return plans.WithTimeout(store, cfg.Database.QueryTimeout), nil
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email is disabled, notifications are only logged")
		return &MockEmailProvider{}
	}

	provider := email.NewGomailProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, email.NewDefaultTemplateManager())
	if err := provider.Validate(); err != nil {
		logger.Warn("Invalid SMTP configuration, falling back to log-only email", "error", err)
		return &MockEmailProvider{}
	}
	return provider
}

func initializeHandlers(serviceContainer *services.ServiceContainer, sqlDB *sql.DB) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	var pinger handlers.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}

	return &handlers.AppHandlers{
		PlanHandler:           handlers.NewPlanHandler(baseHandler, serviceContainer.PlanService),
		PaymentRequestHandler: handlers.NewPaymentRequestHandler(baseHandler, serviceContainer.PaymentService),
		UserHandler:           handlers.NewUserHandler(baseHandler, serviceContainer.UserService),
		VehicleHandler:        handlers.NewVehicleHandler(baseHandler, serviceContainer.VehicleService),
		HealthHandler:         handlers.NewHealthHandler(pinger),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedFirstAdmin(userService services.UserService, cfg *config.Config) error {
	if cfg.Admin.FirstEmail == "" || cfg.Admin.FirstPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := userService.SeedFirstAdmin(ctx, cfg.Admin.FirstEmail, cfg.Admin.FirstPassword, cfg.Admin.FirstName)
	if err != nil {
		return err
	}
	if created {
		logger.Info("✅ Successfully created first admin user", "email", cfg.Admin.FirstEmail)
	} else {
		logger.Info("Admin user already exists. Skipping creation.")
	}
	return nil
}
