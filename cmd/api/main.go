package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard-backend/config"
	_ "go-jobboard-backend/docs" // Important for Swagger
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/storage"
	"go-jobboard-backend/pkg/telemetry"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Job Board API
// @version         1.0
// @description     Job board backend: accounts, companies, job postings and applications.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job board backend", "port", cfg.Port)

	environment := "development"
	if cfg.IsProduction {
		environment = "production"
	}
	secLogger := security.InitSecurityLogger(telemetry.ServiceName, environment)
	defer secLogger.Sync()

	ctx := context.Background()

	// 3. Tracing
	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Log.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// 4. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.MigrationsDir != "" {
		if err := database.NewMigrator(dbPool).MigrateFromDirectory(ctx, cfg.MigrationsDir); err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// 5. Redis (optional)
	var sessions domain.SessionStore = redis.NewMemorySessionStore()
	if cfg.RedisURL != "" {
		if err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
		} else {
			sessions = redis.NewSessionStore(redis.Client())
			defer redis.Close()
		}
	}
	redisClient := redis.Client()

	// 6. Object storage (optional)
	var files domain.FileStorage
	var storagePing usecase.Pinger
	if cfg.StorageConfigured() {
		s3Store, err := storage.NewS3Storage(ctx, storage.Config{
			Provider:        storage.Provider(cfg.S3Provider),
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Log.Error("Failed to configure object storage", "error", err)
			os.Exit(1)
		}
		files = s3Store
		storagePing = s3Store.Ping
	} else {
		logger.Log.Warn("Object storage not configured - file uploads will be unavailable")
	}

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 8. Setup UseCases
	validate := validation.New()
	maxUpload := cfg.MaxUploadMB << 20
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)

	authUC := usecase.NewAuthUsecase(userRepo, tokens, sessions, files, maxUpload, validate)
	companyUC := usecase.NewCompanyUsecase(companyRepo, userRepo, files, maxUpload, validate)
	jobUC := usecase.NewJobUsecase(jobRepo, companyRepo, applicationRepo, validate)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo)

	checks := map[string]usecase.Pinger{
		"database": dbPool.Ping,
		"storage":  storagePing,
		"redis":    nil,
	}
	if redisClient != nil {
		checks["redis"] = redis.HealthCheck
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 9. Security helpers
	loginTracker := security.NewLoginTracker(redisClient, security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
	}, secLogger)
	uploadLimiter := security.NewUploadLimiter(redisClient, 0)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     companyUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		LoginTracker:  loginTracker,
		UploadLimiter: uploadLimiter,
		Redis:         redisClient,
		Config:        cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Log.Error("Failed to flush traces", "error", err)
	}

	logger.Log.Info("Server exiting")
}
