package v1

import (
	"net/http"
	"time"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	CompanyUC     domain.CompanyUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	HealthUC      usecase.HealthUsecase
	LoginTracker  *security.LoginTracker
	UploadLimiter *security.UploadLimiter
	// Redis is optional; rate limits fall back to process memory without it
	Redis  *goredis.Client
	Config *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction)) // CORS must be first
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Redis, cfg.RateLimitGlobalThreshold, window)))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	})

	r.GET("/health", func(c *gin.Context) {
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", response.Payload{"checks": status})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC))

	loginLimit := middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(deps.Redis, cfg.RateLimitLoginThreshold, window))
	maxUpload := int64(cfg.MaxUploadMB) << 20

	NewAuthHandler(v1, protected, loginLimit, deps.AuthUC, deps.LoginTracker, deps.UploadLimiter, cfg)
	NewCompanyHandler(protected, deps.CompanyUC, deps.UploadLimiter, maxUpload)
	NewJobHandler(v1, protected, deps.JobUC)
	NewApplicationHandler(protected, deps.ApplicationUC)

	return r
}
