package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/dues_ledger/cmd/docs"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/middleware"
	"github.com/SscSPs/dues_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	pinger portsrepo.Pinger,
) error {
	registerValidators()

	// Liveness and readiness
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/health/ready", func(c *gin.Context) {
		if pinger == nil {
			c.String(http.StatusOK, "OK")
			return
		}
		if err := pinger.Ping(c.Request.Context()); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Readiness check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database unavailable"})
			return
		}
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginLimiter, err := middleware.NewRateLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("login rate limiter: %w", err)
	}

	// Register public authentication routes
	registerAuthRoutes(r, middleware.GinMiddlewarize(loginLimiter), services.Member, services.Token)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerMemberRoutes(v1, services.Member)
	registerLedgerRoutes(v1, services.Ledger)
	registerReportingRoutes(v1, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
