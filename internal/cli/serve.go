package cli

import (
	"log/slog"
	"time"

	"github.com/SscSPs/dues_ledger/internal/core/services"
	"github.com/SscSPs/dues_ledger/internal/handlers"
	"github.com/SscSPs/dues_ledger/internal/middleware"
	"github.com/SscSPs/dues_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	repos, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("Database connection established.", slog.String("driver", cfg.DBDriver))

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(logger, cfg.DBDriver, cfg.DSN(), database.Up); err != nil {
			return err
		}
	}

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.PrometheusMiddleware())

	apiLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	r.Use(middleware.RateLimit(apiLimiter))

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, repos.Pinger); err != nil {
		return err
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	return r.Run(":" + cfg.Port)
}
