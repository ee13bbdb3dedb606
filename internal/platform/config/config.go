package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret  = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer  = "dues-ledger"
	defaultJWTExpiry  = time.Hour
	defaultRateLimit  = "100-M"
	defaultLoginLimit = "5-M"
)

// Config holds application configuration.
type Config struct {
	// DBDriver selects the storage backend: "postgres" or "sqlite".
	DBDriver      string
	DatabaseURL   string
	SQLitePath    string
	RunMigrations bool
	EnableDBCheck bool

	Port         string
	IsProduction bool
	LogLevel     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RateLimit and LoginRateLimit use the ulule limiter format, e.g. "100-M".
	RateLimit          string
	LoginRateLimit     string
	CORSAllowedOrigins []string

	// AllocationMaxRetries bounds how often a payment is retried after a concurrent-write conflict.
	AllocationMaxRetries int
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.DatabaseURL
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	// Values from .env are already in the environment, which AutomaticEnv picks up.
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "data/dues_ledger.db")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", defaultJWTExpiry.String())
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("LOGIN_RATE_LIMIT", defaultLoginLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("ALLOCATION_MAX_RETRIES", 3)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDriver:             strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:          v.GetString("PGSQL_URL"),
		SQLitePath:           v.GetString("SQLITE_PATH"),
		RunMigrations:        v.GetBool("RUN_MIGRATIONS"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		RateLimit:            v.GetString("RATE_LIMIT"),
		LoginRateLimit:       v.GetString("LOGIN_RATE_LIMIT"),
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AllocationMaxRetries: v.GetInt("ALLOCATION_MAX_RETRIES"),
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when DB_DRIVER is postgres")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set when DB_DRIVER is sqlite")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", cfg.DBDriver)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT not set, using default", slog.String("port", cfg.Port))
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiry <= 0 {
		jwtExpiry = defaultJWTExpiry
		slog.Warn("Invalid value for JWT_EXPIRY_DURATION, using default",
			slog.String("value", jwtExpiryStr), slog.String("default", jwtExpiry.String()))
	}
	cfg.JWTExpiryDuration = jwtExpiry

	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
	}
	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.LoginRateLimit == "" {
		cfg.LoginRateLimit = defaultLoginLimit
	}
	if cfg.AllocationMaxRetries < 0 {
		return nil, fmt.Errorf("ALLOCATION_MAX_RETRIES cannot be negative, got %d", cfg.AllocationMaxRetries)
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
