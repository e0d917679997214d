package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Auth provider (managed identity service consumed over its REST API)
	AuthURL       string
	AuthAPIKey    string
	AuthJWTSecret string

	// Analysis service
	AnalysisURL           string
	AnalysisTimeout       time.Duration
	AnalysisWebhookSecret string

	// Uploads
	UploadMaxBytes int64
	UploadMaxFiles int

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Supabase Storage, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "FitAI"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/fitai.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Auth provider
		AuthURL:       envRequired("AUTH_URL"), // Required: base URL of the managed auth API
		AuthAPIKey:    envString("AUTH_API_KEY", ""),
		AuthJWTSecret: envRequired("AUTH_JWT_SECRET"), // Required: secret the provider signs session tokens with

		// Analysis service
		AnalysisURL:           envRequired("ANALYSIS_URL"), // Required: base URL of the AI analysis service
		AnalysisTimeout:       envDuration("ANALYSIS_TIMEOUT", 30*time.Second),
		AnalysisWebhookSecret: envRequired("ANALYSIS_WEBHOOK_SECRET"), // Required: shared secret for result callbacks

		// Uploads
		UploadMaxBytes: envInt64("UPLOAD_MAX_BYTES", 100<<20), // 100MB per request
		UploadMaxFiles: envInt("UPLOAD_MAX_FILES", 3),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (S3-compatible - required for video uploads)
		S3Region:    envRequired("S3_REGION"),
		S3Bucket:    envRequired("S3_BUCKET"),
		S3AccessKey: envRequired("S3_ACCESS_KEY"),
		S3SecretKey: envRequired("S3_SECRET_KEY"),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
func validateProduction(cfg *Config) {
	if cfg.DBDriver == "sqlite" {
		slog.Error("production deployment requires a Postgres-compatible DB_DRIVER",
			"hint", "set DB_DRIVER=pgx and DB_CONNECTION to the managed database DSN")
		os.Exit(1)
	}
	if cfg.AuthAPIKey == "" {
		slog.Error("production deployment requires AUTH_API_KEY")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
