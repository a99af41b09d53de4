package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv        string
	LogLevel      string
	UserID        string
	EncryptionKey string

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// API server
	APIAddr string

	// OAuth
	OAuthProvider     string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthRedirectURL  string
	OAuthScopes       string

	// Calendar sync
	CalendarAPIBaseURL string
	SyncWindowPast     time.Duration
	SyncWindowFuture   time.Duration
	CalendarCacheTTL   time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		UserID:        getEnv("LIFEDASH_USER_ID", "00000000-0000-0000-0000-000000000001"),
		EncryptionKey: getEnv("LIFEDASH_ENCRYPTION_KEY", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("LIFEDASH_SQLITE_PATH", getDefaultSQLitePath()),
		RedisURL:      getEnv("REDIS_URL", ""),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),

		APIAddr: getEnv("API_ADDR", "0.0.0.0:8080"),

		OAuthProvider:     getEnv("OAUTH_PROVIDER", "google"),
		OAuthClientID:     getEnv("OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: getEnv("OAUTH_CLIENT_SECRET", ""),
		OAuthAuthURL:      getEnv("OAUTH_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
		OAuthTokenURL:     getEnv("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		OAuthRedirectURL:  getEnv("OAUTH_REDIRECT_URL", "http://localhost:8080/auth/callback"),
		OAuthScopes:       getEnv("OAUTH_SCOPES", "https://www.googleapis.com/auth/calendar"),

		CalendarAPIBaseURL: getEnv("CALENDAR_API_BASE_URL", ""),
		SyncWindowPast:     getDurationEnv("CALENDAR_SYNC_WINDOW_PAST", 30*24*time.Hour),
		SyncWindowFuture:   getDurationEnv("CALENDAR_SYNC_WINDOW_FUTURE", 90*24*time.Hour),
		CalendarCacheTTL:   getDurationEnv("CALENDAR_LIST_CACHE_TTL", 15*time.Minute),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsePostgres reports whether a Postgres DSN is configured.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getDefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lifedash/lifedash.db"
	}
	return home + "/.lifedash/lifedash.db"
}
