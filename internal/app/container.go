// Package app wires configuration, storage, and services into a running
// application.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	calendarapp "github.com/lifedash/lifedash/internal/calendar/application"
	"github.com/lifedash/lifedash/internal/calendar/infrastructure/cache"
	"github.com/lifedash/lifedash/internal/calendar/infrastructure/google"
	goalapp "github.com/lifedash/lifedash/internal/goals/application"
	habitapp "github.com/lifedash/lifedash/internal/habits/application"
	"github.com/lifedash/lifedash/internal/identity/application/oauth"
	jobapp "github.com/lifedash/lifedash/internal/jobs/application"
	noteapp "github.com/lifedash/lifedash/internal/notes/application"
	sharedcrypto "github.com/lifedash/lifedash/internal/shared/infrastructure/crypto"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/database/postgres"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/database/sqlite"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/eventbus"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/migrations"
	"github.com/lifedash/lifedash/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	// Storage
	SQLiteDB     *sql.DB
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client

	// Messaging
	Publisher eventbus.Publisher

	// Services
	OAuthService    *oauth.Service
	SyncService     *calendarapp.SyncService
	CalendarService *calendarapp.CalendarService
	HabitService    *habitapp.HabitService
	GoalService     *goalapp.GoalService
	NoteService     *noteapp.NoteService
	JobService      *jobapp.JobService
}

// NewContainer builds the full dependency graph from configuration. SQLite
// is the default store; a DATABASE_URL switches everything to Postgres.
// Redis, RabbitMQ, and the OAuth provider are optional and leave their
// features disabled when unconfigured.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid LIFEDASH_USER_ID: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger, UserID: userID}

	var repos repositories
	if cfg.UsePostgres() {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL, 10)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		c.PostgresPool = pool
		repos = postgresRepositories(pool)
		logger.Info("using postgres store")
	} else {
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		c.SQLiteDB = db
		repos = sqliteRepositories(db)
		logger.Info("using sqlite store", "path", cfg.SQLitePath)
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect rabbitmq: %w", err)
		}
		c.Publisher = publisher
	} else {
		c.Publisher = eventbus.NewInProcessBus(logger)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		c.RedisClient = redis.NewClient(opts)
	}

	encrypter, err := buildEncrypter(cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	if cfg.OAuthClientID != "" && cfg.OAuthClientSecret != "" {
		authService, err := oauth.NewService(
			cfg.OAuthProvider,
			cfg.OAuthClientID,
			cfg.OAuthClientSecret,
			cfg.OAuthAuthURL,
			cfg.OAuthTokenURL,
			cfg.OAuthRedirectURL,
			oauth.ScopesFromEnv(cfg.OAuthScopes),
			repos.Tokens,
			encrypter,
		)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to build oauth service: %w", err)
		}
		c.OAuthService = authService

		var listCache calendarapp.CalendarListCache
		if c.RedisClient != nil {
			listCache = cache.NewCalendarListCache(c.RedisClient, cfg.CalendarCacheTTL)
		}
		client := google.NewClient(authService, logger, cfg.CalendarAPIBaseURL)
		c.SyncService = calendarapp.NewSyncService(
			authService,
			client,
			repos.Events,
			listCache,
			c.Publisher,
			calendarapp.SyncWindow{Past: cfg.SyncWindowPast, Future: cfg.SyncWindowFuture},
			logger,
		)
	} else {
		logger.Info("calendar provider not configured, sync disabled")
	}

	var synthetic calendarapp.SyntheticCategorySource
	if c.SyncService != nil {
		synthetic = c.SyncService
	}
	c.CalendarService = calendarapp.NewCalendarService(repos.Events, repos.Categories, synthetic, c.Publisher, logger)
	c.HabitService = habitapp.NewHabitService(repos.Habits, c.Publisher, logger)
	c.GoalService = goalapp.NewGoalService(repos.Goals, c.Publisher, logger)
	c.NoteService = noteapp.NewNoteService(repos.Notes, c.Publisher, logger)
	c.JobService = jobapp.NewJobService(repos.Jobs, c.Publisher, logger)

	return c, nil
}

// buildEncrypter returns AES-GCM when a key is configured. Without a key
// tokens are stored in the clear, acceptable only for local development.
func buildEncrypter(cfg *config.Config, logger *slog.Logger) (sharedcrypto.Encrypter, error) {
	if cfg.EncryptionKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("LIFEDASH_ENCRYPTION_KEY is required in production")
		}
		logger.Warn("no encryption key configured, tokens stored unencrypted")
		return sharedcrypto.NoopEncrypter{}, nil
	}
	return sharedcrypto.NewAESGCMFromBase64Key(cfg.EncryptionKey)
}

// Close releases every held connection. Safe to call on a partially built
// container.
func (c *Container) Close() {
	if closer, ok := c.Publisher.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil {
			c.Logger.Warn("failed to close publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close sqlite", "error", err)
		}
	}
}
