// Package app wires the nextup dependencies into a Container used by the
// CLI adapter.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/commands"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/queries"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/infrastructure/cache"
	"github.com/felixgeelhaar/nextup/internal/ranking/infrastructure/persistence"
	"github.com/felixgeelhaar/nextup/internal/settings"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/nextup/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/nextup/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// UserID identifies the local user all commands run as.
	UserID uuid.UUID

	// Database (exactly one backend is active)
	SQLiteDB     *sql.DB
	PostgresPool *pgxpool.Pool

	// Redis (optional tuning cache)
	RedisClient *redis.Client

	// Repositories
	TaskRepo       task.Repository
	ComparisonRepo comparison.Repository
	TuningRepo     tuning.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Publishers
	EventPublisher eventbus.Publisher

	// Command handlers
	CreateTaskHandler          *commands.CreateTaskHandler
	RecordComparisonHandler    *commands.RecordComparisonHandler
	ApplyInitialRankingHandler *commands.ApplyInitialRankingHandler
	ResetRatingsHandler        *commands.ResetRatingsHandler
	CompleteTaskHandler        *commands.CompleteTaskHandler
	ArchiveTaskHandler         *commands.ArchiveTaskHandler
	UpdateTaskHandler          *commands.UpdateTaskHandler

	// Query handlers
	ListTasksHandler         *queries.ListTasksHandler
	GetTaskHandler           *queries.GetTaskHandler
	SelectFocusHandler       *queries.SelectFocusHandler
	ComparisonHistoryHandler *queries.ComparisonHistoryHandler

	// Settings
	SettingsService *settings.Service
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid NEXTUP_USER_ID: %w", err)
	}
	c.UserID = userID

	if cfg.DatabaseURL != "" {
		if err := c.connectPostgres(ctx); err != nil {
			return nil, err
		}
	} else {
		if err := c.connectSQLite(ctx); err != nil {
			return nil, err
		}
	}

	// Connect to Redis (optional tuning cache)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid Redis URL, tuning cache disabled", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis not available, tuning cache disabled", "error", err)
				_ = client.Close()
			} else {
				c.RedisClient = client
				c.TuningRepo = cache.NewRedisTuningCache(c.TuningRepo, client, logger)
				logger.Info("connected to Redis")
			}
		}
	}

	// Create event publisher
	if cfg.PublishEvents && cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if cfg.IsProduction() {
				c.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using in-process bus", "error", err)
			c.EventPublisher = eventbus.NewInProcessBus(logger)
		} else {
			c.EventPublisher = eventbus.NewBreakerPublisher(publisher, logger)
		}
	} else {
		c.EventPublisher = eventbus.NewInProcessBus(logger)
	}

	// Create command handlers
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.TuningRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.RecordComparisonHandler = commands.NewRecordComparisonHandler(c.TaskRepo, c.ComparisonRepo, c.TuningRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.ApplyInitialRankingHandler = commands.NewApplyInitialRankingHandler(c.TaskRepo, c.TuningRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.ResetRatingsHandler = commands.NewResetRatingsHandler(c.TaskRepo, c.ComparisonRepo, c.TuningRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.TaskRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.ArchiveTaskHandler = commands.NewArchiveTaskHandler(c.TaskRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.TaskRepo, c.UnitOfWork, c.EventPublisher, logger)

	// Create query handlers
	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo, c.TuningRepo)
	c.SelectFocusHandler = queries.NewSelectFocusHandler(c.TaskRepo, c.TuningRepo)
	c.ComparisonHistoryHandler = queries.NewComparisonHistoryHandler(c.TaskRepo, c.ComparisonRepo)

	// Create settings service
	c.SettingsService = settings.NewService(c.TuningRepo, logger)

	return c, nil
}

func (c *Container) connectSQLite(ctx context.Context) error {
	db, err := database.OpenSQLite(ctx, c.Config.SQLitePath)
	if err != nil {
		return err
	}
	c.SQLiteDB = db

	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := ensureSQLiteUser(ctx, db, c.UserID); err != nil {
		db.Close()
		return err
	}

	c.TaskRepo = persistence.NewSQLiteTaskRepository(db)
	c.ComparisonRepo = persistence.NewSQLiteComparisonRepository(db)
	c.TuningRepo = persistence.NewSQLiteTuningRepository(db)
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)

	c.Logger.Info("connected to SQLite database")
	return nil
}

func (c *Container) connectPostgres(ctx context.Context) error {
	pool, err := database.OpenPostgres(ctx, c.Config.DatabaseURL)
	if err != nil {
		return err
	}
	c.PostgresPool = pool

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := ensurePostgresUser(ctx, pool, c.UserID); err != nil {
		pool.Close()
		return err
	}

	c.TaskRepo = persistence.NewPostgresTaskRepository(pool)
	c.ComparisonRepo = persistence.NewPostgresComparisonRepository(pool)
	c.TuningRepo = persistence.NewPostgresTuningRepository(pool)
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	c.Logger.Info("connected to Postgres database")
	return nil
}

// ensureSQLiteUser creates the local user row the task foreign keys
// reference. Existing rows are left untouched.
func ensureSQLiteUser(ctx context.Context, db *sql.DB, userID uuid.UUID) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, email, name) VALUES (?, ?, ?)`,
		userID.String(), fmt.Sprintf("%s@local", userID), "Local User",
	)
	if err != nil {
		return fmt.Errorf("failed to ensure local user: %w", err)
	}
	return nil
}

func ensurePostgresUser(ctx context.Context, pool *pgxpool.Pool, userID uuid.UUID) error {
	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		userID, fmt.Sprintf("%s@local", userID), "Local User",
	)
	if err != nil {
		return fmt.Errorf("failed to ensure local user: %w", err)
	}
	return nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", "error", err)
		}
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close SQLite database", "error", err)
		}
	}

	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
}
