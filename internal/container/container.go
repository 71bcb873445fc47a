package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-diet-assistant/app/db"
	"github.com/FACorreiaa/go-diet-assistant/app/events"
	"github.com/FACorreiaa/go-diet-assistant/app/storage"
	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/auth"
	foodLog "github.com/FACorreiaa/go-diet-assistant/internal/api/food_log"
	generativeAI "github.com/FACorreiaa/go-diet-assistant/internal/api/generative_ai"
	healthLog "github.com/FACorreiaa/go-diet-assistant/internal/api/health_log"
	llmChat "github.com/FACorreiaa/go-diet-assistant/internal/api/llm_chat"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/nutrition"
	restaurantSearch "github.com/FACorreiaa/go-diet-assistant/internal/api/restaurant_search"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/user"
	"github.com/FACorreiaa/go-diet-assistant/internal/store/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Repositories groups the persistence ports the services are built on.
type Repositories struct {
	Users    auth.UserRepo
	Profiles user.ProfileRepo
	FoodLogs foodLog.FoodLogRepo
	Health   healthLog.HealthLogRepo
}

// Deps are the external collaborators handed to Build.
// Images may be nil; Publisher defaults to a no-op.
type Deps struct {
	Repos     Repositories
	Model     llmChat.Model
	Searcher  restaurantSearch.Searcher
	Images    storage.ImageStore
	Publisher events.Publisher
}

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	AuthService      auth.AuthService
	AuthHandler      *auth.AuthHandler
	UserHandler      *user.HandlerImpl
	FoodLogHandler   *foodLog.HandlerImpl
	HealthLogHandler *healthLog.HandlerImpl
	ChatHandler      *llmChat.HandlerImpl

	closers []func() error
}

// NewContainer opens the configured store and external clients, then wires every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	repos, err := c.openRepositories(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.LLM, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	c.closers = append(c.closers, aiClient.Close)

	var images storage.ImageStore
	if cfg.Storage.S3.Enabled {
		s3Store, err := storage.NewS3ImageStore(ctx, cfg.Storage.S3, logger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create image store: %w", err)
		}
		images = s3Store
	}

	publisher, err := events.NewPublisher(ctx, cfg.Events, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	c.closers = append(c.closers, publisher.Close)

	c.wire(Deps{
		Repos:     repos,
		Model:     aiClient,
		Searcher:  restaurantSearch.NewKakaoClient(cfg.Search, logger),
		Images:    images,
		Publisher: publisher,
	})
	return c, nil
}

// Build wires handlers from already constructed dependencies.
func Build(cfg *config.Config, logger *slog.Logger, deps Deps) *Container {
	c := &Container{Config: cfg, Logger: logger}
	c.wire(deps)
	return c
}

func (c *Container) wire(deps Deps) {
	cfg, logger := c.Config, c.Logger
	loc := cfg.Location()

	authService := auth.NewAuthService(deps.Repos.Users, cfg.JWT, logger)
	c.AuthService = authService
	c.AuthHandler = auth.NewAuthHandler(authService, logger)

	profileService := user.NewProfileService(deps.Repos.Profiles, logger)
	c.UserHandler = user.NewHandlerImpl(profileService, logger)

	analyzer := nutrition.NewAnalyzer(deps.Model, logger)
	foodLogService := foodLog.NewFoodLogService(
		deps.Repos.FoodLogs,
		deps.Repos.Profiles,
		analyzer,
		deps.Images,
		deps.Publisher,
		cfg.History.FoodLimit,
		loc,
		logger,
	)
	c.FoodLogHandler = foodLog.NewHandlerImpl(foodLogService, logger)

	healthLogService := healthLog.NewHealthLogService(deps.Repos.Health, cfg.History.SugarLimit, loc, logger)
	c.HealthLogHandler = healthLog.NewHandlerImpl(healthLogService, logger)

	orchestrator := llmChat.NewOrchestrator(deps.Model, deps.Searcher, cfg.LLM, logger)
	chatService := llmChat.NewChatService(
		deps.Repos.Profiles,
		deps.Repos.FoodLogs,
		orchestrator,
		cfg.Chat.RecentLogs,
		cfg.Chat.MaxHistory,
		loc,
		logger,
	)
	c.ChatHandler = llmChat.NewLLMHandlerImpl(chatService, logger)
}

// ResolveDriver returns the configured repository driver. An empty driver
// means Postgres when a host is configured and SQLite otherwise.
func ResolveDriver(cfg *config.Config) string {
	if cfg.Repositories.Driver != "" {
		return cfg.Repositories.Driver
	}
	if cfg.Repositories.Postgres.Host == "" {
		return DriverSQLite
	}
	return DriverPostgres
}

func (c *Container) openRepositories(ctx context.Context) (Repositories, error) {
	switch driver := ResolveDriver(c.Config); driver {
	case DriverPostgres:
		pool, err := c.openPostgres(ctx)
		if err != nil {
			return Repositories{}, err
		}
		return Repositories{
			Users:    auth.NewPostgresAuthRepo(pool, c.Logger),
			Profiles: user.NewPostgresProfileRepo(pool, c.Logger),
			FoodLogs: foodLog.NewPostgresFoodLogRepo(pool, c.Logger),
			Health:   healthLog.NewPostgresHealthLogRepo(pool, c.Logger),
		}, nil
	case DriverSQLite:
		store, err := sqlite.Open(ctx, c.Config.Repositories.SQLite.Path, c.Logger)
		if err != nil {
			return Repositories{}, err
		}
		c.closers = append(c.closers, store.Close)
		return Repositories{Users: store, Profiles: store, FoodLogs: store, Health: store}, nil
	default:
		return Repositories{}, fmt.Errorf("unknown repository driver %q", driver)
	}
}

func (c *Container) openPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to generate database config: %w", err)
	}

	// Run migrations *before* initializing the main pool
	if err := database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	c.closers = append(c.closers, func() error { pool.Close(); return nil })

	if !database.WaitForDB(ctx, pool, c.Logger) {
		return nil, errors.New("database not ready after waiting")
	}
	return pool, nil
}

// Close releases all resources held by the container, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Failed to release resource", slog.Any("error", err))
		}
	}
	c.closers = nil
}
