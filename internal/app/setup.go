package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ruraldesk/ruraldesk/db"
	"github.com/ruraldesk/ruraldesk/internal/config"
	"github.com/ruraldesk/ruraldesk/internal/database"
	"github.com/ruraldesk/ruraldesk/internal/observability"
	"github.com/ruraldesk/ruraldesk/internal/provider"
	"github.com/ruraldesk/ruraldesk/internal/rag"
	"github.com/ruraldesk/ruraldesk/internal/settings"
)

// Setup initializes the full application: migrations, database pool,
// provider registry, settings store, and query router.
//
// Providers are constructed for every API key present in the configuration.
// The active one is chosen per query from the settings store.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := database.Open(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var providers []provider.Provider
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, provider.NewOpenAI(cfg.OpenAIAPIKey))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := provider.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating gemini provider: %w", err)
		}
		providers = append(providers, gemini)
	}

	registry, err := provider.NewRegistry(providers...)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating provider registry: %w", err)
	}

	store := settings.NewStore(pool, registry.Names(), logger)
	searcher := rag.NewChunkSearcher(pool, logger)

	router, err := rag.NewRouter(store, registry, searcher, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating query router: %w", err)
	}

	a := &App{
		Config:    cfg,
		Pool:      pool,
		Providers: registry,
		Settings:  store,
		Router:    router,
		logger:    logger,
	}

	if cfg.Tracing.Enabled {
		shutdown, err := observability.Setup(ctx, observability.Config{
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
			Environment: cfg.Tracing.Environment,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("setting up tracing: %w", err)
		}
		a.tracingShutdown = shutdown
	}

	logger.Info("application initialized",
		"providers", registry.Names(),
		"tracing", cfg.Tracing.Enabled,
	)

	return a, nil
}
