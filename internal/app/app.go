// Package app provides application initialization and dependency wiring.
//
// App is the container that orchestrates all components: database pool,
// provider registry, settings store, chunk searcher, and the query router.
package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruraldesk/ruraldesk/internal/config"
	"github.com/ruraldesk/ruraldesk/internal/provider"
	"github.com/ruraldesk/ruraldesk/internal/rag"
	"github.com/ruraldesk/ruraldesk/internal/settings"
)

// App is the core application container.
type App struct {
	Config    *config.Config
	Pool      *pgxpool.Pool
	Providers *provider.Registry
	Settings  *settings.Store
	Router    *rag.Router

	logger           *slog.Logger
	tracingShutdown  func(context.Context) error
	shutdownComplete bool
}

// Close gracefully shuts down all resources.
func (a *App) Close(ctx context.Context) error {
	if a.shutdownComplete {
		return nil
	}
	a.shutdownComplete = true

	a.logger.Info("shutting down application")

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(ctx); err != nil {
			a.logger.Warn("flushing traces", "error", err)
		}
	}

	if a.Pool != nil {
		a.Pool.Close()
		a.logger.Info("database pool closed")
	}

	return nil
}
