// Package settings reads persisted application settings from PostgreSQL.
//
// The settings table is owned by the administration surface of the
// platform; this package is strictly read-only. The one setting the
// retrieval core cares about is ai_provider, which selects the model
// backend for classification and embedding.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/ruraldesk/ruraldesk/internal/provider"
)

// KeyAIProvider is the app_settings key holding the active provider.
const KeyAIProvider = "ai_provider"

// rowQuerier is the subset of pgx operations the store needs.
// Satisfied by *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store resolves the active provider from the app_settings table.
//
// The value is re-read on every call, never cached, so a configuration
// change takes effect on the next query without a restart.
type Store struct {
	db       rowQuerier
	known    map[string]struct{}
	fallback string
	logger   *slog.Logger
}

// NewStore creates a settings store. knownProviders is the closed set of
// provider names the application can actually serve; a persisted value
// outside this set is treated as malformed. The fallback is the fixed
// default provider, or the first known one when the default is not
// configured.
func NewStore(db rowQuerier, knownProviders []string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	known := make(map[string]struct{}, len(knownProviders))
	for _, name := range knownProviders {
		known[name] = struct{}{}
	}
	fallback := provider.Default
	if _, ok := known[fallback]; !ok && len(knownProviders) > 0 {
		fallback = knownProviders[0]
	}
	return &Store{db: db, known: known, fallback: fallback, logger: logger}
}

// ActiveProvider returns the currently configured provider name.
//
// It never fails: if the setting row is absent, the JSON payload is
// malformed, the name is unknown, or the lookup itself errors, the fallback
// provider is returned instead. Callers downstream assume provider selection
// cannot abort a query.
func (s *Store) ActiveProvider(ctx context.Context) string {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT value FROM app_settings WHERE key = $1`, KeyAIProvider,
	).Scan(&raw)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("reading ai_provider setting, using default",
				"error", err, "default", s.fallback)
		}
		return s.fallback
	}

	var v struct {
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(raw, &v); err != nil || v.Provider == "" {
		s.logger.Warn("malformed ai_provider setting, using default",
			"default", s.fallback)
		return s.fallback
	}

	if _, ok := s.known[v.Provider]; !ok {
		s.logger.Warn("unknown provider in ai_provider setting, using default",
			"provider", v.Provider, "default", s.fallback)
		return s.fallback
	}

	return v.Provider
}
