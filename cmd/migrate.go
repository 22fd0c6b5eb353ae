package cmd

import (
	"fmt"

	"github.com/ruraldesk/ruraldesk/db"
	"github.com/ruraldesk/ruraldesk/internal/config"
)

// runMigrate applies pending database migrations and exits. serve and ask
// also migrate on startup; this command exists for deploy pipelines that
// migrate before rolling out.
func runMigrate() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	fmt.Println("migrations applied")
	return nil
}
