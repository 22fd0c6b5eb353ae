// Package cmd provides CLI commands for RuralDesk.
//
// Commands:
//   - serve: HTTP API server exposing the query endpoint
//   - ask: one-shot query from the terminal
//   - migrate: apply pending database migrations
//
// Signal handling and graceful shutdown are implemented for all commands via
// context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the RuralDesk CLI application.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "ask":
		return runAsk(os.Args[2:])
	case "migrate":
		return runMigrate()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("RuralDesk - knowledge base query router for rural health clinics")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ruraldesk serve            Start the HTTP API server")
	fmt.Println("  ruraldesk ask <question>   Answer one question from the terminal")
	fmt.Println("  ruraldesk migrate          Apply pending database migrations")
	fmt.Println("  ruraldesk --version        Show version information")
	fmt.Println("  ruraldesk --help           Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  OPENAI_API_KEY             OpenAI API key")
	fmt.Println("  GEMINI_API_KEY             Gemini API key (at least one key is required)")
	fmt.Println("  DATABASE_URL               PostgreSQL URL (overrides postgres_* config)")
	fmt.Println("  DEBUG                      Optional: enable debug logging")
}
