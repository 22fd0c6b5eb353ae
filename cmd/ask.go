package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ruraldesk/ruraldesk/internal/app"
	"github.com/ruraldesk/ruraldesk/internal/config"
	"github.com/ruraldesk/ruraldesk/internal/rag"
)

// runAsk answers a single question from the command line and prints the
// ranked chunks.
func runAsk(args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("usage: ruraldesk ask <question>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(context.Background()); closeErr != nil {
			slog.Warn("shutdown error", "error", closeErr)
		}
	}()

	result, err := a.Router.Query(ctx, question, rag.Options{})
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	printResult(question, result)
	return nil
}

func printResult(question string, result *rag.Result) {
	kbs := make([]string, len(result.KnowledgeBases))
	for i, kb := range result.KnowledgeBases {
		kbs[i] = string(kb)
	}

	fmt.Printf("Question: %s\n", question)
	fmt.Printf("Knowledge bases: %s\n", strings.Join(kbs, ", "))
	fmt.Printf("Matches: %d shown of %d found\n\n", len(result.Chunks), result.TotalResults)

	if len(result.Chunks) == 0 {
		fmt.Println("No relevant passages found.")
		return
	}

	for i, c := range result.Chunks {
		fmt.Printf("--- %d. (similarity %.3f)\n%s\n\n", i+1, c.Similarity, c.Content)
	}
}
