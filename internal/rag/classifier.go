package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ruraldesk/ruraldesk/internal/provider"
)

// classifierInstruction builds the system instruction enumerating the
// taxonomy. The model is asked for a bare JSON array, but responses wrapped
// in Markdown code fences are tolerated.
func classifierInstruction() string {
	var b strings.Builder
	b.WriteString("You classify questions from rural health clinic staff into knowledge bases.\n")
	b.WriteString("The available knowledge bases are:\n")
	for _, e := range taxonomy {
		fmt.Fprintf(&b, "- %s: %s\n", e.id, e.desc)
	}
	b.WriteString("\nRespond with a JSON array of the knowledge base identifiers relevant to the question, ")
	b.WriteString("most relevant first. Respond with the JSON array only, no other text.")
	return b.String()
}

// classifyIntent maps a free-text query to the knowledge bases likely to
// contain relevant content, using a deterministic completion call.
//
// The model output is tolerated but not trusted: a response that cannot be
// parsed as a non-empty JSON string array falls back to the single default
// knowledge base. Identifiers outside the taxonomy are passed through
// unvalidated; the backend's filter simply matches nothing for them.
//
// A provider call failure is returned as an error and aborts the query.
func classifyIntent(ctx context.Context, llm provider.TextCompleter, query string, logger *slog.Logger) ([]KnowledgeBase, error) {
	resp, err := llm.Complete(ctx, classifierInstruction(), query)
	if err != nil {
		return nil, fmt.Errorf("classifying intent: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &ids); err != nil || len(ids) == 0 {
		logger.Warn("unparsable classifier response, falling back to default knowledge base",
			"default", DefaultKnowledgeBase, "response_len", len(resp))
		return []KnowledgeBase{DefaultKnowledgeBase}, nil
	}

	kbs := make([]KnowledgeBase, len(ids))
	for i, id := range ids {
		kbs[i] = KnowledgeBase(id)
	}
	return kbs, nil
}

// stripCodeFence removes surrounding Markdown code fence markup, with or
// without a language tag, from a model response.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as "json" on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if first != "" && !strings.HasPrefix(first, "[") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
