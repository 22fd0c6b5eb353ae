// Package provider abstracts the external model backends used for text
// completion and embedding.
//
// Two interchangeable backends are supported: OpenAI and Gemini. Which one
// serves a given query is decided at call time from the persisted
// ai_provider setting (see internal/settings); business logic never
// branches on the provider name beyond that single selection point.
//
// Embedding dimensionality is provider-specific (OpenAI 1536, Gemini 768)
// and must match the dimensionality the vector backend was populated with
// for that provider. The retrieval layer filters candidates by provider
// name so that vectors from different providers are never compared.
package provider

import "context"

// Provider name identifiers. These are the only values the persisted
// ai_provider setting may take.
const (
	NameOpenAI = "openai"
	NameGemini = "gemini"
)

// Default is the provider used when the persisted setting is absent,
// malformed, or unreadable. Callers rely on provider selection never
// failing, so there is always a default to fall back to.
const Default = NameOpenAI

// TextCompleter produces a completion for a system instruction and a user
// message. Implementations must request temperature 0 so that the same
// input routes to the same knowledge bases.
type TextCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Embedder maps text to a fixed-length vector. A failure here is fatal to
// the enclosing query: there is no safe default embedding, and a zero
// vector would silently corrupt ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Provider bundles the two model capabilities behind one switchable backend.
type Provider interface {
	// Name returns the provider identifier (NameOpenAI or NameGemini).
	Name() string

	TextCompleter
	Embedder
}
