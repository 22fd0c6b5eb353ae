package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	// geminiCompletionModel is the model used for intent classification.
	geminiCompletionModel = "gemini-2.5-flash"

	// geminiEmbeddingModel outputs 3072 dimensions by default but supports
	// truncation via OutputDimensionality (Matryoshka Representation
	// Learning). The kb_chunks rows tagged provider=gemini were populated
	// at 768 dimensions.
	geminiEmbeddingModel = "gemini-embedding-001"

	// GeminiEmbeddingDim is the vector dimensionality produced by Embed.
	GeminiEmbeddingDim int32 = 768
)

// Gemini implements Provider backed by the Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini provider with the given API key.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Name returns "gemini".
func (*Gemini) Name() string { return NameGemini }

// Complete issues a temperature-0 generation with a system instruction.
func (p *Gemini) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, geminiCompletionModel,
		genai.Text(user),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](0),
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini completion: empty response")
	}
	return text, nil
}

// Embed generates a 768-dimensional embedding for the given text.
func (p *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := GeminiEmbeddingDim
	resp, err := p.client.Models.EmbedContent(ctx, geminiEmbeddingModel,
		genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &dim},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embedding: empty response")
	}
	return resp.Embeddings[0].Values, nil
}
