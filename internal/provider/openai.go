package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// openAICompletionModel is the chat model used for intent classification.
	openAICompletionModel = openai.ChatModelGPT4oMini

	// openAIEmbeddingModel is the embedding model. text-embedding-3-small
	// outputs 1536 dimensions; the kb_chunks rows tagged provider=openai
	// were populated with the same model.
	openAIEmbeddingModel = openai.EmbeddingModelTextEmbedding3Small

	// OpenAIEmbeddingDim is the vector dimensionality produced by Embed.
	OpenAIEmbeddingDim = 1536
)

// OpenAI implements Provider backed by the OpenAI API.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates an OpenAI provider with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Name returns "openai".
func (*OpenAI) Name() string { return NameOpenAI }

// Complete issues a temperature-0 chat completion.
func (p *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openAICompletionModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed generates a 1536-dimensional embedding for the given text.
func (p *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openAIEmbeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embedding: empty response")
	}

	// The API returns float64; pgvector stores float32.
	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
