package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ruraldesk/ruraldesk/internal/provider"
)

// DefaultMaxChunks is the total result budget used when the caller does
// not specify one.
const DefaultMaxChunks = 10

// tracerName identifies spans emitted by the router.
const tracerName = "github.com/ruraldesk/ruraldesk/internal/rag"

// ProviderSelector resolves the active model provider name. Implementations
// must not fail; on any lookup problem they return the fixed default.
type ProviderSelector interface {
	ActiveProvider(ctx context.Context) string
}

// Searcher performs one nearest-neighbor lookup against a single knowledge
// base. Implemented by ChunkSearcher; mocked in tests.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, kb KnowledgeBase, providerName string, limit int) ([]Chunk, error)
}

// Options configures one Query call.
type Options struct {
	// MaxChunks is the total result budget. Values <= 0 mean
	// DefaultMaxChunks.
	MaxChunks int
}

// Result is the outcome of one routed retrieval.
type Result struct {
	// Chunks is ordered by similarity descending and holds at most
	// MaxChunks entries.
	Chunks []Chunk `json:"chunks"`

	// KnowledgeBases lists every knowledge base consulted, in
	// classification order, regardless of whether its query succeeded.
	KnowledgeBases []KnowledgeBase `json:"relevantKnowledgeBases"`

	// TotalResults is the number of chunks retrieved before truncation.
	TotalResults int `json:"totalResults"`
}

// Router is the public entry point of the retrieval core.
//
// Router is safe for concurrent use by multiple goroutines.
type Router struct {
	selector  ProviderSelector
	providers *provider.Registry
	searcher  Searcher
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewRouter creates a query router.
func NewRouter(selector ProviderSelector, providers *provider.Registry, searcher Searcher, logger *slog.Logger) (*Router, error) {
	if selector == nil {
		return nil, fmt.Errorf("provider selector is required")
	}
	if providers == nil {
		return nil, fmt.Errorf("provider registry is required")
	}
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		selector:  selector,
		providers: providers,
		searcher:  searcher,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// Query routes a free-text question to the relevant knowledge bases and
// returns a merged, similarity-ranked result set.
//
// Classification and embedding failures are fatal and propagate to the
// caller; no partial result is returned for them. A failure confined to a
// single knowledge base degrades to zero matches for that base. Retry
// policy, if any, belongs to the caller, as does cancellation: the given
// context is threaded through every provider and backend call.
func (r *Router) Query(ctx context.Context, query string, opts Options) (*Result, error) {
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}

	ctx, span := r.tracer.Start(ctx, "rag.query",
		trace.WithAttributes(attribute.Int("rag.max_chunks", maxChunks)))
	defer span.End()

	// One snapshot per query: the setting is re-read every call so a
	// provider change applies on the next query, but never mid-pipeline.
	providerName := r.selector.ActiveProvider(ctx)
	p, err := r.providers.Get(providerName)
	if err != nil {
		return nil, fmt.Errorf("resolving provider: %w", err)
	}
	span.SetAttributes(attribute.String("rag.provider", providerName))

	kbs, err := r.classify(ctx, p, query)
	if err != nil {
		return nil, err
	}

	embedding, err := r.embed(ctx, p, query)
	if err != nil {
		return nil, err
	}

	flat := r.fanOut(ctx, embedding, kbs, providerName, perKBLimit(maxChunks, len(kbs)))
	total := len(flat)

	// Stable sort: ties keep the fan-out emission order. No secondary key
	// is defined, so stability is the only tie-break contract.
	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Similarity > flat[j].Similarity
	})
	if len(flat) > maxChunks {
		flat = flat[:maxChunks]
	}

	span.SetAttributes(
		attribute.Int("rag.total_results", total),
		attribute.Int("rag.returned", len(flat)),
	)
	r.logger.Debug("rag query complete",
		"provider", providerName,
		"knowledge_bases", len(kbs),
		"total_results", total,
		"returned", len(flat))

	return &Result{Chunks: flat, KnowledgeBases: kbs, TotalResults: total}, nil
}

func (r *Router) classify(ctx context.Context, p provider.Provider, query string) ([]KnowledgeBase, error) {
	ctx, span := r.tracer.Start(ctx, "rag.classify")
	defer span.End()

	kbs, err := classifyIntent(ctx, p, query, r.logger)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(kbs))
	for i, kb := range kbs {
		ids[i] = string(kb)
	}
	span.SetAttributes(attribute.StringSlice("rag.knowledge_bases", ids))
	return kbs, nil
}

func (r *Router) embed(ctx context.Context, p provider.Provider, query string) ([]float32, error) {
	ctx, span := r.tracer.Start(ctx, "rag.embed")
	defer span.End()

	embedding, err := p.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	span.SetAttributes(attribute.Int("rag.embedding_dim", len(embedding)))
	return embedding, nil
}

// fanOut issues one search per knowledge base concurrently and waits for
// all of them. Each goroutine writes to its own slot, so no locking is
// needed, and the single query embedding is shared read-only.
//
// A failed search degrades to an empty slice for that knowledge base; the
// failure is logged but never interrupts the siblings or the merge.
func (r *Router) fanOut(ctx context.Context, embedding []float32, kbs []KnowledgeBase, providerName string, limit int) []Chunk {
	ctx, span := r.tracer.Start(ctx, "rag.fanout",
		trace.WithAttributes(attribute.Int("rag.per_kb_limit", limit)))
	defer span.End()

	perKB := make([][]Chunk, len(kbs))
	var wg sync.WaitGroup
	for i, kb := range kbs {
		wg.Add(1)
		go func(i int, kb KnowledgeBase) {
			defer wg.Done()
			chunks, err := r.searcher.Search(ctx, embedding, kb, providerName, limit)
			if err != nil {
				r.logger.Warn("knowledge base query failed, treating as no matches",
					"knowledge_base", kb, "error", err)
				return
			}
			perKB[i] = chunks
		}(i, kb)
	}
	wg.Wait()

	// Flatten in classification order so stable sorting has a
	// deterministic base order.
	var flat []Chunk
	for _, chunks := range perKB {
		flat = append(flat, chunks...)
	}
	return flat
}

// perKBLimit is the per-knowledge-base result budget:
// ceil(maxChunks / kbCount).
func perKBLimit(maxChunks, kbCount int) int {
	return (maxChunks + kbCount - 1) / kbCount
}
