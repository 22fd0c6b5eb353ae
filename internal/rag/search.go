package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// SimilarityThreshold is the minimum cosine similarity a candidate must
// meet to be returned. Filtering happens in SQL, not here.
const SimilarityThreshold = 0.7

// Chunk is one retrieved passage with its similarity score.
// Higher similarity means more relevant.
type Chunk struct {
	ID         uuid.UUID      `json:"id"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Similarity float64        `json:"similarity"`
}

// dbQuerier is the subset of pgx operations the searcher needs.
// Satisfied by *pgxpool.Pool and pgx.Tx.
type dbQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// matchChunksSQL calls the match_chunks function: approximate
// nearest-neighbor search with the threshold applied server-side and
// candidates restricted to one knowledge base and one provider. The
// provider filter is what keeps vectors of different dimensionalities from
// ever being compared.
const matchChunksSQL = `SELECT id, content, metadata, similarity
	FROM match_chunks($1, $2, $3, $4, $5)`

// ChunkSearcher performs vector search against the kb_chunks backend.
type ChunkSearcher struct {
	db     dbQuerier
	logger *slog.Logger
}

// NewChunkSearcher creates a searcher over the given database handle.
func NewChunkSearcher(db dbQuerier, logger *slog.Logger) *ChunkSearcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkSearcher{db: db, logger: logger}
}

// Search returns up to limit chunks from one knowledge base, ordered by
// similarity descending. Only chunks embedded by providerName are
// considered. A knowledge base id outside the taxonomy is not an error; it
// simply matches no rows.
func (s *ChunkSearcher) Search(ctx context.Context, embedding []float32, kb KnowledgeBase, providerName string, limit int) ([]Chunk, error) {
	rows, err := s.db.Query(ctx, matchChunksSQL,
		pgvector.NewVector(embedding), SimilarityThreshold, limit, string(kb), providerName)
	if err != nil {
		return nil, fmt.Errorf("searching knowledge base %q: %w", kb, err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var (
			c    Chunk
			meta []byte
		)
		if err := rows.Scan(&c.ID, &c.Content, &meta, &c.Similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk from %q: %w", kb, err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &c.Metadata); err != nil {
				s.logger.Warn("unparsable chunk metadata", "chunk_id", c.ID, "error", err)
			}
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching knowledge base %q: %w", kb, err)
	}
	return chunks, nil
}
