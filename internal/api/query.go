package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ruraldesk/ruraldesk/internal/rag"
)

// maxQueryBodySize caps the request body at 64 KiB. Questions are short; a
// larger body indicates a misbehaving client.
const maxQueryBodySize = 64 << 10

// Querier answers routed retrieval queries. Implemented by *rag.Router.
type Querier interface {
	Query(ctx context.Context, query string, opts rag.Options) (*rag.Result, error)
}

// queryRequest is the POST /api/v1/query request body.
type queryRequest struct {
	Query     string `json:"query"`
	MaxChunks int    `json:"maxChunks"`
}

// queryHandler serves routed retrieval requests.
type queryHandler struct {
	router Querier
	logger *slog.Logger
}

func (h *queryHandler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	body := http.MaxBytesReader(w, r.Body, maxQueryBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", h.logger)
		return
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, body)

	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "missing_query", "query cannot be empty", h.logger)
		return
	}

	result, err := h.router.Query(r.Context(), req.Query, rag.Options{MaxChunks: req.MaxChunks})
	if err != nil {
		requestID, _ := requestIDFromContext(r.Context())
		h.logger.Error("query failed", "error", err, "request_id", requestID)
		WriteError(w, http.StatusBadGateway, "query_failed", "query could not be answered", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.logger)
}
