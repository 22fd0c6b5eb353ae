package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ruraldesk/ruraldesk/internal/log"
	"github.com/ruraldesk/ruraldesk/internal/rag"
)

// mockQuerier implements Querier with a canned result.
type mockQuerier struct {
	result   *rag.Result
	err      error
	lastOpts rag.Options
	panics   bool
}

func (m *mockQuerier) Query(_ context.Context, _ string, opts rag.Options) (*rag.Result, error) {
	m.lastOpts = opts
	if m.panics {
		panic("boom")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func newTestServer(t *testing.T, q Querier) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{Logger: log.NewNop(), Router: q})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func postQuery(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServerRequiresRouter(t *testing.T) {
	if _, err := NewServer(ServerConfig{Logger: log.NewNop()}); err == nil {
		t.Fatal("NewServer() should reject a nil router")
	}
}

func TestQueryEndpoint(t *testing.T) {
	q := &mockQuerier{
		result: &rag.Result{
			Chunks: []rag.Chunk{
				{Content: "telehealth reimbursement rules", Similarity: 0.91},
			},
			KnowledgeBases: []rag.KnowledgeBase{rag.KBTelehealth, rag.KBBilling},
			TotalResults:   7,
		},
	}

	rec := postQuery(t, newTestServer(t, q), `{"query":"telehealth billing?","maxChunks":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if q.lastOpts.MaxChunks != 5 {
		t.Errorf("MaxChunks = %d, want 5", q.lastOpts.MaxChunks)
	}

	var got rag.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.TotalResults != 7 || len(got.Chunks) != 1 || len(got.KnowledgeBases) != 2 {
		t.Errorf("unexpected response: %+v", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestQueryEndpointRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"query":`},
		{"empty query", `{"query":"  "}`},
		{"missing query", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postQuery(t, newTestServer(t, &mockQuerier{}), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestQueryEndpointRouterError(t *testing.T) {
	q := &mockQuerier{err: errors.New("provider unavailable")}

	rec := postQuery(t, newTestServer(t, q), `{"query":"anything"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "provider unavailable") {
		t.Error("response body leaks internal error details")
	}
}

func TestQueryEndpointMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/query", nil)
	rec := httptest.NewRecorder()
	newTestServer(t, &mockQuerier{}).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestServer(t, &mockQuerier{}).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestReadyEndpointWithoutPool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	newTestServer(t, &mockQuerier{}).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	rec := postQuery(t, newTestServer(t, &mockQuerier{result: &rag.Result{}}), `{"query":"q"}`)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestRequestIDHeaderPropagated(t *testing.T) {
	srv := newTestServer(t, &mockQuerier{result: &rag.Result{}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"query":"q"}`))
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want client value echoed", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	rec := postQuery(t, newTestServer(t, &mockQuerier{panics: true}), `{"query":"q"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	srv, err := NewServer(ServerConfig{
		Logger:    log.NewNop(),
		Router:    &mockQuerier{result: &rag.Result{}},
		RateRPS:   1,
		RateBurst: 2,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	var lastCode int
	for range 5 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"query":"q"}`))
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", lastCode)
	}

	// Health probes are not rate limited.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200 even when rate limited", rec.Code)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter(1, 2)

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("first requests within burst should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Error("request beyond burst should be denied")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("distinct IPs get their own bucket")
	}
}
