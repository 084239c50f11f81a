package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihilcoder/promptlab/internal/auth"
	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/ratelimit"
	"github.com/nihilcoder/promptlab/internal/service"
	"github.com/nihilcoder/promptlab/internal/store/sqldb"
	"github.com/nihilcoder/promptlab/internal/validation"
)

// testEnvelope mirrors both envelope shapes for decoding in tests.
type testEnvelope[T any] struct {
	V       int               `json:"v"`
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api      humatest.TestAPI
	store    *sqldb.Store
	verifier *auth.TokenVerifier
}

// setupTestServer creates a server over a fresh SQLite database.
// A nil limiter disables rate limiting.
func setupTestServer(t *testing.T, limiter *ratelimit.KeyedRateLimiter) *testServer {
	t.Helper()

	log := logger.Discard()

	st, err := sqldb.Open("sqlite", filepath.Join(t.TempDir(), "test.db"), log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	keyHex, err := auth.GenerateKeyHex()
	require.NoError(t, err)
	verifier, err := auth.NewTokenVerifier(keyHex, auth.DefaultIssuer)
	require.NoError(t, err)

	v := validation.New()
	services := &Services{
		Prompt:     service.NewPromptService(st, v, log.Logger),
		Collection: service.NewCollectionService(st, v, log.Logger),
		Tag:        service.NewTagService(st, log.Logger),
	}

	s := NewServer(Options{
		Store:    st,
		Services: services,
		Verifier: verifier,
		Limiter:  limiter,
		Logger:   log,
	})

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.API()),
		store:    st,
		verifier: verifier,
	}
}

// authHeader returns a humatest header argument for userID.
func (ts *testServer) authHeader(userID int64) string {
	return "Authorization: Bearer " + ts.verifier.Issue(userID, time.Hour)
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), "body: %s", resp.Body.String())
	require.Equal(t, EnvelopeVersion, envelope.V)
	return envelope
}

// requireError checks status and error code of an error envelope.
func requireError(t *testing.T, resp *httptest.ResponseRecorder, status int, code string) testEnvelope[any] {
	t.Helper()
	require.Equal(t, status, resp.Code, "body: %s", resp.Body.String())
	envelope := decodeEnvelope[any](t, resp)
	assert.False(t, envelope.Success)
	assert.Equal(t, code, envelope.Code)
	return envelope
}

func (ts *testServer) createPrompt(t *testing.T, ownerID int64, body map[string]any) PromptResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/prompts", ts.authHeader(ownerID), body)
	require.Equal(t, http.StatusCreated, resp.Code, "body: %s", resp.Body.String())
	return decodeEnvelope[PromptResponse](t, resp).Data
}

func (ts *testServer) createArtwork(t *testing.T, id string) {
	t.Helper()
	err := ts.store.CreateArtwork(context.Background(), &domain.Artwork{
		ID:        id,
		OwnerID:   99,
		Title:     "Artwork " + id,
		ImageURL:  fmt.Sprintf("https://img.example/%s.png", id),
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

// === Tests ===

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/health")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}

func TestHealthCheck_StoreClosed(t *testing.T) {
	ts := setupTestServer(t, nil)
	require.NoError(t, ts.store.Close())

	resp := ts.api.Get("/api/v1/health")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp)
	assert.Equal(t, "unhealthy", envelope.Data.Status)
}

func TestUnknownRoute_NotFound(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/nothing-here")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestOpenAPI_ListsOperations(t *testing.T) {
	ts := setupTestServer(t, nil)

	oapi := ts.API().OpenAPI()
	require.NotNil(t, oapi.Paths)
	for _, path := range []string{
		"/api/v1/prompts",
		"/api/v1/prompts/{id}",
		"/api/v1/prompts/{id}/favorite",
		"/api/v1/prompts/{id}/use",
		"/api/v1/prompts/{id}/tags",
		"/api/v1/tags/popular",
		"/api/v1/collections",
		"/api/v1/collections/{id}/items/bulk",
		"/api/v1/collections/{id}/items/{itemId}",
	} {
		assert.Contains(t, oapi.Paths, path)
	}
}
