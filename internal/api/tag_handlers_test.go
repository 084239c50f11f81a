package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPopularTags_EmptyInitially(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/tags/popular")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[PopularTagsResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data.Tags)
	assert.Empty(t, envelope.Data.Tags)
}

func TestListPopularTags_SortedByCount(t *testing.T) {
	ts := setupTestServer(t, nil)
	ts.createPrompt(t, alice, map[string]any{"title": "a", "text": "x", "tags": []string{"portrait", "moody"}})
	ts.createPrompt(t, alice, map[string]any{"title": "b", "text": "x", "tags": []string{"portrait", "landscape"}})
	ts.createPrompt(t, bob, map[string]any{"title": "c", "text": "x", "tags": []string{"portrait", "moody", " cinematic "}})

	resp := ts.api.Get("/api/v1/tags/popular")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Ties are broken alphabetically.
	assert.Equal(t, []TagCountResponse{
		{Tag: "portrait", Count: 3},
		{Tag: "moody", Count: 2},
		{Tag: "cinematic", Count: 1},
		{Tag: "landscape", Count: 1},
	}, decodeEnvelope[PopularTagsResponse](t, resp).Data.Tags)

	resp = ts.api.Get("/api/v1/tags/popular?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decodeEnvelope[PopularTagsResponse](t, resp).Data.Tags
	require.Len(t, tags, 2)
	assert.Equal(t, "moody", tags[1].Tag)
}

func TestListPopularTags_ReflectsDeletes(t *testing.T) {
	ts := setupTestServer(t, nil)
	p := ts.createPrompt(t, alice, map[string]any{"title": "a", "text": "x", "tags": []string{"solo"}})

	resp := ts.api.Delete("/api/v1/prompts/"+p.ID, ts.authHeader(alice))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/tags/popular")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[PopularTagsResponse](t, resp).Data.Tags)
}

func TestListPromptTags_Visibility(t *testing.T) {
	ts := setupTestServer(t, nil)
	p := ts.createPrompt(t, alice, map[string]any{"title": "a", "text": "x", "tags": []string{"zeta", "alpha"}})

	resp := ts.api.Get("/api/v1/prompts/"+p.ID+"/tags", ts.authHeader(alice))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, []string{"zeta", "alpha"}, decodeEnvelope[PromptTagsResponse](t, resp).Data.Tags)

	resp = ts.api.Get("/api/v1/prompts/"+p.ID+"/tags", ts.authHeader(bob))
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND")
}
