package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/store/sqldb"
	"github.com/nihilcoder/promptlab/internal/validation"
)

type testServices struct {
	store       *sqldb.Store
	prompts     *PromptService
	collections *CollectionService
	tags        *TagService
}

func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqldb.Open("sqlite", filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	v := validation.New()
	return &testServices{
		store:       st,
		prompts:     NewPromptService(st, v, logger),
		collections: NewCollectionService(st, v, logger),
		tags:        NewTagService(st, logger),
	}
}

func createTestPrompt(t *testing.T, ts *testServices, ownerID int64, title string, public bool, tags ...string) *domain.Prompt {
	t.Helper()
	p, err := ts.prompts.Create(context.Background(), ownerID, PromptInput{
		Title:    title,
		Text:     "text of " + title,
		Tags:     tags,
		IsPublic: public,
	})
	require.NoError(t, err)
	return p
}

func createTestArtwork(t *testing.T, ts *testServices, id, imageURL string) *domain.Artwork {
	t.Helper()
	a := &domain.Artwork{ID: id, OwnerID: 1, Title: id, ImageURL: imageURL, CreatedAt: time.Now()}
	require.NoError(t, ts.store.CreateArtwork(context.Background(), a))
	return a
}
