package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/nihilcoder/promptlab/internal/errors"
	"github.com/nihilcoder/promptlab/internal/id"
	"github.com/nihilcoder/promptlab/internal/store/query"
)

func TestCollectionService_Create(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	desc := "  "
	c, err := ts.collections.Create(ctx, 3, CreateCollectionInput{Name: " Landscapes ", Description: &desc, IsPublic: true})
	require.NoError(t, err)
	assert.True(t, id.HasPrefix(c.ID, id.PrefixCollection))
	assert.Equal(t, "Landscapes", c.Name)
	assert.Nil(t, c.Description)
	assert.Equal(t, int64(3), c.OwnerID)

	_, err = ts.collections.Create(ctx, 3, CreateCollectionInput{Name: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCollectionService_PrivateIsHiddenFromOthers(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	c, err := ts.collections.Create(ctx, 1, CreateCollectionInput{Name: "Secret"})
	require.NoError(t, err)

	_, err = ts.collections.Get(ctx, 2, c.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = ts.collections.Get(ctx, 0, c.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = ts.collections.ListItems(ctx, 2, c.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = ts.collections.Get(ctx, 1, c.ID)
	assert.NoError(t, err)
}

func TestCollectionService_MutationsRequireOwnership(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	c, err := ts.collections.Create(ctx, 1, CreateCollectionInput{Name: "Mine", IsPublic: true})
	require.NoError(t, err)
	createTestArtwork(t, ts, "art-1", "https://img.example/1.png")

	name := "Hijacked"
	_, err = ts.collections.Update(ctx, 2, c.ID, UpdateCollectionInput{Name: &name})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = ts.collections.AddItem(ctx, 2, c.ID, ItemInput{ItemID: "art-1", ItemType: "artwork"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, _, err = ts.collections.BulkAddItems(ctx, 2, c.ID, []ItemInput{{ItemID: "art-1", ItemType: "artwork"}})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = ts.collections.RemoveItem(ctx, 2, c.ID, "art-1")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = ts.collections.Delete(ctx, 2, c.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := ts.collections.Get(ctx, 2, c.ID)
	require.NoError(t, err, "public collection stays readable")
	assert.Equal(t, "Mine", got.Name)
}

func TestCollectionService_Items(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	c, err := ts.collections.Create(ctx, 1, CreateCollectionInput{Name: "Art"})
	require.NoError(t, err)
	createTestArtwork(t, ts, "art-1", "https://img.example/1.png")

	added, err := ts.collections.AddItem(ctx, 1, c.ID, ItemInput{ItemID: "art-1", ItemType: "artwork"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = ts.collections.AddItem(ctx, 1, c.ID, ItemInput{ItemID: "art-1", ItemType: "artwork"})
	require.NoError(t, err)
	assert.False(t, added)

	got, err := ts.collections.Get(ctx, 1, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ItemCount)
	require.NotNil(t, got.CoverImage)
	assert.Equal(t, "https://img.example/1.png", *got.CoverImage)

	removed, err := ts.collections.RemoveItem(ctx, 1, c.ID, "art-404")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	removed, err = ts.collections.RemoveItem(ctx, 1, c.ID, "art-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestCollectionService_AddItemRequiresVisibleContent(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	c, err := ts.collections.Create(ctx, 1, CreateCollectionInput{Name: "Art"})
	require.NoError(t, err)
	private := createTestPrompt(t, ts, 2, "theirs", false)
	public := createTestPrompt(t, ts, 2, "shared", true)

	_, err = ts.collections.AddItem(ctx, 1, c.ID, ItemInput{ItemID: private.ID, ItemType: "prompt"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = ts.collections.AddItem(ctx, 1, c.ID, ItemInput{ItemID: "art-missing", ItemType: "artwork"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = ts.collections.AddItem(ctx, 1, c.ID, ItemInput{ItemID: public.ID, ItemType: "video"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	added, err := ts.collections.AddItem(ctx, 1, c.ID, ItemInput{ItemID: public.ID, ItemType: "prompt"})
	require.NoError(t, err)
	assert.True(t, added)
}

func TestCollectionService_BulkAddItems(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	c, err := ts.collections.Create(ctx, 1, CreateCollectionInput{Name: "Art"})
	require.NoError(t, err)
	createTestArtwork(t, ts, "art-1", "u1")
	createTestArtwork(t, ts, "art-2", "u2")
	p := createTestPrompt(t, ts, 1, "mine", false)

	inserted, items, err := ts.collections.BulkAddItems(ctx, 1, c.ID, []ItemInput{
		{ItemID: "art-1", ItemType: "artwork"},
		{ItemID: "art-2", ItemType: "artwork"},
		{ItemID: p.ID, ItemType: "prompt"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)
	assert.Len(t, items, 3)

	inserted, items, err = ts.collections.BulkAddItems(ctx, 1, c.ID, []ItemInput{{ItemID: "art-1", ItemType: "artwork"}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)
	assert.Len(t, items, 1)

	_, _, err = ts.collections.BulkAddItems(ctx, 1, c.ID, nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, _, err = ts.collections.BulkAddItems(ctx, 1, c.ID, []ItemInput{
		{ItemID: "art-1", ItemType: "artwork"},
		{ItemID: "art-missing", ItemType: "artwork"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	tooMany := make([]ItemInput, MaxBulkItems+1)
	for i := range tooMany {
		tooMany[i] = ItemInput{ItemID: "art-1", ItemType: "artwork"}
	}
	_, _, err = ts.collections.BulkAddItems(ctx, 1, c.ID, tooMany)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCollectionService_UpdateAndDelete(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	c, err := ts.collections.Create(ctx, 1, CreateCollectionInput{Name: "Old"})
	require.NoError(t, err)

	blank := "  "
	_, err = ts.collections.Update(ctx, 1, c.ID, UpdateCollectionInput{Name: &blank})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	name := "New"
	public := true
	updated, err := ts.collections.Update(ctx, 1, c.ID, UpdateCollectionInput{Name: &name, IsPublic: &public})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.True(t, updated.IsPublic)

	require.NoError(t, ts.collections.Delete(ctx, 1, c.ID))
	_, err = ts.collections.Get(ctx, 1, c.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCollectionService_List(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	_, err := ts.collections.Create(ctx, 1, CreateCollectionInput{Name: "mine private"})
	require.NoError(t, err)
	_, err = ts.collections.Create(ctx, 2, CreateCollectionInput{Name: "theirs public", IsPublic: true})
	require.NoError(t, err)

	own, err := ts.collections.List(ctx, 1, query.ScopeOwn, 0, 0)
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "mine private", own.Items[0].Name)

	public, err := ts.collections.List(ctx, 1, query.ScopePublic, 0, 0)
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	assert.Equal(t, "theirs public", public.Items[0].Name)

	anon, err := ts.collections.List(ctx, 0, query.ScopeOwn, 0, 0)
	require.NoError(t, err)
	assert.Len(t, anon.Items, 1)

	_, err = ts.collections.List(ctx, 1, query.ScopeOwn, 0, -3)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
