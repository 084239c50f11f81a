// Package store defines the persistence interface for the prompt library.
package store

import (
	"context"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/store/query"
)

// Store defines every persistence operation used by the service layer.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Prompts
	ListPrompts(ctx context.Context, opts query.PromptListOptions) (*domain.PromptPage, error)
	GetPrompt(ctx context.Context, id string, viewerID int64) (*domain.Prompt, error)
	CreatePrompt(ctx context.Context, p *domain.Prompt) error
	UpdatePrompt(ctx context.Context, id string, ownerID int64, fields domain.PromptFields) (*domain.Prompt, error)
	DeletePrompt(ctx context.Context, id string, ownerID int64) error
	ToggleFavorite(ctx context.Context, id string, ownerID int64) (bool, error)
	IncrementUsage(ctx context.Context, id string, viewerID int64) (int64, error)

	// Tags
	ListPopularTags(ctx context.Context, limit int) ([]domain.TagCount, error)
	ListPromptTags(ctx context.Context, promptID string) ([]string, error)

	// Collections
	CreateCollection(ctx context.Context, c *domain.Collection) error
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)
	FindOwnedCollection(ctx context.Context, id string, ownerID int64) (*domain.Collection, error)
	ListCollections(ctx context.Context, opts query.CollectionListOptions) (*domain.CollectionPage, error)
	UpdateCollection(ctx context.Context, id string, ownerID int64, fields domain.CollectionFields) (*domain.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
	AddItem(ctx context.Context, collectionID string, ref domain.ItemRef) (bool, error)
	RemoveItem(ctx context.Context, collectionID, itemID string) (int64, error)
	BulkAddItems(ctx context.Context, collectionID string, refs []domain.ItemRef) (int64, []*domain.CollectionItem, error)
	ListItems(ctx context.Context, collectionID string) ([]*domain.CollectionItem, error)

	// Artworks
	CreateArtwork(ctx context.Context, a *domain.Artwork) error
	GetArtwork(ctx context.Context, id string) (*domain.Artwork, error)
}
