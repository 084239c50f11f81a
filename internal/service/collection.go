package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nihilcoder/promptlab/internal/domain"
	domainerrors "github.com/nihilcoder/promptlab/internal/errors"
	"github.com/nihilcoder/promptlab/internal/id"
	"github.com/nihilcoder/promptlab/internal/store"
	"github.com/nihilcoder/promptlab/internal/store/query"
	"github.com/nihilcoder/promptlab/internal/validation"
)

// MaxBulkItems caps how many items one bulk add may carry.
const MaxBulkItems = 100

// CreateCollectionInput is the payload for a new collection.
type CreateCollectionInput struct {
	Description *string `json:"description,omitempty" validate:"omitnil,max=1000"`
	Name        string  `json:"name" validate:"notblank,max=100"`
	IsPublic    bool    `json:"isPublic"`
}

// UpdateCollectionInput changes only the fields that are set.
type UpdateCollectionInput struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,notblank,max=100"`
	Description *string `json:"description,omitempty" validate:"omitnil,max=1000"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// ItemInput identifies content to add to a collection.
type ItemInput struct {
	ItemID   string `json:"itemId" validate:"notblank"`
	ItemType string `json:"itemType" validate:"oneof=prompt artwork"`
}

func (in ItemInput) ref() domain.ItemRef {
	return domain.ItemRef{ID: strings.TrimSpace(in.ItemID), Type: domain.ItemType(in.ItemType)}
}

type bulkItemsInput struct {
	Items []ItemInput `json:"items" validate:"min=1,dive"`
}

// CollectionService orchestrates collection operations with ownership enforcement.
// Every mutation first resolves the collection scoped to its owner.
type CollectionService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     store,
		validator: validator,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a new collection owned by ownerID.
func (s *CollectionService) Create(ctx context.Context, ownerID int64, in CreateCollectionInput) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	collectionID, err := id.NewCollection()
	if err != nil {
		return nil, fmt.Errorf("generate collection ID: %w", err)
	}

	now := s.now()
	c := &domain.Collection{
		ID:          collectionID,
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: nonEmpty(in.Description),
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateCollection(ctx, c); err != nil {
		return nil, translate(ctx, s.logger, "create collection", "collection", err)
	}

	logFor(ctx, s.logger).Info("collection created",
		"collection_id", c.ID,
		"owner_id", ownerID,
		"name", c.Name,
	)

	return c, nil
}

// Get returns a collection the viewer owns or that is public.
// A private collection of another user is reported as not found.
func (s *CollectionService) Get(ctx context.Context, viewerID int64, collectionID string) (*domain.Collection, error) {
	c, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, translate(ctx, s.logger, "get collection", "collection", err)
	}
	if !c.IsPublic && (viewerID == 0 || c.OwnerID != viewerID) {
		return nil, domainerrors.NotFound("collection not found")
	}
	return c, nil
}

// List returns the viewer's own collections, or every public collection
// when scope is public or the viewer is anonymous.
func (s *CollectionService) List(ctx context.Context, viewerID int64, scope string, limit, offset int) (*domain.CollectionPage, error) {
	opts := query.CollectionListOptions{Limit: limit, Offset: offset}
	if viewerID == 0 || scope == query.ScopePublic {
		opts.PublicOnly = true
	} else {
		opts.OwnerID = viewerID
	}

	page, err := s.store.ListCollections(ctx, opts)
	if err != nil {
		return nil, translate(ctx, s.logger, "list collections", "collection", err)
	}
	return page, nil
}

// Update changes collection metadata. Requires ownership.
func (s *CollectionService) Update(ctx context.Context, ownerID int64, collectionID string, in UpdateCollectionInput) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	fields := domain.CollectionFields{IsPublic: in.IsPublic}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		fields.Name = &name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		fields.Description = &desc
	}

	c, err := s.store.UpdateCollection(ctx, collectionID, ownerID, fields)
	if err != nil {
		return nil, translate(ctx, s.logger, "update collection", "collection", err)
	}

	logFor(ctx, s.logger).Info("collection updated", "collection_id", collectionID, "owner_id", ownerID)
	return c, nil
}

// Delete removes a collection and its items. Requires ownership.
func (s *CollectionService) Delete(ctx context.Context, ownerID int64, collectionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.owned(ctx, ownerID, collectionID); err != nil {
		return err
	}

	if err := s.store.DeleteCollection(ctx, collectionID); err != nil {
		return translate(ctx, s.logger, "delete collection", "collection", err)
	}

	logFor(ctx, s.logger).Info("collection deleted", "collection_id", collectionID, "owner_id", ownerID)
	return nil
}

// AddItem adds one prompt or artwork to an owned collection.
// Returns false when the item was already a member.
func (s *CollectionService) AddItem(ctx context.Context, ownerID int64, collectionID string, in ItemInput) (bool, error) {
	if err := s.validator.Validate(in); err != nil {
		return false, err
	}
	if _, err := s.owned(ctx, ownerID, collectionID); err != nil {
		return false, err
	}

	ref := in.ref()
	if err := s.ensureItem(ctx, ownerID, ref); err != nil {
		return false, err
	}

	added, err := s.store.AddItem(ctx, collectionID, ref)
	if err != nil {
		return false, translate(ctx, s.logger, "add collection item", "collection", err)
	}

	logFor(ctx, s.logger).Debug("collection item added",
		"collection_id", collectionID,
		"item_id", ref.ID,
		"item_type", ref.Type,
		"added", added,
	)
	return added, nil
}

// BulkAddItems adds several items to an owned collection in one transaction and
// returns how many were new along with the enriched records for every requested item.
func (s *CollectionService) BulkAddItems(ctx context.Context, ownerID int64, collectionID string, items []ItemInput) (int64, []*domain.CollectionItem, error) {
	if len(items) > MaxBulkItems {
		return 0, nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"items": fmt.Sprintf("must not contain more than %d items", MaxBulkItems),
		})
	}
	if err := s.validator.Validate(bulkItemsInput{Items: items}); err != nil {
		return 0, nil, err
	}
	if _, err := s.owned(ctx, ownerID, collectionID); err != nil {
		return 0, nil, err
	}

	refs := make([]domain.ItemRef, len(items))
	for i, in := range items {
		refs[i] = in.ref()
		if err := s.ensureItem(ctx, ownerID, refs[i]); err != nil {
			return 0, nil, err
		}
	}

	inserted, records, err := s.store.BulkAddItems(ctx, collectionID, refs)
	if err != nil {
		return 0, nil, translate(ctx, s.logger, "bulk add collection items", "collection", err)
	}

	logFor(ctx, s.logger).Info("collection items added",
		"collection_id", collectionID,
		"requested", len(refs),
		"inserted", inserted,
	)
	return inserted, records, nil
}

// RemoveItem removes an item from an owned collection.
// Removing a non-member succeeds with a zero count.
func (s *CollectionService) RemoveItem(ctx context.Context, ownerID int64, collectionID, itemID string) (int64, error) {
	if _, err := s.owned(ctx, ownerID, collectionID); err != nil {
		return 0, err
	}

	removed, err := s.store.RemoveItem(ctx, collectionID, itemID)
	if err != nil {
		return 0, translate(ctx, s.logger, "remove collection item", "collection", err)
	}
	return removed, nil
}

// ListItems returns the items of a collection visible to the viewer.
func (s *CollectionService) ListItems(ctx context.Context, viewerID int64, collectionID string) ([]*domain.CollectionItem, error) {
	if _, err := s.Get(ctx, viewerID, collectionID); err != nil {
		return nil, err
	}

	items, err := s.store.ListItems(ctx, collectionID)
	if err != nil {
		return nil, translate(ctx, s.logger, "list collection items", "collection", err)
	}
	return items, nil
}

// owned is the shared owner-scoped lookup run before every mutation.
func (s *CollectionService) owned(ctx context.Context, ownerID int64, collectionID string) (*domain.Collection, error) {
	c, err := s.store.FindOwnedCollection(ctx, collectionID, ownerID)
	if err != nil {
		return nil, translate(ctx, s.logger, "find collection", "collection", err)
	}
	return c, nil
}

// ensureItem checks the referenced content exists and, for prompts, is visible to ownerID.
func (s *CollectionService) ensureItem(ctx context.Context, ownerID int64, ref domain.ItemRef) error {
	var err error
	switch ref.Type {
	case domain.ItemTypePrompt:
		_, err = s.store.GetPrompt(ctx, ref.ID, ownerID)
	case domain.ItemTypeArtwork:
		_, err = s.store.GetArtwork(ctx, ref.ID)
	default:
		return domainerrors.Validationf("unknown item type %q", ref.Type)
	}
	if err != nil {
		return translate(ctx, s.logger, "resolve collection item", string(ref.Type)+" "+ref.ID, err)
	}
	return nil
}
