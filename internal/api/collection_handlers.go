package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createCollection",
		Method:        http.MethodPost,
		Path:          "/api/v1/collections",
		Summary:       "Create collection",
		Description:   "Creates a collection owned by the caller",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Description: "Returns the caller's collections, or public ones",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Get collection",
		Description: "Returns a collection with its item count and cover image",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCollection",
		Method:      http.MethodPatch,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Update collection",
		Description: "Updates the given fields of an owned collection",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Delete collection",
		Description: "Deletes an owned collection and its memberships",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCollectionItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}/items",
		Summary:     "List collection items",
		Description: "Returns the items of a visible collection, newest first",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCollectionItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "addCollectionItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections/{id}/items",
		Summary:     "Add collection item",
		Description: "Adds a prompt or artwork. Adding an existing member is not an error.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddCollectionItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkAddCollectionItems",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections/{id}/items/bulk",
		Summary:     "Bulk add collection items",
		Description: "Adds several items in one transaction",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBulkAddCollectionItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeCollectionItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}/items/{itemId}",
		Summary:     "Remove collection item",
		Description: "Removes an item. Removing a non-member reports zero.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveCollectionItem)
}

// === DTOs ===

// CollectionResponse contains collection data in API responses.
type CollectionResponse struct {
	ID          string    `json:"id" doc:"Collection ID"`
	OwnerID     int64     `json:"ownerId" doc:"Owner user ID"`
	Name        string    `json:"name" doc:"Name"`
	Description *string   `json:"description" doc:"Description"`
	IsPublic    bool      `json:"isPublic" doc:"Visible to everyone"`
	ItemCount   int64     `json:"itemCount" doc:"Number of items"`
	CoverImage  *string   `json:"coverImage" doc:"Image of the most recently added artwork"`
	CreatedAt   time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updatedAt" doc:"Last update time"`
}

// CollectionOutput wraps the collection response for Huma.
type CollectionOutput struct {
	Body CollectionResponse
}

// CollectionItemResponse is a collection member with display fields.
type CollectionItemResponse struct {
	ItemID   string    `json:"itemId" doc:"Prompt or artwork ID"`
	ItemType string    `json:"itemType" doc:"prompt or artwork"`
	Title    string    `json:"title" doc:"Title of the referenced content"`
	ImageURL *string   `json:"imageUrl" doc:"Artwork image, null for prompts"`
	AddedAt  time.Time `json:"addedAt" doc:"When the item was added"`
}

// CreateCollectionRequest is the request body for creating a collection.
type CreateCollectionRequest struct {
	Name        string  `json:"name" maxLength:"100" doc:"Name"`
	Description *string `json:"description,omitempty" maxLength:"1000" doc:"Description"`
	IsPublic    bool    `json:"isPublic,omitempty" doc:"Visible to everyone"`
}

// CreateCollectionInput wraps the create collection request for Huma.
type CreateCollectionInput struct {
	Body CreateCollectionRequest
}

// UpdateCollectionRequest is the request body for updating a collection.
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty" maxLength:"100" doc:"Name"`
	Description *string `json:"description,omitempty" maxLength:"1000" doc:"Description"`
	IsPublic    *bool   `json:"isPublic,omitempty" doc:"Visible to everyone"`
}

// UpdateCollectionInput wraps the update collection request for Huma.
type UpdateCollectionInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body UpdateCollectionRequest
}

// CollectionIDInput addresses a single collection.
type CollectionIDInput struct {
	ID string `path:"id" doc:"Collection ID"`
}

// ListCollectionsInput contains parameters for listing collections.
type ListCollectionsInput struct {
	Scope  string `query:"scope" enum:"own,public" default:"own" doc:"own or public"`
	Limit  int    `query:"limit" doc:"Page size (default: 20, max: 100)"`
	Offset int    `query:"offset" doc:"Rows to skip"`
}

// ListCollectionsResponse contains a page of collections.
type ListCollectionsResponse struct {
	Items      []CollectionResponse `json:"items" doc:"Collections on this page"`
	Pagination PaginationResponse   `json:"pagination" doc:"Window metadata"`
}

// ListCollectionsOutput wraps the list collections response for Huma.
type ListCollectionsOutput struct {
	Body ListCollectionsResponse
}

// CollectionItemsResponse lists the members of a collection.
type CollectionItemsResponse struct {
	Items []CollectionItemResponse `json:"items" doc:"Newest first"`
}

// CollectionItemsOutput wraps the collection items response for Huma.
type CollectionItemsOutput struct {
	Body CollectionItemsResponse
}

// ItemRequest identifies content to add to a collection.
type ItemRequest struct {
	ItemID   string `json:"itemId" minLength:"1" doc:"Prompt or artwork ID"`
	ItemType string `json:"itemType" enum:"prompt,artwork" doc:"Kind of content"`
}

// AddCollectionItemInput wraps the add item request for Huma.
type AddCollectionItemInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body ItemRequest
}

// AddItemResponse reports whether the item was new to the collection.
type AddItemResponse struct {
	Added bool `json:"added" doc:"False when the item was already a member"`
}

// AddItemOutput wraps the add item response for Huma.
type AddItemOutput struct {
	Body AddItemResponse
}

// BulkAddRequest is the request body for adding several items.
type BulkAddRequest struct {
	Items []ItemRequest `json:"items" minItems:"1" maxItems:"100" doc:"Items to add"`
}

// BulkAddCollectionItemsInput wraps the bulk add request for Huma.
type BulkAddCollectionItemsInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body BulkAddRequest
}

// BulkAddResponse reports how many items were new plus every requested item.
type BulkAddResponse struct {
	AddedCount int64                    `json:"addedCount" doc:"Items that were not already members"`
	Items      []CollectionItemResponse `json:"items" doc:"Requested items as stored"`
}

// BulkAddOutput wraps the bulk add response for Huma.
type BulkAddOutput struct {
	Body BulkAddResponse
}

// RemoveCollectionItemInput addresses one member of a collection.
type RemoveCollectionItemInput struct {
	ID     string `path:"id" doc:"Collection ID"`
	ItemID string `path:"itemId" doc:"Prompt or artwork ID"`
}

// RemoveItemResponse reports how many memberships were removed.
type RemoveItemResponse struct {
	RemovedCount int64 `json:"removedCount" doc:"Zero when the item was not a member"`
}

// RemoveItemOutput wraps the remove item response for Huma.
type RemoveItemOutput struct {
	Body RemoveItemResponse
}

// === Handlers ===

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Collection.Create(ctx, userID, service.CreateCollectionInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		IsPublic:    input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: newCollectionResponse(c)}, nil
}

func (s *Server) handleListCollections(ctx context.Context, input *ListCollectionsInput) (*ListCollectionsOutput, error) {
	page, err := s.services.Collection.List(ctx, viewerID(ctx), input.Scope, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	items := make([]CollectionResponse, len(page.Items))
	for i, c := range page.Items {
		items[i] = newCollectionResponse(c)
	}

	return &ListCollectionsOutput{
		Body: ListCollectionsResponse{
			Items:      items,
			Pagination: newPaginationResponse(page.Pagination),
		},
	}, nil
}

func (s *Server) handleGetCollection(ctx context.Context, input *CollectionIDInput) (*CollectionOutput, error) {
	c, err := s.services.Collection.Get(ctx, viewerID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: newCollectionResponse(c)}, nil
}

func (s *Server) handleUpdateCollection(ctx context.Context, input *UpdateCollectionInput) (*CollectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Collection.Update(ctx, userID, input.ID, service.UpdateCollectionInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		IsPublic:    input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: newCollectionResponse(c)}, nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *CollectionIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collection.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Collection deleted"}}, nil
}

func (s *Server) handleListCollectionItems(ctx context.Context, input *CollectionIDInput) (*CollectionItemsOutput, error) {
	items, err := s.services.Collection.ListItems(ctx, viewerID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &CollectionItemsOutput{Body: CollectionItemsResponse{Items: newCollectionItemResponses(items)}}, nil
}

func (s *Server) handleAddCollectionItem(ctx context.Context, input *AddCollectionItemInput) (*AddItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	added, err := s.services.Collection.AddItem(ctx, userID, input.ID, input.Body.input())
	if err != nil {
		return nil, err
	}

	return &AddItemOutput{Body: AddItemResponse{Added: added}}, nil
}

func (s *Server) handleBulkAddCollectionItems(ctx context.Context, input *BulkAddCollectionItemsInput) (*BulkAddOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]service.ItemInput, len(input.Body.Items))
	for i, it := range input.Body.Items {
		items[i] = it.input()
	}

	added, records, err := s.services.Collection.BulkAddItems(ctx, userID, input.ID, items)
	if err != nil {
		return nil, err
	}

	return &BulkAddOutput{
		Body: BulkAddResponse{
			AddedCount: added,
			Items:      newCollectionItemResponses(records),
		},
	}, nil
}

func (s *Server) handleRemoveCollectionItem(ctx context.Context, input *RemoveCollectionItemInput) (*RemoveItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	removed, err := s.services.Collection.RemoveItem(ctx, userID, input.ID, input.ItemID)
	if err != nil {
		return nil, err
	}

	return &RemoveItemOutput{Body: RemoveItemResponse{RemovedCount: removed}}, nil
}

func (r ItemRequest) input() service.ItemInput {
	return service.ItemInput{ItemID: r.ItemID, ItemType: r.ItemType}
}

func newCollectionResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		IsPublic:    c.IsPublic,
		ItemCount:   c.ItemCount,
		CoverImage:  c.CoverImage,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newCollectionItemResponses(items []*domain.CollectionItem) []CollectionItemResponse {
	resp := make([]CollectionItemResponse, len(items))
	for i, it := range items {
		resp[i] = CollectionItemResponse{
			ItemID:   it.ItemID,
			ItemType: string(it.ItemType),
			Title:    it.Title,
			ImageURL: it.ImageURL,
			AddedAt:  it.AddedAt,
		}
	}
	return resp
}
