package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/service"
	"github.com/nihilcoder/promptlab/internal/store/query"
)

func (s *Server) registerPromptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts",
		Summary:     "List prompts",
		Description: "Returns a filtered, sorted page of prompts. Anonymous callers only see public prompts.",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPrompt",
		Method:        http.MethodPost,
		Path:          "/api/v1/prompts",
		Summary:       "Create prompt",
		Description:   "Creates a prompt owned by the caller",
		Tags:          []string{"Prompts"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPromptById",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Get prompt",
		Description: "Returns a prompt the caller owns or that is public",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePrompt",
		Method:      http.MethodPut,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Update prompt",
		Description: "Replaces the editable fields of a prompt, including its tags",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePrompt",
		Method:      http.MethodDelete,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Delete prompt",
		Description: "Deletes a prompt along with its tags and collection memberships",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts/{id}/favorite",
		Summary:     "Toggle favorite",
		Description: "Flips the favorite flag of an owned prompt",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "incrementUsage",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts/{id}/use",
		Summary:     "Record usage",
		Description: "Counts one use of a visible prompt",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleIncrementUsage)
}

// === DTOs ===

// PromptResponse contains prompt data in API responses.
type PromptResponse struct {
	ID           string         `json:"id" doc:"Prompt ID"`
	OwnerID      int64          `json:"ownerId" doc:"Owner user ID"`
	Title        string         `json:"title" doc:"Title"`
	Text         string         `json:"text" doc:"Prompt text"`
	NegativeText *string        `json:"negativeText" doc:"Negative prompt"`
	Category     *string        `json:"category" doc:"Category"`
	Parameters   map[string]any `json:"parameters" doc:"Generation parameters"`
	Notes        *string        `json:"notes" doc:"Owner notes"`
	IsPublic     bool           `json:"isPublic" doc:"Visible to everyone"`
	Favorite     bool           `json:"favorite" doc:"Marked as favorite by the owner"`
	UsageCount   int64          `json:"usageCount" doc:"Times the prompt was used"`
	Rating       float64        `json:"rating" doc:"Average rating"`
	Tags         []string       `json:"tags" doc:"Tags in the order they were given"`
	CreatedAt    time.Time      `json:"createdAt" doc:"Creation time"`
	UpdatedAt    time.Time      `json:"updatedAt" doc:"Last update time"`
}

// PromptOutput wraps the prompt response for Huma.
type PromptOutput struct {
	Body PromptResponse
}

// PromptRequest is the request body for creating or replacing a prompt.
type PromptRequest struct {
	Title        string         `json:"title" maxLength:"200" doc:"Title"`
	Text         string         `json:"text" maxLength:"8000" doc:"Prompt text"`
	NegativeText *string        `json:"negativeText,omitempty" maxLength:"4000" doc:"Negative prompt"`
	Category     *string        `json:"category,omitempty" maxLength:"64" doc:"Category"`
	Parameters   map[string]any `json:"parameters,omitempty" doc:"Generation parameters"`
	Notes        *string        `json:"notes,omitempty" maxLength:"4000" doc:"Owner notes"`
	Tags         []string       `json:"tags,omitempty" maxItems:"32" doc:"Tags; duplicates are dropped"`
	IsPublic     bool           `json:"isPublic,omitempty" doc:"Visible to everyone"`
}

func (r PromptRequest) input() service.PromptInput {
	return service.PromptInput{
		Title:        r.Title,
		Text:         r.Text,
		NegativeText: r.NegativeText,
		Category:     r.Category,
		Parameters:   r.Parameters,
		Notes:        r.Notes,
		Tags:         r.Tags,
		IsPublic:     r.IsPublic,
	}
}

// CreatePromptInput wraps the create prompt request for Huma.
type CreatePromptInput struct {
	Body PromptRequest
}

// UpdatePromptInput wraps the update prompt request for Huma.
type UpdatePromptInput struct {
	ID   string `path:"id" doc:"Prompt ID"`
	Body PromptRequest
}

// PromptIDInput addresses a single prompt.
type PromptIDInput struct {
	ID string `path:"id" doc:"Prompt ID"`
}

// ListPromptsInput contains filters for listing prompts.
type ListPromptsInput struct {
	Scope         string `query:"scope" enum:"own,public" default:"own" doc:"own lists the caller's prompts, public lists everyone's public prompts"`
	Category      string `query:"category" doc:"Exact category match"`
	Search        string `query:"search" maxLength:"200" doc:"Case-insensitive substring of title or text"`
	SortBy        string `query:"sortBy" doc:"created, updated, title, usage, or rating (default: updated)"`
	SortDirection string `query:"sortDirection" doc:"asc or desc (default: desc)"`
	Tags          string `query:"tags" doc:"Comma-separated tags; every tag must be present"`
	CollectionID  string `query:"collectionId" doc:"Only prompts in this collection"`
	Limit         int    `query:"limit" doc:"Page size (default: 20, max: 100)"`
	Offset        int    `query:"offset" doc:"Rows to skip"`
	FavoritesOnly bool   `query:"favoritesOnly" doc:"Only the caller's favorites"`
}

func (in *ListPromptsInput) options() query.PromptListOptions {
	opts := query.PromptListOptions{
		Scope:         in.Scope,
		Search:        in.Search,
		SortBy:        in.SortBy,
		SortDirection: in.SortDirection,
		Tags:          splitCSV(in.Tags),
		CollectionID:  in.CollectionID,
		Limit:         in.Limit,
		Offset:        in.Offset,
		FavoritesOnly: in.FavoritesOnly,
	}
	if in.Category != "" {
		opts.Category = &in.Category
	}
	return opts
}

// ListPromptsResponse contains a page of prompts.
type ListPromptsResponse struct {
	Items      []PromptResponse   `json:"items" doc:"Prompts on this page"`
	Pagination PaginationResponse `json:"pagination" doc:"Window metadata"`
}

// ListPromptsOutput wraps the list prompts response for Huma.
type ListPromptsOutput struct {
	Body ListPromptsResponse
}

// FavoriteResponse reports the favorite flag after a toggle.
type FavoriteResponse struct {
	Favorite bool `json:"favorite" doc:"New favorite state"`
}

// FavoriteOutput wraps the favorite response for Huma.
type FavoriteOutput struct {
	Body FavoriteResponse
}

// UsageResponse reports the usage count after an increment.
type UsageResponse struct {
	UsageCount int64 `json:"usageCount" doc:"New usage count"`
}

// UsageOutput wraps the usage response for Huma.
type UsageOutput struct {
	Body UsageResponse
}

// === Handlers ===

func (s *Server) handleListPrompts(ctx context.Context, input *ListPromptsInput) (*ListPromptsOutput, error) {
	page, err := s.services.Prompt.List(ctx, viewerID(ctx), input.options())
	if err != nil {
		return nil, err
	}

	items := make([]PromptResponse, len(page.Items))
	for i, p := range page.Items {
		items[i] = newPromptResponse(p)
	}

	return &ListPromptsOutput{
		Body: ListPromptsResponse{
			Items:      items,
			Pagination: newPaginationResponse(page.Pagination),
		},
	}, nil
}

func (s *Server) handleCreatePrompt(ctx context.Context, input *CreatePromptInput) (*PromptOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Prompt.Create(ctx, userID, input.Body.input())
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: newPromptResponse(p)}, nil
}

func (s *Server) handleGetPrompt(ctx context.Context, input *PromptIDInput) (*PromptOutput, error) {
	p, err := s.services.Prompt.Get(ctx, viewerID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: newPromptResponse(p)}, nil
}

func (s *Server) handleUpdatePrompt(ctx context.Context, input *UpdatePromptInput) (*PromptOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Prompt.Update(ctx, userID, input.ID, input.Body.input())
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: newPromptResponse(p)}, nil
}

func (s *Server) handleDeletePrompt(ctx context.Context, input *PromptIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Prompt.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Prompt deleted"}}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *PromptIDInput) (*FavoriteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	favorite, err := s.services.Prompt.ToggleFavorite(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &FavoriteOutput{Body: FavoriteResponse{Favorite: favorite}}, nil
}

func (s *Server) handleIncrementUsage(ctx context.Context, input *PromptIDInput) (*UsageOutput, error) {
	count, err := s.services.Prompt.RecordUsage(ctx, viewerID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &UsageOutput{Body: UsageResponse{UsageCount: count}}, nil
}

func newPromptResponse(p *domain.Prompt) PromptResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PromptResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		Text:         p.Text,
		NegativeText: p.NegativeText,
		Category:     p.Category,
		Parameters:   p.Parameters,
		Notes:        p.Notes,
		IsPublic:     p.IsPublic,
		Favorite:     p.IsFavorite,
		UsageCount:   p.UsageCount,
		Rating:       p.Rating,
		Tags:         tags,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
