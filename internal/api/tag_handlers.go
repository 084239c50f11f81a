package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPopularTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/popular",
		Summary:     "Popular tags",
		Description: "Returns the most used tags across all prompts",
		Tags:        []string{"Tags"},
	}, s.handleListPopularTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPromptTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts/{id}/tags",
		Summary:     "Prompt tags",
		Description: "Returns the tags of a prompt in the order they were given",
		Tags:        []string{"Tags"},
	}, s.handleListPromptTags)
}

// === DTOs ===

// PopularTagsInput contains parameters for listing popular tags.
type PopularTagsInput struct {
	Limit int `query:"limit" doc:"Number of tags (default: 20, max: 100)"`
}

// TagCountResponse is a tag with its usage count.
type TagCountResponse struct {
	Tag   string `json:"tag" doc:"Tag"`
	Count int64  `json:"count" doc:"Prompts carrying the tag"`
}

// PopularTagsResponse contains the ranked tags.
type PopularTagsResponse struct {
	Tags []TagCountResponse `json:"tags" doc:"Most used first"`
}

// PromptTagsInput addresses one prompt.
type PromptTagsInput struct {
	ID string `path:"id" doc:"Prompt ID"`
}

// PromptTagsResponse lists the tags of one prompt.
type PromptTagsResponse struct {
	Tags []string `json:"tags" doc:"Tags in the order they were given"`
}

// PromptTagsOutput wraps the prompt tags response for Huma.
type PromptTagsOutput struct {
	Body PromptTagsResponse
}

// PopularTagsOutput wraps the popular tags response for Huma.
type PopularTagsOutput struct {
	Body PopularTagsResponse
}

// === Handlers ===

func (s *Server) handleListPopularTags(ctx context.Context, input *PopularTagsInput) (*PopularTagsOutput, error) {
	tags, err := s.services.Tag.Popular(ctx, input.Limit)
	if err != nil {
		return nil, err
	}

	resp := make([]TagCountResponse, len(tags))
	for i, t := range tags {
		resp[i] = TagCountResponse{Tag: t.Tag, Count: t.Count}
	}

	return &PopularTagsOutput{Body: PopularTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleListPromptTags(ctx context.Context, input *PromptTagsInput) (*PromptTagsOutput, error) {
	tags, err := s.services.Tag.ForPrompt(ctx, viewerID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &PromptTagsOutput{Body: PromptTagsResponse{Tags: tags}}, nil
}
