package api

import "github.com/nihilcoder/promptlab/internal/service"

// Services groups all business logic services used by the API server.
type Services struct {
	Prompt     *service.PromptService
	Collection *service.CollectionService
	Tag        *service.TagService
}
