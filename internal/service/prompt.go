// Package service holds the business rules of the prompt library: input
// validation, tag normalization, visibility and ownership checks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/id"
	"github.com/nihilcoder/promptlab/internal/store"
	"github.com/nihilcoder/promptlab/internal/store/query"
	"github.com/nihilcoder/promptlab/internal/validation"
)

// PromptInput carries the owner-editable fields of a prompt.
// Updates replace every field, including the tag set.
type PromptInput struct {
	Parameters   map[string]any `json:"parameters,omitempty"`
	NegativeText *string        `json:"negativeText,omitempty" validate:"omitnil,max=4000"`
	Category     *string        `json:"category,omitempty" validate:"omitnil,max=64"`
	Notes        *string        `json:"notes,omitempty" validate:"omitnil,max=4000"`
	Title        string         `json:"title" validate:"notblank,max=200"`
	Text         string         `json:"text" validate:"notblank,max=8000"`
	Tags         []string       `json:"tags,omitempty" validate:"max=32,dive,max=64"`
	IsPublic     bool           `json:"isPublic"`
}

func (in PromptInput) fields() domain.PromptFields {
	return domain.PromptFields{
		Parameters:   in.Parameters,
		NegativeText: in.NegativeText,
		Category:     nonEmpty(in.Category),
		Notes:        in.Notes,
		Title:        strings.TrimSpace(in.Title),
		Text:         in.Text,
		Tags:         NormalizeTags(in.Tags),
		IsPublic:     in.IsPublic,
	}
}

// PromptService orchestrates prompt operations.
type PromptService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewPromptService creates a new prompt service.
func NewPromptService(store store.Store, validator *validation.Validator, logger *slog.Logger) *PromptService {
	return &PromptService{
		store:     store,
		validator: validator,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of prompts visible to viewerID.
// Anonymous viewers (viewerID 0) only ever see public prompts.
func (s *PromptService) List(ctx context.Context, viewerID int64, opts query.PromptListOptions) (*domain.PromptPage, error) {
	opts.ViewerID = viewerID
	if viewerID == 0 {
		opts.Scope = query.ScopePublic
		opts.FavoritesOnly = false
	}
	opts.Search = norm.NFC.String(strings.TrimSpace(opts.Search))
	opts.Tags = NormalizeTags(opts.Tags)
	opts.Category = nonEmpty(opts.Category)

	page, err := s.store.ListPrompts(ctx, opts)
	if err != nil {
		return nil, translate(ctx, s.logger, "list prompts", "prompt", err)
	}
	return page, nil
}

// Get returns a prompt the viewer owns or that is public.
func (s *PromptService) Get(ctx context.Context, viewerID int64, promptID string) (*domain.Prompt, error) {
	p, err := s.store.GetPrompt(ctx, promptID, viewerID)
	if err != nil {
		return nil, translate(ctx, s.logger, "get prompt", "prompt", err)
	}
	return p, nil
}

// Create stores a new prompt owned by ownerID.
func (s *PromptService) Create(ctx context.Context, ownerID int64, in PromptInput) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	promptID, err := id.NewPrompt()
	if err != nil {
		return nil, fmt.Errorf("generate prompt ID: %w", err)
	}

	now := s.now()
	p := &domain.Prompt{
		ID:        promptID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.fields().Apply(p)

	if err := s.store.CreatePrompt(ctx, p); err != nil {
		return nil, translate(ctx, s.logger, "create prompt", "prompt", err)
	}

	logFor(ctx, s.logger).Info("prompt created",
		"prompt_id", p.ID,
		"owner_id", ownerID,
		"tags", len(p.Tags),
		"public", p.IsPublic,
	)

	return p, nil
}

// Update replaces the editable fields of a prompt owned by ownerID.
// A prompt owned by someone else is reported as not found.
func (s *PromptService) Update(ctx context.Context, ownerID int64, promptID string, in PromptInput) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	p, err := s.store.UpdatePrompt(ctx, promptID, ownerID, in.fields())
	if err != nil {
		return nil, translate(ctx, s.logger, "update prompt", "prompt", err)
	}

	logFor(ctx, s.logger).Info("prompt updated", "prompt_id", promptID, "owner_id", ownerID)
	return p, nil
}

// Delete removes a prompt owned by ownerID.
func (s *PromptService) Delete(ctx context.Context, ownerID int64, promptID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeletePrompt(ctx, promptID, ownerID); err != nil {
		return translate(ctx, s.logger, "delete prompt", "prompt", err)
	}

	logFor(ctx, s.logger).Info("prompt deleted", "prompt_id", promptID, "owner_id", ownerID)
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *PromptService) ToggleFavorite(ctx context.Context, ownerID int64, promptID string) (bool, error) {
	favorite, err := s.store.ToggleFavorite(ctx, promptID, ownerID)
	if err != nil {
		return false, translate(ctx, s.logger, "toggle favorite", "prompt", err)
	}

	logFor(ctx, s.logger).Debug("prompt favorite toggled", "prompt_id", promptID, "favorite", favorite)
	return favorite, nil
}

// RecordUsage counts one use of a visible prompt and returns the new total.
func (s *PromptService) RecordUsage(ctx context.Context, viewerID int64, promptID string) (int64, error) {
	count, err := s.store.IncrementUsage(ctx, promptID, viewerID)
	if err != nil {
		return 0, translate(ctx, s.logger, "record usage", "prompt", err)
	}
	return count, nil
}

// nonEmpty maps a blank optional string to nil.
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
