package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/store"
)

// NormalizeTag trims surrounding whitespace and converts to Unicode NFC so
// visually identical tags compare equal.
func NormalizeTag(tag string) string {
	return norm.NFC.String(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag, drops empties and collapses duplicates
// keeping the first occurrence. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		t := NormalizeTag(raw)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// TagService exposes aggregate tag views.
// Tags belong to prompts; there is no separate tag catalog.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// Popular returns the most used tags across all prompts.
// A zero limit selects the default page size.
func (s *TagService) Popular(ctx context.Context, limit int) ([]domain.TagCount, error) {
	tags, err := s.store.ListPopularTags(ctx, limit)
	if err != nil {
		return nil, translate(ctx, s.logger, "list popular tags", "tag", err)
	}
	return tags, nil
}

// ForPrompt returns the tags of a prompt visible to the viewer, in the order
// they were given.
func (s *TagService) ForPrompt(ctx context.Context, viewerID int64, promptID string) ([]string, error) {
	if _, err := s.store.GetPrompt(ctx, promptID, viewerID); err != nil {
		return nil, translate(ctx, s.logger, "get prompt", "prompt", err)
	}

	tags, err := s.store.ListPromptTags(ctx, promptID)
	if err != nil {
		return nil, translate(ctx, s.logger, "list prompt tags", "tag", err)
	}
	return tags, nil
}
