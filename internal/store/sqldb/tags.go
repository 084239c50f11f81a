package sqldb

import (
	"context"
	"fmt"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/store"
	"github.com/nihilcoder/promptlab/internal/store/query"
)

// distinctTags drops empty tags and repeated tags, keeping first-seen order.
func distinctTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
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

// insertTags bulk-inserts tag rows for a prompt. Duplicates are skipped silently.
func (s *Store) insertTags(ctx context.Context, q dbtx, promptID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	args := make([]any, 0, len(tags)*3)
	for i, tag := range tags {
		args = append(args, promptID, tag, i)
	}

	_, err := q.ExecContext(ctx, s.rebind(
		`INSERT INTO prompt_tags (prompt_id, tag, position) VALUES `+
			placeholders(len(tags), 3)+` ON CONFLICT DO NOTHING`),
		args...)
	if err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

// replaceTags swaps the whole tag set of a prompt.
func (s *Store) replaceTags(ctx context.Context, q dbtx, promptID string, tags []string) error {
	if _, err := q.ExecContext(ctx, s.rebind(
		`DELETE FROM prompt_tags WHERE prompt_id = ?`), promptID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	return s.insertTags(ctx, q, promptID, tags)
}

// loadTags decorates prompts with their tags using one query.
// Every prompt ends up with a non-nil slice.
func (s *Store) loadTags(ctx context.Context, q dbtx, prompts []*domain.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Prompt, len(prompts))
	ids := make([]string, len(prompts))
	for i, p := range prompts {
		p.Tags = []string{}
		byID[p.ID] = p
		ids[i] = p.ID
	}

	b := query.NewBuilder(s.dialect)
	in := b.InList(ids)
	rows, err := q.QueryContext(ctx,
		`SELECT prompt_id, tag FROM prompt_tags WHERE prompt_id IN `+in+
			` ORDER BY prompt_id, position, tag`,
		b.Args()...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var promptID, tag string
		if err := rows.Scan(&promptID, &tag); err != nil {
			return err
		}
		if p, ok := byID[promptID]; ok {
			p.Tags = append(p.Tags, tag)
		}
	}
	return rows.Err()
}

// ListPromptTags returns the tags of one prompt in insertion order.
func (s *Store) ListPromptTags(ctx context.Context, promptID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT tag FROM prompt_tags WHERE prompt_id = ? ORDER BY position, tag`), promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// ListPopularTags returns tags by descending use across all prompts.
// Ties are ordered by tag so results are stable.
func (s *Store) ListPopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	limit, _, err := query.Window(limit, 0)
	if err != nil {
		return nil, store.ErrInvalidInput.WithCause(err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, COUNT(*) AS uses FROM prompt_tags
		GROUP BY tag
		ORDER BY uses DESC, tag ASC`+limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("list popular tags: %w", err)
	}
	defer rows.Close()

	counts := []domain.TagCount{}
	for rows.Next() {
		var tc domain.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}
