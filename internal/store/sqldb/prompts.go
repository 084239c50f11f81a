package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/store"
	"github.com/nihilcoder/promptlab/internal/store/query"
)

// promptColumns is the ordered list of columns selected in prompt queries.
// Must match the scan order in scanPrompt. Counters are null-normalized here.
const promptColumns = `p.id, p.owner_id, p.title, p.body, p.negative_text, p.category,
	p.parameters, p.notes, p.is_public, p.is_favorite,
	COALESCE(p.usage_count, 0), COALESCE(p.rating, 0), p.created_at, p.updated_at`

// scanPrompt scans a sql.Row (or sql.Rows via its Scan method) into a domain.Prompt.
// Tags are left nil; the caller loads them.
func scanPrompt(scanner interface{ Scan(dest ...any) error }) (*domain.Prompt, error) {
	var p domain.Prompt

	var (
		negativeText sql.NullString
		category     sql.NullString
		parameters   sql.NullString
		notes        sql.NullString
		isPublic     int64
		isFavorite   int64
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Text,
		&negativeText,
		&category,
		&parameters,
		&notes,
		&isPublic,
		&isFavorite,
		&p.UsageCount,
		&p.Rating,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.NegativeText = stringPtr(negativeText)
	p.Category = stringPtr(category)
	p.Notes = stringPtr(notes)
	p.IsPublic = isPublic != 0
	p.IsFavorite = isFavorite != 0

	if parameters.Valid && parameters.String != "" {
		if err := json.Unmarshal([]byte(parameters.String), &p.Parameters); err != nil {
			return nil, fmt.Errorf("decode parameters for %s: %w", p.ID, err)
		}
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func encodeParameters(params map[string]any) (sql.NullString, error) {
	if params == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode parameters: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ListPrompts returns one page of prompts matching opts, each decorated with its tags.
// Returns store.ErrInvalidInput wrapping query.ErrInvalidPagination for a bad window.
func (s *Store) ListPrompts(ctx context.Context, opts query.PromptListOptions) (*domain.PromptPage, error) {
	c, err := query.ComposePromptList(s.dialect, promptColumns, opts)
	if err != nil {
		return nil, store.ErrInvalidInput.WithCause(err)
	}

	rows, err := s.db.QueryContext(ctx, c.Page.SQL, c.Page.Args...)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	items := []*domain.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	var total int64
	if err := s.db.QueryRowContext(ctx, c.Count.SQL, c.Count.Args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	if err := s.loadTags(ctx, s.db, items); err != nil {
		return nil, err
	}

	return &domain.PromptPage{
		Items:      items,
		Pagination: domain.NewPagination(total, c.Limit, c.Offset),
	}, nil
}

// GetPrompt returns a prompt the viewer owns or that is public.
// Returns store.ErrNotFound otherwise.
func (s *Store) GetPrompt(ctx context.Context, id string, viewerID int64) (*domain.Prompt, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+promptColumns+` FROM prompts p
		WHERE p.id = ? AND (p.owner_id = ? OR p.is_public = 1)`),
		id, viewerID)

	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, s.db, []*domain.Prompt{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePrompt inserts a prompt and its tags in one transaction.
// p.Tags is rewritten to the distinct set actually stored.
func (s *Store) CreatePrompt(ctx context.Context, p *domain.Prompt) error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Text) == "" {
		return store.ErrInvalidInput.WithMessage("title and text are required")
	}

	params, err := encodeParameters(p.Parameters)
	if err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}
	p.Tags = distinctTags(p.Tags)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO prompts (
				id, owner_id, title, body, negative_text, category, parameters, notes,
				is_public, is_favorite, usage_count, rating, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			p.ID,
			p.OwnerID,
			p.Title,
			p.Text,
			nullableString(p.NegativeText),
			nullableString(p.Category),
			params,
			nullableString(p.Notes),
			boolToInt(p.IsPublic),
			boolToInt(p.IsFavorite),
			p.UsageCount,
			p.Rating,
			formatTime(p.CreatedAt),
			formatTime(p.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrAlreadyExists
			}
			return fmt.Errorf("insert prompt: %w", err)
		}

		return s.insertTags(ctx, tx, p.ID, p.Tags)
	})
}

// UpdatePrompt rewrites the editable fields and the whole tag set of an owned prompt.
// Returns store.ErrNotFound when no prompt with id belongs to ownerID.
func (s *Store) UpdatePrompt(ctx context.Context, id string, ownerID int64, fields domain.PromptFields) (*domain.Prompt, error) {
	if strings.TrimSpace(fields.Title) == "" || strings.TrimSpace(fields.Text) == "" {
		return nil, store.ErrInvalidInput.WithMessage("title and text are required")
	}
	params, err := encodeParameters(fields.Parameters)
	if err != nil {
		return nil, store.ErrInvalidInput.WithCause(err)
	}

	var updated *domain.Prompt
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := s.findOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		fields.Apply(p)
		p.Tags = distinctTags(p.Tags)
		p.UpdatedAt = s.now()

		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE prompts SET
				title = ?,
				body = ?,
				negative_text = ?,
				category = ?,
				parameters = ?,
				notes = ?,
				is_public = ?,
				updated_at = ?
			WHERE id = ? AND owner_id = ?`),
			p.Title,
			p.Text,
			nullableString(p.NegativeText),
			nullableString(p.Category),
			params,
			nullableString(p.Notes),
			boolToInt(p.IsPublic),
			formatTime(p.UpdatedAt),
			id,
			ownerID,
		)
		if err != nil {
			return fmt.Errorf("update prompt: %w", err)
		}

		if err := s.replaceTags(ctx, tx, id, p.Tags); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePrompt removes an owned prompt. Tags cascade; collection memberships
// are removed in the same transaction.
func (s *Store) DeletePrompt(ctx context.Context, id string, ownerID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.findOwned(ctx, tx, id, ownerID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM collection_items WHERE item_id = ? AND item_type = ?`),
			id, string(domain.ItemTypePrompt)); err != nil {
			return fmt.Errorf("delete prompt memberships: %w", err)
		}

		if _, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM prompts WHERE id = ? AND owner_id = ?`),
			id, ownerID); err != nil {
			return fmt.Errorf("delete prompt: %w", err)
		}
		return nil
	})
}

// ToggleFavorite flips the favorite flag of an owned prompt and returns the new value.
func (s *Store) ToggleFavorite(ctx context.Context, id string, ownerID int64) (bool, error) {
	var favorite bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := s.findOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		favorite = !p.IsFavorite
		_, err = tx.ExecContext(ctx, s.rebind(
			`UPDATE prompts SET is_favorite = ?, updated_at = ? WHERE id = ? AND owner_id = ?`),
			boolToInt(favorite), formatTime(s.now()), id, ownerID)
		if err != nil {
			return fmt.Errorf("toggle favorite: %w", err)
		}
		return nil
	})
	return favorite, err
}

// IncrementUsage bumps the usage counter of a prompt visible to viewerID
// and returns the new value. It does not touch updated_at.
func (s *Store) IncrementUsage(ctx context.Context, id string, viewerID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		UPDATE prompts SET usage_count = COALESCE(usage_count, 0) + 1
		WHERE id = ? AND (owner_id = ? OR is_public = 1)
		RETURNING usage_count`),
		id, viewerID,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment usage: %w", err)
	}
	return count, nil
}

// findOwned loads a prompt by id scoped to its owner. A prompt owned by
// someone else is reported exactly like a missing one.
func (s *Store) findOwned(ctx context.Context, q dbtx, id string, ownerID int64) (*domain.Prompt, error) {
	row := q.QueryRowContext(ctx, s.rebind(
		`SELECT `+promptColumns+` FROM prompts p WHERE p.id = ? AND p.owner_id = ?`),
		id, ownerID)

	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
