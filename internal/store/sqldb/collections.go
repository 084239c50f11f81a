package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/store"
	"github.com/nihilcoder/promptlab/internal/store/query"
)

// collectionColumns selects a collection with its derived item count and
// cover image (the most recently added artwork). Must match scanCollection.
const collectionColumns = `c.id, c.owner_id, c.name, c.description, c.is_public, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM collection_items ci WHERE ci.collection_id = c.id),
	(SELECT a.image_url FROM collection_items ci
		JOIN artworks a ON a.id = ci.item_id
		WHERE ci.collection_id = c.id AND ci.item_type = 'artwork'
		ORDER BY ci.added_at DESC, ci.item_id DESC LIMIT 1)`

// collectionItemSelect joins membership rows to their content for display.
const collectionItemSelect = `SELECT ci.collection_id, ci.item_id, ci.item_type, ci.added_at,
	COALESCE(p.title, a.title, ''), a.image_url
	FROM collection_items ci
	LEFT JOIN prompts p ON ci.item_type = 'prompt' AND p.id = ci.item_id
	LEFT JOIN artworks a ON ci.item_type = 'artwork' AND a.id = ci.item_id`

func scanCollection(scanner interface{ Scan(dest ...any) error }) (*domain.Collection, error) {
	var c domain.Collection

	var (
		description sql.NullString
		coverImage  sql.NullString
		isPublic    int64
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&description,
		&isPublic,
		&createdAt,
		&updatedAt,
		&c.ItemCount,
		&coverImage,
	)
	if err != nil {
		return nil, err
	}

	c.Description = stringPtr(description)
	c.CoverImage = stringPtr(coverImage)
	c.IsPublic = isPublic != 0

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func scanCollectionItem(scanner interface{ Scan(dest ...any) error }) (*domain.CollectionItem, error) {
	var (
		item     domain.CollectionItem
		itemType string
		addedAt  string
		imageURL sql.NullString
	)

	err := scanner.Scan(
		&item.CollectionID,
		&item.ItemID,
		&itemType,
		&addedAt,
		&item.Title,
		&imageURL,
	)
	if err != nil {
		return nil, err
	}

	item.ItemType = domain.ItemType(itemType)
	item.ImageURL = stringPtr(imageURL)
	item.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCollection inserts a new, empty collection.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if strings.TrimSpace(c.Name) == "" {
		return store.ErrInvalidInput.WithMessage("collection name is required")
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO collections (id, owner_id, name, description, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		c.ID,
		c.OwnerID,
		c.Name,
		nullableString(c.Description),
		boolToInt(c.IsPublic),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert collection: %w", err)
	}

	c.ItemCount = 0
	c.CoverImage = nil
	return nil
}

// GetCollection returns a collection with its derived attributes.
// Visibility is not checked here.
func (s *Store) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	return s.getCollection(ctx, s.db, id)
}

func (s *Store) getCollection(ctx context.Context, q dbtx, id string) (*domain.Collection, error) {
	row := q.QueryRowContext(ctx, s.rebind(
		`SELECT `+collectionColumns+` FROM collections c WHERE c.id = ?`), id)

	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// FindOwnedCollection returns the collection only when ownerID owns it.
func (s *Store) FindOwnedCollection(ctx context.Context, id string, ownerID int64) (*domain.Collection, error) {
	return s.findOwnedCollection(ctx, s.db, id, ownerID)
}

func (s *Store) findOwnedCollection(ctx context.Context, q dbtx, id string, ownerID int64) (*domain.Collection, error) {
	row := q.QueryRowContext(ctx, s.rebind(
		`SELECT `+collectionColumns+` FROM collections c WHERE c.id = ? AND c.owner_id = ?`),
		id, ownerID)

	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// ListCollections returns one page of collections, newest first.
func (s *Store) ListCollections(ctx context.Context, opts query.CollectionListOptions) (*domain.CollectionPage, error) {
	c, err := query.ComposeCollectionList(s.dialect, collectionColumns, opts)
	if err != nil {
		return nil, store.ErrInvalidInput.WithCause(err)
	}

	rows, err := s.db.QueryContext(ctx, c.Page.SQL, c.Page.Args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	items := []*domain.Collection{}
	for rows.Next() {
		coll, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, coll)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	var total int64
	if err := s.db.QueryRowContext(ctx, c.Count.SQL, c.Count.Args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}

	return &domain.CollectionPage{
		Items:      items,
		Pagination: domain.NewPagination(total, c.Limit, c.Offset),
	}, nil
}

// UpdateCollection applies fields to an owned collection and returns it refreshed.
func (s *Store) UpdateCollection(ctx context.Context, id string, ownerID int64, fields domain.CollectionFields) (*domain.Collection, error) {
	var updated *domain.Collection
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := s.findOwnedCollection(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		fields.Apply(c)
		if strings.TrimSpace(c.Name) == "" {
			return store.ErrInvalidInput.WithMessage("collection name is required")
		}

		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE collections SET name = ?, description = ?, is_public = ?, updated_at = ?
			WHERE id = ? AND owner_id = ?`),
			c.Name,
			nullableString(c.Description),
			boolToInt(c.IsPublic),
			formatTime(s.now()),
			id,
			ownerID,
		)
		if err != nil {
			return fmt.Errorf("update collection: %w", err)
		}

		updated, err = s.getCollection(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCollection removes a collection and all of its items in one transaction.
// Ownership is checked by the caller.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM collection_items WHERE collection_id = ?`), id); err != nil {
			return fmt.Errorf("delete collection items: %w", err)
		}

		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM collections WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// AddItem adds content to a collection. Re-adding an existing member is a
// no-op reported as added=false.
func (s *Store) AddItem(ctx context.Context, collectionID string, ref domain.ItemRef) (bool, error) {
	if ref.ID == "" || !ref.Type.Valid() {
		return false, store.ErrInvalidInput.WithMessage("invalid collection item")
	}

	var added bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireCollection(ctx, tx, collectionID); err != nil {
			return err
		}

		now := s.now()
		res, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO collection_items (collection_id, item_id, item_type, added_at)
			VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`),
			collectionID, ref.ID, string(ref.Type), formatTime(now))
		if err != nil {
			return fmt.Errorf("insert collection item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		added = n > 0
		if added {
			return s.touchCollection(ctx, tx, collectionID, now)
		}
		return nil
	})
	return added, err
}

// RemoveItem removes content from a collection and reports how many rows went away.
// Removing a non-member returns zero without error.
func (s *Store) RemoveItem(ctx context.Context, collectionID, itemID string) (int64, error) {
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM collection_items WHERE collection_id = ? AND item_id = ?`),
			collectionID, itemID)
		if err != nil {
			return fmt.Errorf("delete collection item: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		if removed > 0 {
			return s.touchCollection(ctx, tx, collectionID, s.now())
		}
		return nil
	})
	return removed, err
}

// BulkAddItems adds several items with one multi-row insert. It returns the
// number of rows actually inserted and the enriched records for every requested id.
func (s *Store) BulkAddItems(ctx context.Context, collectionID string, refs []domain.ItemRef) (int64, []*domain.CollectionItem, error) {
	unique := make([]domain.ItemRef, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if ref.ID == "" || !ref.Type.Valid() {
			return 0, nil, store.ErrInvalidInput.WithMessage("invalid collection item")
		}
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		unique = append(unique, ref)
	}

	var (
		inserted int64
		items    []*domain.CollectionItem
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireCollection(ctx, tx, collectionID); err != nil {
			return err
		}
		if len(unique) == 0 {
			items = []*domain.CollectionItem{}
			return nil
		}

		now := s.now()
		addedAt := formatTime(now)
		args := make([]any, 0, len(unique)*4)
		ids := make([]string, len(unique))
		for i, ref := range unique {
			args = append(args, collectionID, ref.ID, string(ref.Type), addedAt)
			ids[i] = ref.ID
		}

		res, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO collection_items (collection_id, item_id, item_type, added_at) VALUES `+
				placeholders(len(unique), 4)+` ON CONFLICT DO NOTHING`),
			args...)
		if err != nil {
			return fmt.Errorf("bulk insert collection items: %w", err)
		}
		if inserted, err = res.RowsAffected(); err != nil {
			return err
		}
		if inserted > 0 {
			if err := s.touchCollection(ctx, tx, collectionID, now); err != nil {
				return err
			}
		}

		items, err = s.listItems(ctx, tx, collectionID, ids)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return inserted, items, nil
}

// ListItems returns every item of a collection, newest first.
func (s *Store) ListItems(ctx context.Context, collectionID string) ([]*domain.CollectionItem, error) {
	return s.listItems(ctx, s.db, collectionID, nil)
}

// listItems loads enriched items, restricted to ids when non-empty.
func (s *Store) listItems(ctx context.Context, q dbtx, collectionID string, ids []string) ([]*domain.CollectionItem, error) {
	b := query.NewBuilder(s.dialect)
	b.WhereEq("ci.collection_id", collectionID)
	if len(ids) > 0 {
		b.Where("ci.item_id IN " + b.InList(ids))
	}

	rows, err := q.QueryContext(ctx,
		collectionItemSelect+b.WhereSQL()+` ORDER BY ci.added_at DESC, ci.item_id ASC`,
		b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list collection items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CollectionItem{}
	for rows.Next() {
		item, err := scanCollectionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) requireCollection(ctx context.Context, q dbtx, id string) error {
	var one int
	err := q.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM collections WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (s *Store) touchCollection(ctx context.Context, q dbtx, id string, at time.Time) error {
	_, err := q.ExecContext(ctx, s.rebind(`UPDATE collections SET updated_at = ? WHERE id = ?`),
		formatTime(at), id)
	return err
}
