package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/store"
)

const artworkColumns = `id, owner_id, title, image_url, created_at`

func scanArtwork(scanner interface{ Scan(dest ...any) error }) (*domain.Artwork, error) {
	var (
		a         domain.Artwork
		createdAt string
	)
	if err := scanner.Scan(&a.ID, &a.OwnerID, &a.Title, &a.ImageURL, &createdAt); err != nil {
		return nil, err
	}

	var err error
	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateArtwork records an artwork so collections can reference it.
func (s *Store) CreateArtwork(ctx context.Context, a *domain.Artwork) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO artworks (`+artworkColumns+`) VALUES (?, ?, ?, ?, ?)`),
		a.ID, a.OwnerID, a.Title, a.ImageURL, formatTime(a.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert artwork: %w", err)
	}
	return nil
}

// GetArtwork retrieves an artwork by id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetArtwork(ctx context.Context, id string) (*domain.Artwork, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+artworkColumns+` FROM artworks WHERE id = ?`), id)

	a, err := scanArtwork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return a, err
}
