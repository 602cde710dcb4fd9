package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Artist is a performer in the catalog.
type Artist struct {
	ID        uuid.UUID
	Name      string
	Genre     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const artistColumns = `id, name, genre, created_at, updated_at`

// CreateArtist inserts artist, stamping both timestamps with the same instant.
func (s *Store) CreateArtist(ctx context.Context, artist Artist) (Artist, error) {
	now := s.now()
	artist.CreatedAt = now
	artist.UpdatedAt = now

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO artists (id, name, genre, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, artist.ID, artist.Name, nullString(artist.Genre), artist.CreatedAt, artist.UpdatedAt); err != nil {
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}

	return artist, nil
}

// ArtistByID returns a single artist.
func (s *Store) ArtistByID(ctx context.Context, id uuid.UUID) (Artist, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		WHERE id = $1
	`, id)

	artist, err := scanArtist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, fmt.Errorf("%w: %s", ErrArtistNotFound, id)
		}
		return Artist{}, err
	}
	return artist, nil
}

// ListArtists returns every artist ordered by name.
func (s *Store) ListArtists(ctx context.Context) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select artists: %w", err)
	}
	defer rows.Close()

	artists := []Artist{}
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}

	return artists, nil
}

// UpdateArtist overwrites name and genre and refreshes updated_at.
func (s *Store) UpdateArtist(ctx context.Context, artist Artist) (Artist, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE artists
		SET name = $2, genre = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+artistColumns+`
	`, artist.ID, artist.Name, nullString(artist.Genre), s.now())

	updated, err := scanArtist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, fmt.Errorf("%w: %s", ErrArtistNotFound, artist.ID)
		}
		return Artist{}, fmt.Errorf("update artist: %w", err)
	}
	return updated, nil
}

// DeleteArtist removes the artist; albums and tracks go with it through the
// schema's cascading foreign keys.
func (s *Store) DeleteArtist(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "artists", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrArtistNotFound, id)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete artist: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete artist: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func scanArtist(scanner rowScanner) (Artist, error) {
	var (
		a     Artist
		genre sql.NullString
	)
	if err := scanner.Scan(&a.ID, &a.Name, &genre, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, err
		}
		return Artist{}, fmt.Errorf("scan artist: %w", err)
	}
	if genre.Valid {
		a.Genre = &genre.String
	}
	return a, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
