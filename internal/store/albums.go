package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Album is a release owned by a single artist.
type Album struct {
	ID          uuid.UUID
	Title       string
	ReleaseYear int
	ArtistID    uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const albumColumns = `id, title, release_year, artist_id, created_at, updated_at`

// CreateAlbum inserts album after confirming its artist exists.
func (s *Store) CreateAlbum(ctx context.Context, album Album) (Album, error) {
	now := s.now()
	album.CreatedAt = now
	album.UpdatedAt = now

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "artists", album.ArtistID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrArtistNotFound, album.ArtistID)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO albums (id, title, release_year, artist_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, album.ID, album.Title, album.ReleaseYear, album.ArtistID, album.CreatedAt, album.UpdatedAt); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrArtistNotFound, album.ArtistID)
			}
			return fmt.Errorf("insert album: %w", err)
		}
		return nil
	})
	if err != nil {
		return Album{}, err
	}

	return album, nil
}

// AlbumByID returns a single album.
func (s *Store) AlbumByID(ctx context.Context, id uuid.UUID) (Album, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums
		WHERE id = $1
	`, id)

	album, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, fmt.Errorf("%w: %s", ErrAlbumNotFound, id)
		}
		return Album{}, err
	}
	return album, nil
}

// ListAlbums returns every album, newest release first.
func (s *Store) ListAlbums(ctx context.Context) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums
		ORDER BY release_year DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select albums: %w", err)
	}
	defer rows.Close()

	return scanAlbumRows(rows)
}

// AlbumsByArtist lists the albums of an existing artist, newest release first.
func (s *Store) AlbumsByArtist(ctx context.Context, artistID uuid.UUID) ([]Album, error) {
	var albums []Album
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "artists", artistID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrArtistNotFound, artistID)
		}

		rows, err := tx.QueryContext(ctx, `
			SELECT `+albumColumns+`
			FROM albums
			WHERE artist_id = $1
			ORDER BY release_year DESC, id ASC
		`, artistID)
		if err != nil {
			return fmt.Errorf("select albums: %w", err)
		}
		defer rows.Close()

		albums, err = scanAlbumRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return albums, nil
}

// UpdateAlbum overwrites title and release year. The owning artist and the
// creation timestamp are never changed here.
func (s *Store) UpdateAlbum(ctx context.Context, album Album) (Album, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE albums
		SET title = $2, release_year = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+albumColumns+`
	`, album.ID, album.Title, album.ReleaseYear, s.now())

	updated, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, fmt.Errorf("%w: %s", ErrAlbumNotFound, album.ID)
		}
		return Album{}, fmt.Errorf("update album: %w", err)
	}
	return updated, nil
}

// DeleteAlbum removes the album and, through the schema, its tracks.
func (s *Store) DeleteAlbum(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "albums", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrAlbumNotFound, id)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete album: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete album: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func scanAlbum(scanner rowScanner) (Album, error) {
	var a Album
	if err := scanner.Scan(&a.ID, &a.Title, &a.ReleaseYear, &a.ArtistID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, err
		}
		return Album{}, fmt.Errorf("scan album: %w", err)
	}
	return a, nil
}

func scanAlbumRows(rows *sql.Rows) ([]Album, error) {
	albums := []Album{}
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}
