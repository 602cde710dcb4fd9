package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Track is a song on an album. Duration is stored in whole seconds and is not
// range checked here; the HTTP layer owns that rule.
type Track struct {
	ID        uuid.UUID
	Title     string
	Duration  int
	AlbumID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

const trackColumns = `id, title, duration, album_id, created_at, updated_at`

// CreateTrack inserts track after confirming its album exists.
func (s *Store) CreateTrack(ctx context.Context, track Track) (Track, error) {
	now := s.now()
	track.CreatedAt = now
	track.UpdatedAt = now

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "albums", track.AlbumID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrAlbumNotFound, track.AlbumID)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (id, title, duration, album_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, track.ID, track.Title, track.Duration, track.AlbumID, track.CreatedAt, track.UpdatedAt); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrAlbumNotFound, track.AlbumID)
			}
			return fmt.Errorf("insert track: %w", err)
		}
		return nil
	})
	if err != nil {
		return Track{}, err
	}

	return track, nil
}

// TrackByID returns a single track.
func (s *Store) TrackByID(ctx context.Context, id uuid.UUID) (Track, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+trackColumns+`
		FROM tracks
		WHERE id = $1
	`, id)

	track, err := scanTrack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Track{}, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
		}
		return Track{}, err
	}
	return track, nil
}

// ListTracks returns every track ordered by title.
func (s *Store) ListTracks(ctx context.Context) ([]Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+trackColumns+`
		FROM tracks
		ORDER BY title ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select tracks: %w", err)
	}
	defer rows.Close()

	return scanTrackRows(rows)
}

// TracksByAlbum lists the tracks of an existing album ordered by id.
func (s *Store) TracksByAlbum(ctx context.Context, albumID uuid.UUID) ([]Track, error) {
	var tracks []Track
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "albums", albumID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrAlbumNotFound, albumID)
		}

		rows, err := tx.QueryContext(ctx, `
			SELECT `+trackColumns+`
			FROM tracks
			WHERE album_id = $1
			ORDER BY id ASC
		`, albumID)
		if err != nil {
			return fmt.Errorf("select tracks: %w", err)
		}
		defer rows.Close()

		tracks, err = scanTrackRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// UpdateTrack overwrites title and duration and refreshes updated_at.
func (s *Store) UpdateTrack(ctx context.Context, track Track) (Track, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE tracks
		SET title = $2, duration = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+trackColumns+`
	`, track.ID, track.Title, track.Duration, s.now())

	updated, err := scanTrack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Track{}, fmt.Errorf("%w: %s", ErrTrackNotFound, track.ID)
		}
		return Track{}, fmt.Errorf("update track: %w", err)
	}
	return updated, nil
}

// DeleteTrack removes a single track.
func (s *Store) DeleteTrack(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "tracks", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrTrackNotFound, id)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM tracks WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete track: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete track: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func scanTrack(scanner rowScanner) (Track, error) {
	var t Track
	if err := scanner.Scan(&t.ID, &t.Title, &t.Duration, &t.AlbumID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Track{}, err
		}
		return Track{}, fmt.Errorf("scan track: %w", err)
	}
	return t, nil
}

func scanTrackRows(rows *sql.Rows) ([]Track, error) {
	tracks := []Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}
