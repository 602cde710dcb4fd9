package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInvalidInput signals client data that breaks a catalog rule.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidID indicates an identifier that is not canonical UUID text.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrNotFound is the parent of every "record does not exist" error.
	ErrNotFound = errors.New("not found")

	// ErrArtistNotFound signals a missing artist record.
	ErrArtistNotFound = fmt.Errorf("artist %w", ErrNotFound)
	// ErrAlbumNotFound signals a missing album record.
	ErrAlbumNotFound = fmt.Errorf("album %w", ErrNotFound)
	// ErrTrackNotFound signals a missing track record.
	ErrTrackNotFound = fmt.Errorf("track %w", ErrNotFound)
)

// Catalog is the repository contract shared by the Postgres and in-memory stores.
type Catalog interface {
	CreateArtist(ctx context.Context, artist Artist) (Artist, error)
	ArtistByID(ctx context.Context, id uuid.UUID) (Artist, error)
	ListArtists(ctx context.Context) ([]Artist, error)
	UpdateArtist(ctx context.Context, artist Artist) (Artist, error)
	DeleteArtist(ctx context.Context, id uuid.UUID) (bool, error)

	CreateAlbum(ctx context.Context, album Album) (Album, error)
	AlbumByID(ctx context.Context, id uuid.UUID) (Album, error)
	ListAlbums(ctx context.Context) ([]Album, error)
	AlbumsByArtist(ctx context.Context, artistID uuid.UUID) ([]Album, error)
	UpdateAlbum(ctx context.Context, album Album) (Album, error)
	DeleteAlbum(ctx context.Context, id uuid.UUID) (bool, error)

	CreateTrack(ctx context.Context, track Track) (Track, error)
	TrackByID(ctx context.Context, id uuid.UUID) (Track, error)
	ListTracks(ctx context.Context) ([]Track, error)
	TracksByAlbum(ctx context.Context, albumID uuid.UUID) ([]Track, error)
	UpdateTrack(ctx context.Context, track Track) (Track, error)
	DeleteTrack(ctx context.Context, id uuid.UUID) (bool, error)
}

var (
	_ Catalog = (*Store)(nil)
	_ Catalog = (*MemoryStore)(nil)
)

// Store provides persistence backed by Postgres.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: Now}
}

// Now returns the current instant at the precision Postgres stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ParseID converts client supplied text into a UUID. Only the canonical
// 36 character form is accepted.
func ParseID(raw string) (uuid.UUID, error) {
	if len(raw) != 36 {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid UUID", ErrInvalidID, raw)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid UUID", ErrInvalidID, raw)
	}
	return id, nil
}

// withTx runs fn inside a repeatable-read transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, q queryRower, table string, id uuid.UUID) (bool, error) {
	var found int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = $1`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return true, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}
