package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

func albumRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "release_year", "artist_id", "created_at", "updated_at"})
}

func TestCreateAlbumSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	artistID := uuid.New()
	albumID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM artists WHERE id = $1`)).
		WithArgs(artistID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO albums (id, title, release_year, artist_id, created_at, updated_at)`)).
		WithArgs(albumID, "Blue Train", 1957, artistID, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := s.CreateAlbum(context.Background(), Album{
		ID:          albumID,
		Title:       "Blue Train",
		ReleaseYear: 1957,
		ArtistID:    artistID,
	})
	if err != nil {
		t.Fatalf("CreateAlbum error: %v", err)
	}
	if !got.CreatedAt.Equal(fixedNow) || !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("expected both timestamps at %v, got %v / %v", fixedNow, got.CreatedAt, got.UpdatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAlbumMissingArtist(t *testing.T) {
	s, mock := newMockStore(t)

	artistID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM artists WHERE id = $1`)).
		WithArgs(artistID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err := s.CreateAlbum(context.Background(), Album{ID: uuid.New(), Title: "Orphan", ReleaseYear: 2000, ArtistID: artistID})
	if !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAlbumForeignKeyRace(t *testing.T) {
	s, mock := newMockStore(t)

	artistID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM artists WHERE id = $1`)).
		WithArgs(artistID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO albums`)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := s.CreateAlbum(context.Background(), Album{ID: uuid.New(), Title: "Gone", ReleaseYear: 2001, ArtistID: artistID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAlbumByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM albums`)).
		WithArgs(id).
		WillReturnRows(albumRows())

	_, err := s.AlbumByID(context.Background(), id)
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}
}

func TestAlbumsByArtist(t *testing.T) {
	s, mock := newMockStore(t)

	artistID := uuid.New()
	newer := uuid.New()
	older := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM artists WHERE id = $1`)).
		WithArgs(artistID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY release_year DESC, id ASC`)).
		WithArgs(artistID).
		WillReturnRows(albumRows().
			AddRow(newer.String(), "Later", 1970, artistID.String(), fixedNow, fixedNow).
			AddRow(older.String(), "Earlier", 1960, artistID.String(), fixedNow, fixedNow))
	mock.ExpectCommit()

	got, err := s.AlbumsByArtist(context.Background(), artistID)
	if err != nil {
		t.Fatalf("AlbumsByArtist error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(got))
	}
	if got[0].ID != newer || got[1].ReleaseYear != 1960 {
		t.Fatalf("unexpected order: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAlbumsByArtistMissingArtist(t *testing.T) {
	s, mock := newMockStore(t)

	artistID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM artists WHERE id = $1`)).
		WithArgs(artistID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err := s.AlbumsByArtist(context.Background(), artistID)
	if !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAlbumsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM albums`)).WillReturnRows(albumRows())

	got, err := s.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListAlbums error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestUpdateAlbumMissing(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE albums`)).
		WithArgs(id, "New Title", 1999, fixedNow).
		WillReturnRows(albumRows())

	_, err := s.UpdateAlbum(context.Background(), Album{ID: id, Title: "New Title", ReleaseYear: 1999})
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}
}

func TestDeleteAlbum(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM albums WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM albums WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := s.DeleteAlbum(context.Background(), id)
	if err != nil {
		t.Fatalf("DeleteAlbum error: %v", err)
	}
	if !deleted {
		t.Fatalf("expected album to be deleted")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
