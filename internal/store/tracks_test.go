package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func trackRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "duration", "album_id", "created_at", "updated_at"})
}

func TestCreateTrackMissingAlbumWritesNothing(t *testing.T) {
	s, mock := newMockStore(t)

	albumID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM albums WHERE id = $1`)).
		WithArgs(albumID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err := s.CreateTrack(context.Background(), Track{ID: uuid.New(), Title: "Intro", Duration: 60, AlbumID: albumID})
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTrackSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	albumID := uuid.New()
	trackID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM albums WHERE id = $1`)).
		WithArgs(albumID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tracks (id, title, duration, album_id, created_at, updated_at)`)).
		WithArgs(trackID, "So What", 562, albumID, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := s.CreateTrack(context.Background(), Track{ID: trackID, Title: "So What", Duration: 562, AlbumID: albumID})
	if err != nil {
		t.Fatalf("CreateTrack error: %v", err)
	}
	if got.ID != trackID || got.Duration != 562 {
		t.Fatalf("unexpected track: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTracksByAlbumEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	albumID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM albums WHERE id = $1`)).
		WithArgs(albumID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE album_id = $1`)).
		WithArgs(albumID).
		WillReturnRows(trackRows())
	mock.ExpectCommit()

	got, err := s.TracksByAlbum(context.Background(), albumID)
	if err != nil {
		t.Fatalf("TracksByAlbum error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrack(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()
	albumID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE tracks`)).
		WithArgs(id, "Freddie Freeloader", 589, fixedNow).
		WillReturnRows(trackRows().AddRow(id.String(), "Freddie Freeloader", 589, albumID.String(), fixedNow, fixedNow))

	got, err := s.UpdateTrack(context.Background(), Track{ID: id, Title: "Freddie Freeloader", Duration: 589, AlbumID: albumID})
	if err != nil {
		t.Fatalf("UpdateTrack error: %v", err)
	}
	if got.AlbumID != albumID || got.Duration != 589 {
		t.Fatalf("unexpected track: %+v", got)
	}
}

func TestDeleteTrackDatabaseError(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM tracks WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tracks WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.DeleteTrack(context.Background(), id)
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("database failure must not look like a missing record: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
