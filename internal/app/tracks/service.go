package tracks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"musiccatalog/internal/logging"
	"musiccatalog/internal/patch"
	"musiccatalog/internal/store"
)

// MaxDuration is the longest accepted track, in seconds.
const MaxDuration = 7200

// Track is the response shape of a track. AlbumTitle and ArtistName are
// resolved on a best effort basis and stay nil when unavailable.
type Track struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Duration          int       `json:"duration"`
	DurationFormatted string    `json:"durationFormatted"`
	AlbumID           string    `json:"albumId"`
	AlbumTitle        *string   `json:"albumTitle"`
	ArtistName        *string   `json:"artistName"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateInput carries the fields needed to register a track.
type CreateInput struct {
	Title    string
	Duration int
	AlbumID  string
}

// Patch lists the fields an update may replace.
type Patch struct {
	Title    patch.Field[string]
	Duration patch.Field[int]
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return !p.Title.IsSet() && !p.Duration.IsSet()
}

// ValidateDuration checks seconds against (0, MaxDuration].
func ValidateDuration(seconds int) error {
	switch {
	case seconds <= 0:
		return fmt.Errorf("%w: duration must be greater than 0", store.ErrInvalidInput)
	case seconds > MaxDuration:
		return fmt.Errorf("%w: duration cannot exceed %d seconds", store.ErrInvalidInput, MaxDuration)
	}
	return nil
}

// FormatDuration renders seconds as MM:SS, or HH:MM:SS from one hour up.
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// Store captures the persistence needs for track workflows.
type Store interface {
	CreateTrack(ctx context.Context, track store.Track) (store.Track, error)
	TrackByID(ctx context.Context, id uuid.UUID) (store.Track, error)
	ListTracks(ctx context.Context) ([]store.Track, error)
	TracksByAlbum(ctx context.Context, albumID uuid.UUID) ([]store.Track, error)
	UpdateTrack(ctx context.Context, track store.Track) (store.Track, error)
	DeleteTrack(ctx context.Context, id uuid.UUID) (bool, error)
}

// CatalogProvider exposes the lookups used to describe where a track lives.
type CatalogProvider interface {
	AlbumByID(ctx context.Context, id uuid.UUID) (store.Album, error)
	ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error)
}

// Service exposes track-centric operations.
type Service interface {
	Create(ctx context.Context, in CreateInput) (Track, error)
	Get(ctx context.Context, id string) (Track, error)
	List(ctx context.Context) ([]Track, error)
	ListByAlbum(ctx context.Context, albumID string) ([]Track, error)
	Update(ctx context.Context, id string, p Patch) (Track, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type service struct {
	store   Store
	catalog CatalogProvider
}

// New constructs a track Service.
func New(store Store, catalog CatalogProvider) Service {
	return &service{store: store, catalog: catalog}
}

func (s *service) Create(ctx context.Context, in CreateInput) (Track, error) {
	albumID, err := store.ParseID(in.AlbumID)
	if err != nil {
		return Track{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Track{}, fmt.Errorf("%w: title is required", store.ErrInvalidInput)
	}

	created, err := s.store.CreateTrack(ctx, store.Track{
		ID:       uuid.New(),
		Title:    title,
		Duration: in.Duration,
		AlbumID:  albumID,
	})
	if err != nil {
		return Track{}, err
	}
	return s.toResponse(ctx, created), nil
}

func (s *service) Get(ctx context.Context, id string) (Track, error) {
	trackID, err := store.ParseID(id)
	if err != nil {
		return Track{}, err
	}

	track, err := s.store.TrackByID(ctx, trackID)
	if err != nil {
		return Track{}, err
	}
	return s.toResponse(ctx, track), nil
}

func (s *service) List(ctx context.Context) ([]Track, error) {
	tracks, err := s.store.ListTracks(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, tracks), nil
}

func (s *service) ListByAlbum(ctx context.Context, albumID string) ([]Track, error) {
	id, err := store.ParseID(albumID)
	if err != nil {
		return nil, err
	}

	tracks, err := s.store.TracksByAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, tracks), nil
}

func (s *service) Update(ctx context.Context, id string, p Patch) (Track, error) {
	trackID, err := store.ParseID(id)
	if err != nil {
		return Track{}, err
	}
	if title, ok := p.Title.Get(); ok && strings.TrimSpace(title) == "" {
		return Track{}, fmt.Errorf("%w: title cannot be empty", store.ErrInvalidInput)
	}

	current, err := s.store.TrackByID(ctx, trackID)
	if err != nil {
		return Track{}, err
	}

	current.Title = strings.TrimSpace(p.Title.Or(current.Title))
	current.Duration = p.Duration.Or(current.Duration)

	updated, err := s.store.UpdateTrack(ctx, current)
	if err != nil {
		return Track{}, err
	}
	return s.toResponse(ctx, updated), nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	trackID, err := store.ParseID(id)
	if err != nil {
		return false, err
	}
	return s.store.DeleteTrack(ctx, trackID)
}

func (s *service) toResponses(ctx context.Context, tracks []store.Track) []Track {
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, s.toResponse(ctx, t))
	}
	return out
}

func (s *service) toResponse(ctx context.Context, t store.Track) Track {
	resp := Track{
		ID:                t.ID.String(),
		Title:             t.Title,
		Duration:          t.Duration,
		DurationFormatted: FormatDuration(t.Duration),
		AlbumID:           t.AlbumID.String(),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}

	album, err := s.catalog.AlbumByID(ctx, t.AlbumID)
	if err != nil {
		logEnrichmentFailure(ctx, err, resp.ID, "resolve track album")
		return resp
	}
	resp.AlbumTitle = &album.Title

	artist, err := s.catalog.ArtistByID(ctx, album.ArtistID)
	if err != nil {
		logEnrichmentFailure(ctx, err, resp.ID, "resolve track artist")
		return resp
	}
	resp.ArtistName = &artist.Name

	return resp
}

func logEnrichmentFailure(ctx context.Context, err error, trackID, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	logging.WithContext(ctx).Warn().Err(err).Str("track_id", trackID).Msg(msg)
}
