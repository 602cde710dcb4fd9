package albums

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

// Accepted release year range, inclusive.
const (
	MinReleaseYear = 1900
	MaxReleaseYear = 2100
)

// Album is the response shape of an album. ArtistName is filled on a best
// effort basis and stays nil when the artist cannot be resolved.
type Album struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ReleaseYear int       `json:"releaseYear"`
	ArtistID    string    `json:"artistId"`
	ArtistName  *string   `json:"artistName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries the fields needed to register an album.
type CreateInput struct {
	Title       string
	ReleaseYear int
	ArtistID    string
}

// Patch lists the fields an update may replace.
type Patch struct {
	Title       patch.Field[string]
	ReleaseYear patch.Field[int]
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return !p.Title.IsSet() && !p.ReleaseYear.IsSet()
}

// ValidateReleaseYear checks year against the accepted range.
func ValidateReleaseYear(year int) error {
	if year < MinReleaseYear || year > MaxReleaseYear {
		return fmt.Errorf("%w: releaseYear must be between %d and %d", store.ErrInvalidInput, MinReleaseYear, MaxReleaseYear)
	}
	return nil
}

// Store captures the persistence needs for album workflows.
type Store interface {
	CreateAlbum(ctx context.Context, album store.Album) (store.Album, error)
	AlbumByID(ctx context.Context, id uuid.UUID) (store.Album, error)
	ListAlbums(ctx context.Context) ([]store.Album, error)
	AlbumsByArtist(ctx context.Context, artistID uuid.UUID) ([]store.Album, error)
	UpdateAlbum(ctx context.Context, album store.Album) (store.Album, error)
	DeleteAlbum(ctx context.Context, id uuid.UUID) (bool, error)
}

// ArtistProvider exposes the artist lookup used to name an album's artist.
type ArtistProvider interface {
	ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error)
}

// Service coordinates album-related operations.
type Service interface {
	Create(ctx context.Context, in CreateInput) (Album, error)
	Get(ctx context.Context, id string) (Album, error)
	List(ctx context.Context) ([]Album, error)
	ListByArtist(ctx context.Context, artistID string) ([]Album, error)
	Update(ctx context.Context, id string, p Patch) (Album, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type service struct {
	store   Store
	artists ArtistProvider
}

// New constructs a Service backed by the provided Store.
func New(store Store, artists ArtistProvider) Service {
	return &service{store: store, artists: artists}
}

func (s *service) Create(ctx context.Context, in CreateInput) (Album, error) {
	artistID, err := store.ParseID(in.ArtistID)
	if err != nil {
		return Album{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Album{}, fmt.Errorf("%w: title is required", store.ErrInvalidInput)
	}
	if err := ValidateReleaseYear(in.ReleaseYear); err != nil {
		return Album{}, err
	}

	created, err := s.store.CreateAlbum(ctx, store.Album{
		ID:          uuid.New(),
		Title:       title,
		ReleaseYear: in.ReleaseYear,
		ArtistID:    artistID,
	})
	if err != nil {
		return Album{}, err
	}
	return s.toResponse(ctx, created), nil
}

func (s *service) Get(ctx context.Context, id string) (Album, error) {
	albumID, err := store.ParseID(id)
	if err != nil {
		return Album{}, err
	}

	album, err := s.store.AlbumByID(ctx, albumID)
	if err != nil {
		return Album{}, err
	}
	return s.toResponse(ctx, album), nil
}

func (s *service) List(ctx context.Context) ([]Album, error) {
	albums, err := s.store.ListAlbums(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, albums), nil
}

func (s *service) ListByArtist(ctx context.Context, artistID string) ([]Album, error) {
	id, err := store.ParseID(artistID)
	if err != nil {
		return nil, err
	}

	albums, err := s.store.AlbumsByArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, albums), nil
}

func (s *service) Update(ctx context.Context, id string, p Patch) (Album, error) {
	albumID, err := store.ParseID(id)
	if err != nil {
		return Album{}, err
	}
	if title, ok := p.Title.Get(); ok && strings.TrimSpace(title) == "" {
		return Album{}, fmt.Errorf("%w: title cannot be empty", store.ErrInvalidInput)
	}
	if year, ok := p.ReleaseYear.Get(); ok {
		if err := ValidateReleaseYear(year); err != nil {
			return Album{}, err
		}
	}

	current, err := s.store.AlbumByID(ctx, albumID)
	if err != nil {
		return Album{}, err
	}

	current.Title = strings.TrimSpace(p.Title.Or(current.Title))
	current.ReleaseYear = p.ReleaseYear.Or(current.ReleaseYear)

	updated, err := s.store.UpdateAlbum(ctx, current)
	if err != nil {
		return Album{}, err
	}
	return s.toResponse(ctx, updated), nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	albumID, err := store.ParseID(id)
	if err != nil {
		return false, err
	}
	return s.store.DeleteAlbum(ctx, albumID)
}

func (s *service) toResponses(ctx context.Context, albums []store.Album) []Album {
	out := make([]Album, 0, len(albums))
	for _, a := range albums {
		out = append(out, s.toResponse(ctx, a))
	}
	return out
}

func (s *service) toResponse(ctx context.Context, a store.Album) Album {
	resp := Album{
		ID:          a.ID.String(),
		Title:       a.Title,
		ReleaseYear: a.ReleaseYear,
		ArtistID:    a.ArtistID.String(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	artist, err := s.artists.ArtistByID(ctx, a.ArtistID)
	switch {
	case err == nil:
		resp.ArtistName = &artist.Name
	case !errors.Is(err, store.ErrNotFound):
		logging.WithContext(ctx).Warn().Err(err).Str("album_id", resp.ID).Msg("resolve album artist")
	}
	return resp
}
