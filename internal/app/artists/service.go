package artists

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"musiccatalog/internal/patch"
	"musiccatalog/internal/store"
)

// Artist is the response shape of an artist.
type Artist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Genre     *string   `json:"genre"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput carries the fields needed to register an artist.
type CreateInput struct {
	Name  string
	Genre *string
}

// Patch lists the fields an update may replace. Unset fields keep their value.
type Patch struct {
	Name  patch.Field[string]
	Genre patch.Field[string]
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return !p.Name.IsSet() && !p.Genre.IsSet()
}

// Store captures the persistence needs for artist workflows.
type Store interface {
	CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error)
	ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error)
	ListArtists(ctx context.Context) ([]store.Artist, error)
	UpdateArtist(ctx context.Context, artist store.Artist) (store.Artist, error)
	DeleteArtist(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service provides artist-centric operations.
type Service interface {
	Create(ctx context.Context, in CreateInput) (Artist, error)
	Get(ctx context.Context, id string) (Artist, error)
	List(ctx context.Context) ([]Artist, error)
	Update(ctx context.Context, id string, p Patch) (Artist, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type service struct {
	store Store
}

// New constructs an artist Service backed by the supplied store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, in CreateInput) (Artist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Artist{}, fmt.Errorf("%w: name is required", store.ErrInvalidInput)
	}

	created, err := s.store.CreateArtist(ctx, store.Artist{
		ID:    uuid.New(),
		Name:  name,
		Genre: in.Genre,
	})
	if err != nil {
		return Artist{}, err
	}
	return toResponse(created), nil
}

func (s *service) Get(ctx context.Context, id string) (Artist, error) {
	artistID, err := store.ParseID(id)
	if err != nil {
		return Artist{}, err
	}

	artist, err := s.store.ArtistByID(ctx, artistID)
	if err != nil {
		return Artist{}, err
	}
	return toResponse(artist), nil
}

func (s *service) List(ctx context.Context) ([]Artist, error) {
	artists, err := s.store.ListArtists(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Artist, 0, len(artists))
	for _, a := range artists {
		out = append(out, toResponse(a))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id string, p Patch) (Artist, error) {
	artistID, err := store.ParseID(id)
	if err != nil {
		return Artist{}, err
	}
	if name, ok := p.Name.Get(); ok && strings.TrimSpace(name) == "" {
		return Artist{}, fmt.Errorf("%w: name cannot be empty", store.ErrInvalidInput)
	}

	current, err := s.store.ArtistByID(ctx, artistID)
	if err != nil {
		return Artist{}, err
	}

	current.Name = strings.TrimSpace(p.Name.Or(current.Name))
	if genre, ok := p.Genre.Get(); ok {
		current.Genre = &genre
	}

	updated, err := s.store.UpdateArtist(ctx, current)
	if err != nil {
		return Artist{}, err
	}
	return toResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	artistID, err := store.ParseID(id)
	if err != nil {
		return false, err
	}
	return s.store.DeleteArtist(ctx, artistID)
}

func toResponse(a store.Artist) Artist {
	return Artist{
		ID:        a.ID.String(),
		Name:      a.Name,
		Genre:     a.Genre,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
