package store

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the catalog in process memory. It honours the same
// contract as Store, cascading deletes included, and is meant for tests and
// local demos.
type MemoryStore struct {
	mu      sync.RWMutex
	artists map[uuid.UUID]Artist
	albums  map[uuid.UUID]Album
	tracks  map[uuid.UUID]Track
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artists: make(map[uuid.UUID]Artist),
		albums:  make(map[uuid.UUID]Album),
		tracks:  make(map[uuid.UUID]Track),
		now:     Now,
	}
}

// SetClock replaces the timestamp source.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// CreateArtist stores a new artist.
func (m *MemoryStore) CreateArtist(_ context.Context, artist Artist) (Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artists[artist.ID]; ok {
		return Artist{}, fmt.Errorf("insert artist: duplicate id %s", artist.ID)
	}
	now := m.now()
	artist.CreatedAt = now
	artist.UpdatedAt = now
	artist.Genre = cloneString(artist.Genre)
	m.artists[artist.ID] = artist

	return cloneArtist(artist), nil
}

// ArtistByID returns the artist or ErrArtistNotFound.
func (m *MemoryStore) ArtistByID(_ context.Context, id uuid.UUID) (Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	artist, ok := m.artists[id]
	if !ok {
		return Artist{}, fmt.Errorf("%w: %s", ErrArtistNotFound, id)
	}
	return cloneArtist(artist), nil
}

// ListArtists returns every artist ordered by name.
func (m *MemoryStore) ListArtists(_ context.Context) ([]Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	artists := make([]Artist, 0, len(m.artists))
	for _, a := range m.artists {
		artists = append(artists, cloneArtist(a))
	}
	sort.Slice(artists, func(i, j int) bool {
		if artists[i].Name != artists[j].Name {
			return artists[i].Name < artists[j].Name
		}
		return lessID(artists[i].ID, artists[j].ID)
	})
	return artists, nil
}

// UpdateArtist overwrites name and genre and refreshes UpdatedAt.
func (m *MemoryStore) UpdateArtist(_ context.Context, artist Artist) (Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.artists[artist.ID]
	if !ok {
		return Artist{}, fmt.Errorf("%w: %s", ErrArtistNotFound, artist.ID)
	}
	current.Name = artist.Name
	current.Genre = cloneString(artist.Genre)
	current.UpdatedAt = m.now()
	m.artists[current.ID] = current

	return cloneArtist(current), nil
}

// DeleteArtist removes the artist with its albums and their tracks.
func (m *MemoryStore) DeleteArtist(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artists[id]; !ok {
		return false, fmt.Errorf("%w: %s", ErrArtistNotFound, id)
	}
	for albumID, album := range m.albums {
		if album.ArtistID == id {
			m.deleteAlbumLocked(albumID)
		}
	}
	delete(m.artists, id)
	return true, nil
}

// CreateAlbum stores a new album under an existing artist.
func (m *MemoryStore) CreateAlbum(_ context.Context, album Album) (Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artists[album.ArtistID]; !ok {
		return Album{}, fmt.Errorf("%w: %s", ErrArtistNotFound, album.ArtistID)
	}
	if _, ok := m.albums[album.ID]; ok {
		return Album{}, fmt.Errorf("insert album: duplicate id %s", album.ID)
	}
	now := m.now()
	album.CreatedAt = now
	album.UpdatedAt = now
	m.albums[album.ID] = album

	return album, nil
}

// AlbumByID returns the album or ErrAlbumNotFound.
func (m *MemoryStore) AlbumByID(_ context.Context, id uuid.UUID) (Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	album, ok := m.albums[id]
	if !ok {
		return Album{}, fmt.Errorf("%w: %s", ErrAlbumNotFound, id)
	}
	return album, nil
}

// ListAlbums returns every album.
func (m *MemoryStore) ListAlbums(_ context.Context) ([]Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.albumsWhereLocked(func(Album) bool { return true }), nil
}

// AlbumsByArtist returns the albums of one artist.
func (m *MemoryStore) AlbumsByArtist(_ context.Context, artistID uuid.UUID) ([]Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.artists[artistID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtistNotFound, artistID)
	}
	return m.albumsWhereLocked(func(a Album) bool { return a.ArtistID == artistID }), nil
}

// UpdateAlbum overwrites title and release year.
func (m *MemoryStore) UpdateAlbum(_ context.Context, album Album) (Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.albums[album.ID]
	if !ok {
		return Album{}, fmt.Errorf("%w: %s", ErrAlbumNotFound, album.ID)
	}
	current.Title = album.Title
	current.ReleaseYear = album.ReleaseYear
	current.UpdatedAt = m.now()
	m.albums[current.ID] = current

	return current, nil
}

// DeleteAlbum removes the album and its tracks.
func (m *MemoryStore) DeleteAlbum(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.albums[id]; !ok {
		return false, fmt.Errorf("%w: %s", ErrAlbumNotFound, id)
	}
	m.deleteAlbumLocked(id)
	return true, nil
}

// CreateTrack stores a new track under an existing album.
func (m *MemoryStore) CreateTrack(_ context.Context, track Track) (Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.albums[track.AlbumID]; !ok {
		return Track{}, fmt.Errorf("%w: %s", ErrAlbumNotFound, track.AlbumID)
	}
	if _, ok := m.tracks[track.ID]; ok {
		return Track{}, fmt.Errorf("insert track: duplicate id %s", track.ID)
	}
	now := m.now()
	track.CreatedAt = now
	track.UpdatedAt = now
	m.tracks[track.ID] = track

	return track, nil
}

// TrackByID returns the track or ErrTrackNotFound.
func (m *MemoryStore) TrackByID(_ context.Context, id uuid.UUID) (Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, ok := m.tracks[id]
	if !ok {
		return Track{}, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
	}
	return track, nil
}

// ListTracks returns every track.
func (m *MemoryStore) ListTracks(_ context.Context) ([]Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tracks := make([]Track, 0, len(m.tracks))
	for _, t := range m.tracks {
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Title != tracks[j].Title {
			return tracks[i].Title < tracks[j].Title
		}
		return lessID(tracks[i].ID, tracks[j].ID)
	})
	return tracks, nil
}

// TracksByAlbum returns the tracks of one album.
func (m *MemoryStore) TracksByAlbum(_ context.Context, albumID uuid.UUID) ([]Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.albums[albumID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrAlbumNotFound, albumID)
	}
	tracks := []Track{}
	for _, t := range m.tracks {
		if t.AlbumID == albumID {
			tracks = append(tracks, t)
		}
	}
	sort.Slice(tracks, func(i, j int) bool { return lessID(tracks[i].ID, tracks[j].ID) })
	return tracks, nil
}

// UpdateTrack overwrites title and duration.
func (m *MemoryStore) UpdateTrack(_ context.Context, track Track) (Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tracks[track.ID]
	if !ok {
		return Track{}, fmt.Errorf("%w: %s", ErrTrackNotFound, track.ID)
	}
	current.Title = track.Title
	current.Duration = track.Duration
	current.UpdatedAt = m.now()
	m.tracks[current.ID] = current

	return current, nil
}

// DeleteTrack removes a single track.
func (m *MemoryStore) DeleteTrack(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tracks[id]; !ok {
		return false, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
	}
	delete(m.tracks, id)
	return true, nil
}

func (m *MemoryStore) deleteAlbumLocked(id uuid.UUID) {
	for trackID, track := range m.tracks {
		if track.AlbumID == id {
			delete(m.tracks, trackID)
		}
	}
	delete(m.albums, id)
}

func (m *MemoryStore) albumsWhereLocked(keep func(Album) bool) []Album {
	albums := []Album{}
	for _, a := range m.albums {
		if keep(a) {
			albums = append(albums, a)
		}
	}
	sort.Slice(albums, func(i, j int) bool {
		if albums[i].ReleaseYear != albums[j].ReleaseYear {
			return albums[i].ReleaseYear > albums[j].ReleaseYear
		}
		return lessID(albums[i].ID, albums[j].ID)
	})
	return albums
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func cloneArtist(a Artist) Artist {
	a.Genre = cloneString(a.Genre)
	return a
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
