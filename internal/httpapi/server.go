package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/logging"
	"musiccatalog/internal/store"
)

// ArtistService describes artist catalogue workflows.
type ArtistService interface {
	Create(ctx context.Context, in artists.CreateInput) (artists.Artist, error)
	Get(ctx context.Context, id string) (artists.Artist, error)
	List(ctx context.Context) ([]artists.Artist, error)
	Update(ctx context.Context, id string, p artists.Patch) (artists.Artist, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AlbumService exposes album-specific workflows.
type AlbumService interface {
	Create(ctx context.Context, in albums.CreateInput) (albums.Album, error)
	Get(ctx context.Context, id string) (albums.Album, error)
	List(ctx context.Context) ([]albums.Album, error)
	ListByArtist(ctx context.Context, artistID string) ([]albums.Album, error)
	Update(ctx context.Context, id string, p albums.Patch) (albums.Album, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TrackService coordinates track-level operations.
type TrackService interface {
	Create(ctx context.Context, in tracks.CreateInput) (tracks.Track, error)
	Get(ctx context.Context, id string) (tracks.Track, error)
	List(ctx context.Context) ([]tracks.Track, error)
	ListByAlbum(ctx context.Context, albumID string) ([]tracks.Track, error)
	Update(ctx context.Context, id string, p tracks.Patch) (tracks.Track, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	artists ArtistService
	albums  AlbumService
	tracks  TrackService
}

// New configures a Server with the given services.
func New(artists ArtistService, albums AlbumService, tracks TrackService) *Server {
	return &Server{
		artists: artists,
		albums:  albums,
		tracks:  tracks,
	}
}

// Routes exposes the catalogue HTTP handlers.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/artistas", s.handleCreateArtist).Methods(http.MethodPost)
	router.HandleFunc("/api/artistas", s.handleListArtists).Methods(http.MethodGet)
	router.HandleFunc("/api/artistas/{id}", s.handleGetArtist).Methods(http.MethodGet)
	router.HandleFunc("/api/artistas/{id}", s.handleUpdateArtist).Methods(http.MethodPut)
	router.HandleFunc("/api/artistas/{id}", s.handleDeleteArtist).Methods(http.MethodDelete)
	router.HandleFunc("/api/artistas/{artistId}/albumes", s.handleListArtistAlbums).Methods(http.MethodGet)

	router.HandleFunc("/api/albumes", s.handleCreateAlbum).Methods(http.MethodPost)
	router.HandleFunc("/api/albumes", s.handleListAlbums).Methods(http.MethodGet)
	router.HandleFunc("/api/albumes/{id}", s.handleGetAlbum).Methods(http.MethodGet)
	router.HandleFunc("/api/albumes/{id}", s.handleUpdateAlbum).Methods(http.MethodPut)
	router.HandleFunc("/api/albumes/{id}", s.handleDeleteAlbum).Methods(http.MethodDelete)
	router.HandleFunc("/api/albumes/{albumId}/tracks", s.handleListAlbumTracks).Methods(http.MethodGet)
	// Legacy spelling kept for existing clients.
	router.HandleFunc("/api/albumess/{albumId}/tracks", s.handleListAlbumTracks).Methods(http.MethodGet)

	router.HandleFunc("/api/tracks", s.handleCreateTrack).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks", s.handleListTracks).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", s.handleGetTrack).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", s.handleUpdateTrack).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", s.handleDeleteTrack).Methods(http.MethodDelete)

	return router
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

const errNoFields = "at least one field must be provided for update"

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeInvalidJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the mapped status. Client errors echo the error
// text; anything unexpected is logged and replaced by fallback.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logging.WithContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(fallback)
		writeJSON(w, status, errorResponse{Error: fallback})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
