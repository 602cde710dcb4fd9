package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/patch"
)

type createAlbumRequest struct {
	Title       string `json:"title"`
	ReleaseYear int    `json:"releaseYear"`
	ArtistID    string `json:"artistId"`
}

type updateAlbumRequest struct {
	Title       patch.Field[string] `json:"title"`
	ReleaseYear patch.Field[int]    `json:"releaseYear"`
}

var errReleaseYear = fmt.Sprintf("releaseYear must be between %d and %d", albums.MinReleaseYear, albums.MaxReleaseYear)

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}
	if albums.ValidateReleaseYear(req.ReleaseYear) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errReleaseYear})
		return
	}

	created, err := s.albums.Create(r.Context(), albums.CreateInput{
		Title:       req.Title,
		ReleaseYear: req.ReleaseYear,
		ArtistID:    req.ArtistID,
	})
	if err != nil {
		writeError(w, r, err, "unable to create album")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	list, err := s.albums.List(r.Context())
	if err != nil {
		writeError(w, r, err, "unable to list albums")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.albums.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err, "unable to load album")
		return
	}

	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var req updateAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	p := albums.Patch{Title: req.Title, ReleaseYear: req.ReleaseYear}
	if p.Empty() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errNoFields})
		return
	}
	if title, ok := p.Title.Get(); ok && strings.TrimSpace(title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title cannot be empty"})
		return
	}
	if year, ok := p.ReleaseYear.Get(); ok && albums.ValidateReleaseYear(year) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errReleaseYear})
		return
	}

	updated, err := s.albums.Update(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		writeError(w, r, err, "unable to update album")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.albums.Delete(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err, "unable to delete album")
		return
	}
	if !deleted {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unable to delete album"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "album deleted"})
}

func (s *Server) handleListAlbumTracks(w http.ResponseWriter, r *http.Request) {
	list, err := s.tracks.ListByAlbum(r.Context(), pathVar(r, "albumId"))
	if err != nil {
		writeError(w, r, err, "unable to list album tracks")
		return
	}

	writeJSON(w, http.StatusOK, list)
}
