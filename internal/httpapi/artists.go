package httpapi

import (
	"net/http"
	"strings"

	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/patch"
)

type createArtistRequest struct {
	Name  string  `json:"name"`
	Genre *string `json:"genre"`
}

type updateArtistRequest struct {
	Name  patch.Field[string] `json:"name"`
	Genre patch.Field[string] `json:"genre"`
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req createArtistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	created, err := s.artists.Create(r.Context(), artists.CreateInput{Name: req.Name, Genre: req.Genre})
	if err != nil {
		writeError(w, r, err, "unable to create artist")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	list, err := s.artists.List(r.Context())
	if err != nil {
		writeError(w, r, err, "unable to list artists")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.artists.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err, "unable to load artist")
		return
	}

	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	var req updateArtistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	p := artists.Patch{Name: req.Name, Genre: req.Genre}
	if p.Empty() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errNoFields})
		return
	}
	if name, ok := p.Name.Get(); ok && strings.TrimSpace(name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name cannot be empty"})
		return
	}

	updated, err := s.artists.Update(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		writeError(w, r, err, "unable to update artist")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.artists.Delete(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err, "unable to delete artist")
		return
	}
	if !deleted {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unable to delete artist"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "artist deleted"})
}

func (s *Server) handleListArtistAlbums(w http.ResponseWriter, r *http.Request) {
	list, err := s.albums.ListByArtist(r.Context(), pathVar(r, "artistId"))
	if err != nil {
		writeError(w, r, err, "unable to list artist albums")
		return
	}

	writeJSON(w, http.StatusOK, list)
}
