package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/patch"
)

type createTrackRequest struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	AlbumID  string `json:"albumId"`
}

type updateTrackRequest struct {
	Title    patch.Field[string] `json:"title"`
	Duration patch.Field[int]    `json:"duration"`
}

var errDuration = fmt.Sprintf("duration must be between 1 and %d seconds", tracks.MaxDuration)

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	var req createTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}
	if tracks.ValidateDuration(req.Duration) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errDuration})
		return
	}

	created, err := s.tracks.Create(r.Context(), tracks.CreateInput{
		Title:    req.Title,
		Duration: req.Duration,
		AlbumID:  req.AlbumID,
	})
	if err != nil {
		writeError(w, r, err, "unable to create track")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	list, err := s.tracks.List(r.Context())
	if err != nil {
		writeError(w, r, err, "unable to list tracks")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	track, err := s.tracks.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err, "unable to load track")
		return
	}

	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	var req updateTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	p := tracks.Patch{Title: req.Title, Duration: req.Duration}
	if p.Empty() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errNoFields})
		return
	}
	if title, ok := p.Title.Get(); ok && strings.TrimSpace(title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title cannot be empty"})
		return
	}
	if duration, ok := p.Duration.Get(); ok && tracks.ValidateDuration(duration) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errDuration})
		return
	}

	updated, err := s.tracks.Update(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		writeError(w, r, err, "unable to update track")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.tracks.Delete(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err, "unable to delete track")
		return
	}
	if !deleted {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unable to delete track"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "track deleted"})
}
