package api

import (
	"net/http"

	"polingo/internal/logger"
	"polingo/internal/models"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.SessionService.GetState(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleUpdateLanguage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.SessionLanguageUpdate
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("updating language set: %s", req.LanguageSet)
	state, err := s.SessionService.UpdateLanguage(r.Context(), req.LanguageSet)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAddSessionWord(w http.ResponseWriter, r *http.Request) {
	var req models.SessionWordAdd
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.SessionService.AddWord(r.Context(), req.WordID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAddSessionWords(w http.ResponseWriter, r *http.Request) {
	var req models.SessionWordBulkAdd
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.SessionService.AddWords(r.Context(), req.WordIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
