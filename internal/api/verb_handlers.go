package api

import (
	"net/http"
	"strconv"

	"polingo/internal/errors"
	"polingo/internal/logger"
	"polingo/internal/models"
)

func (s *Server) handleVerbSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.VerbService.SessionState(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAddSessionVerb(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := r.URL.Query().Get("verb_id")
	verbID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid verb_id: %s", idStr)
		handleError(w, r, errors.NewBadRequestError("invalid verb_id"))
		return
	}

	if err := s.VerbService.AddToSession(r.Context(), verbID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddVerb(w http.ResponseWriter, r *http.Request) {
	var req models.VerbAddRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := s.VerbService.Add(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerbQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.VerbService.NextQuestion(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleValidateConjugation(w http.ResponseWriter, r *http.Request) {
	var req models.ConjugationValidationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := s.VerbService.Validate(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerbStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.VerbService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
