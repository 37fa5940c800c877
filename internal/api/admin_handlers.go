package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"polingo/internal/errors"
	"polingo/internal/logger"
	"polingo/internal/models"
)

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	resp, err := s.DeviceService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid device id: %s", idStr)
		handleError(w, r, errors.NewBadRequestError("invalid device id"))
		return
	}

	if err := s.DeviceService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAllDevices(w http.ResponseWriter, r *http.Request) {
	n, err := s.DeviceService.DeleteAll(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) handleToggleWord(w http.ResponseWriter, r *http.Request) {
	var req models.WordToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.WordService.SetEnabled(r.Context(), req.WordID, req.Enabled); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleVerb(w http.ResponseWriter, r *http.Request) {
	var req models.VerbToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.VerbService.SetEnabled(r.Context(), req.VerbID, req.Enabled); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
