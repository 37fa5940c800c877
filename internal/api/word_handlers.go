package api

import (
	"net/http"
	"strconv"

	"polingo/internal/logger"
	"polingo/internal/models"
)

// defaultInitialCount is the starter-vocabulary page size.
const defaultInitialCount = 10

func (s *Server) handleInitialWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	count := defaultInitialCount
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}
	log.Debug("fetching initial words: count=%d", count)

	words, err := s.WordService.List(r.Context(), models.WordFilter{
		EnabledOnly: true,
		Limit:       count,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (s *Server) handleCheckWord(w http.ResponseWriter, r *http.Request) {
	var req models.WordCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := s.WordService.Check(r.Context(), req.Text)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckWordsBulk(w http.ResponseWriter, r *http.Request) {
	var req models.WordCheckBulkRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := s.WordService.CheckBulk(r.Context(), req.Text)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
