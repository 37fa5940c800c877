package api

import (
	"io"
	"net/http"
	"strconv"

	"polingo/internal/errors"
	"polingo/internal/logger"
	"polingo/internal/models"
)

// maxAudioBytes caps uploaded pronunciation recordings.
const maxAudioBytes = 10 << 20

func (s *Server) handleValidatePractice(w http.ResponseWriter, r *http.Request) {
	var req models.PracticeValidationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := s.PracticeService.Validate(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSkipPractice records a skipped item. The body matches the validate
// endpoint with an empty answer; any answer text sent here is ignored.
func (s *Server) handleSkipPractice(w http.ResponseWriter, r *http.Request) {
	var req models.PracticeValidationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	req.Answer = ""

	resp, err := s.PracticeService.Validate(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidatePronunciation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		log.Warn("invalid multipart form: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid multipart form"))
		return
	}

	wordID, err := strconv.ParseInt(r.FormValue("word_id"), 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid word_id"))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("missing audio file"))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	resp, err := s.PracticeService.ValidatePronunciation(r.Context(), wordID, audio, header.Filename)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.PracticeService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
