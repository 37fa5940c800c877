package api

import (
	"net/http"

	"polingo/internal/db"
	"polingo/internal/logger"
	"polingo/internal/services"
	"polingo/internal/worker"
)

type Server struct {
	DB              *db.DB
	SessionService  services.SessionService
	WordService     services.WordService
	PracticeService services.PracticeService
	VerbService     services.VerbService
	DeviceService   services.DeviceService
	DevicePool      *worker.Pool
	CORSOrigins     []string
}

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady checks database connectivity before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if err := s.DB.PingContext(ctx); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Database unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
