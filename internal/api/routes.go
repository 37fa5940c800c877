package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.deviceTrackingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleGetSession)
		r.Put("/session/language", s.handleUpdateLanguage)
		r.Post("/session/words", s.handleAddSessionWord)
		r.Post("/session/words/bulk", s.handleAddSessionWords)

		r.Get("/words/initial", s.handleInitialWords)
		r.Post("/words/check", s.handleCheckWord)
		r.Post("/words/check/bulk", s.handleCheckWordsBulk)

		r.Get("/verbs/session", s.handleVerbSession)
		r.Post("/verbs/session", s.handleAddSessionVerb)
		r.Post("/verbs/add", s.handleAddVerb)
		r.Get("/verbs/question", s.handleVerbQuestion)
		r.Post("/verbs/validate", s.handleValidateConjugation)
		r.Get("/verbs/stats", s.handleVerbStats)

		r.Post("/practice/validate", s.handleValidatePractice)
		r.Post("/practice/skip", s.handleSkipPractice)
		r.Post("/practice/pronunciation", s.handleValidatePronunciation)

		r.Get("/stats", s.handleStats)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/devices", s.handleListDevices)
			r.Delete("/devices", s.handleDeleteAllDevices)
			r.Delete("/devices/{id}", s.handleDeleteDevice)
			r.Post("/words/toggle", s.handleToggleWord)
			r.Post("/verbs/toggle", s.handleToggleVerb)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
