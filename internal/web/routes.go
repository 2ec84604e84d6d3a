package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/", s.handleHome)
	r.Post("/start", s.handleStart)
	r.Post("/answer", s.handleAnswer)
	r.Post("/next", s.handleNext)
	r.Post("/restart", s.handleRestart)
	r.Get("/state", s.handleState)

	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.handleHistory)
		r.Get("/{id}", s.handleHistorySession)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	return r
}
