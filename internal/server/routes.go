package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Route("/botconnector", func(r chi.Router) {
		r.Post("/messages", s.postMessages)

		r.Route("/bots", func(r chi.Router) {
			r.Get("/", s.listBots)
			r.Get("/{botID}", s.getBot)
		})
	})

	r.Get("/health", s.health)
}
