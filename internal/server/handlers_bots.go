package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesys-ai/botconnector/internal/catalog"
	"github.com/genesys-ai/botconnector/internal/logging"
)

// botsResponse is the catalog listing envelope.
type botsResponse struct {
	Entities []catalog.Bot `json:"entities"`
}

// listBots handles GET /botconnector/bots.
func (s *Server) listBots(w http.ResponseWriter, r *http.Request) {
	logging.Info().Msg("GET /botconnector/bots")
	writeJSON(w, http.StatusOK, botsResponse{Entities: s.catalog.Bots()})
}

// getBot handles GET /botconnector/bots/{botID}.
func (s *Server) getBot(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	logging.Info().Str("botId", botID).Msg("GET /botconnector/bots/{botId}")

	bot, ok := s.catalog.Resolve(botID)
	if !ok {
		logging.Warn().Str("botId", botID).Msg("bot not found")
		writeError(w, http.StatusNotFound, "Bot not found")
		return
	}

	writeJSON(w, http.StatusOK, bot)
}

// health handles GET /health.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
