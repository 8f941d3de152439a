package server

import (
	"encoding/json"
	"net/http"

	"github.com/genesys-ai/botconnector/internal/exchange"
	"github.com/genesys-ai/botconnector/internal/logging"
	"github.com/genesys-ai/botconnector/pkg/types"
)

// Header names fixed by the Genesys bot-connector integration.
const (
	headerConnectionSecret = "GENESYS_CONNECTION_SECRET"
	headerOpenAIKey        = "OPENAI_API_KEY"
)

const errCodeInternal = "internal_error"

// postMessages handles POST /botconnector/messages, the turn exchange
// endpoint. All resolved outcomes — including provider failure — answer
// 200 with an envelope; only an error escaping the exchange answers 500.
func (s *Server) postMessages(w http.ResponseWriter, r *http.Request) {
	// Auth checks happen before any body parsing or store access.
	if r.Header.Get(headerConnectionSecret) != s.appConfig.ConnectionSecret {
		logging.Warn().Msg("invalid connection secret")
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	apiKey := r.Header.Get(headerOpenAIKey)
	if apiKey == "" {
		logging.Warn().Msg("missing OPENAI_API_KEY header")
		writeError(w, http.StatusBadRequest, "Missing OpenAI API key")
		return
	}

	var req types.MessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.Error().Err(err).Msg("malformed messages request body")
		writeJSON(w, http.StatusInternalServerError, exchange.Failed(errCodeInternal, err.Error()))
		return
	}

	logging.Info().
		Str("botSessionId", req.BotSessionID).
		Str("botId", req.BotID).
		Str("genesysConversationId", req.GenesysConversationID).
		Msg("POST /botconnector/messages received")

	out, err := s.exchange.HandleTurn(r.Context(), &req, apiKey)
	if err != nil {
		logging.Error().Err(err).
			Str("botSessionId", req.BotSessionID).
			Msg("error processing message")
		writeJSON(w, http.StatusInternalServerError, exchange.Failed(errCodeInternal, err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, out)
}
