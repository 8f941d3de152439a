package exchange

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/genesys-ai/botconnector/internal/provider"
	"github.com/genesys-ai/botconnector/pkg/types"
)

// Per-turn parameter keys recognized by the dispatch resolver.
const (
	paramModel       = "openai_model"
	paramTemperature = "openai_temperature"
)

// dispatchParams are the resolved settings for one completion call.
type dispatchParams struct {
	model       string
	temperature float64
	metadata    map[string]string
	tools       []provider.Tool
}

// resolveDispatch resolves model, temperature, metadata, and tools for a
// turn. Model precedence: per-turn parameter > catalog entry for botId
// (the bot's id is the model name) > configured default. Temperature:
// per-turn parameter > configured default; a non-numeric override is a
// caller error.
func (s *Service) resolveDispatch(req *types.MessagesRequest, log *zerolog.Logger) (dispatchParams, error) {
	model := s.cfg.DefaultModel
	if bot, ok := s.catalog.Resolve(req.BotID); ok {
		model = bot.ID
	}
	if m := req.Parameters[paramModel]; m != "" {
		model = m
	}

	temperature := s.cfg.DefaultTemperature
	if t := req.Parameters[paramTemperature]; t != "" {
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return dispatchParams{}, fmt.Errorf("parse %s %q: %w", paramTemperature, t, err)
		}
		temperature = parsed
	}

	return dispatchParams{
		model:       model,
		temperature: temperature,
		metadata:    map[string]string{"genesys_conversation_id": req.GenesysConversationID},
		tools:       s.loadTools(log),
	}, nil
}

// loadTools reads the MCP tool descriptors from the configured file on
// every call (never cached) and merges the fixed "mcp" type into each.
// Any read or parse failure is logged and absorbed: a broken tools file
// must never fail the turn.
func (s *Service) loadTools(log *zerolog.Logger) []provider.Tool {
	path := s.cfg.MCPServersConfigPath
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to read MCP tools config")
		return nil
	}

	var descriptors []provider.Tool
	if err := json.Unmarshal(data, &descriptors); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to parse MCP tools config")
		return nil
	}

	for _, d := range descriptors {
		if _, ok := d["type"]; !ok {
			d["type"] = "mcp"
		}
	}

	log.Debug().Int("count", len(descriptors)).Msg("loaded MCP tools")
	return descriptors
}
