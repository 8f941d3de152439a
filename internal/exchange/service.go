// Package exchange implements the conversation turn exchange: message
// intake, session continuity, attachment deferral, dispatch parameter
// resolution, completion invocation, and response translation.
package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/genesys-ai/botconnector/internal/catalog"
	"github.com/genesys-ai/botconnector/internal/config"
	"github.com/genesys-ai/botconnector/internal/logging"
	"github.com/genesys-ai/botconnector/internal/provider"
	"github.com/genesys-ai/botconnector/internal/store"
	"github.com/genesys-ai/botconnector/pkg/types"
)

// CompletionClient is the provider capability the exchange depends on:
// one completion call per turn, credential supplied by the caller.
type CompletionClient interface {
	Create(ctx context.Context, apiKey string, req *provider.Request) (*provider.Response, error)
}

// Service runs the turn exchange pipeline. All collaborators are injected
// at construction; the service holds no per-turn state of its own.
type Service struct {
	cfg     *config.Config
	store   store.Store
	catalog *catalog.Catalog
	client  CompletionClient
}

// New creates the exchange service.
func New(cfg *config.Config, st store.Store, cat *catalog.Catalog, client CompletionClient) *Service {
	return &Service{
		cfg:     cfg,
		store:   st,
		catalog: cat,
		client:  client,
	}
}

// HandleTurn processes one inbound turn and produces the reply envelope.
//
// A returned error means the turn failed for an internal reason and the
// transport layer should answer 500 with an internal-error envelope.
// Provider failures are not errors here: they translate to a Failed
// envelope delivered with a normal status.
func (s *Service) HandleTurn(ctx context.Context, req *types.MessagesRequest, apiKey string) (*types.MessagesResponse, error) {
	log := logging.With().
		Str("exchangeId", ulid.Make().String()).
		Str("botSessionId", req.BotSessionID).
		Str("botId", req.BotID).
		Str("genesysConversationId", req.GenesysConversationID).
		Logger()

	// No session id means no continuity: nothing is read from or written
	// to the store for this turn.
	sessionKey := req.BotSessionID
	ttl := sessionTTL(req.BotSessionTimeout)

	input, short, err := s.resolveInput(ctx, req, sessionKey, ttl, &log)
	if err != nil {
		return nil, err
	}
	if short != nil {
		return short, nil
	}

	params, err := s.resolveDispatch(req, &log)
	if err != nil {
		return nil, err
	}

	var previousResponseID string
	if sessionKey != "" {
		handle, ok, err := s.store.Get(ctx, sessionKey)
		if err != nil {
			return nil, err
		}
		if ok {
			previousResponseID = handle
			log.Debug().Str("previousResponseId", handle).Msg("continuing stored conversation")
		}
	}

	resp, err := s.client.Create(ctx, apiKey, &provider.Request{
		Model:              params.model,
		Input:              input,
		PreviousResponseID: previousResponseID,
		Temperature:        params.temperature,
		Metadata:           params.metadata,
		Tools:              params.tools,
	})
	if err != nil {
		var apiErr *provider.APIError
		if errors.As(err, &apiErr) {
			log.Warn().Str("code", apiErr.Code).Str("message", apiErr.Message).Msg("provider call failed")
			return Failed(apiErr.Code, apiErr.Message), nil
		}
		return nil, err
	}

	if sessionKey != "" && resp.ID != "" {
		if err := s.store.Set(ctx, sessionKey, resp.ID, ttl); err != nil {
			return nil, err
		}
		log.Debug().Str("responseId", resp.ID).Dur("ttl", ttl).Msg("stored continuation handle")
	}

	return translate(resp), nil
}

// sessionTTL converts the orchestrator's session timeout (minutes) to the
// TTL applied to this session's store writes. Zero means no expiry.
func sessionTTL(timeoutMinutes int) time.Duration {
	if timeoutMinutes <= 0 {
		return 0
	}
	return time.Duration(timeoutMinutes) * time.Minute
}
