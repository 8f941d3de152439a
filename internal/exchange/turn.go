package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/genesys-ai/botconnector/internal/provider"
	"github.com/genesys-ai/botconnector/pkg/types"
)

// fileKeyPrefix derives the parked-attachment key from the session key.
// The attachment and the continuation handle live under separate keys with
// independent TTLs.
const fileKeyPrefix = "file-url:"

const (
	attachmentAck            = "I've received your document. What would you like me to do with it?"
	attachmentFallbackPrompt = "Please analyze the attached document."
)

// consumedTTL is the expiry used to clear a parked attachment once it has
// been folded into a turn. Overwriting with an empty value plus a short
// TTL guarantees a later turn never sees the file again.
const consumedTTL = time.Second

func fileKey(sessionKey string) string {
	return fileKeyPrefix + sessionKey
}

// resolveInput decides what this turn means: an attachment to park, the
// continuation of a parked attachment, or a plain text turn. It returns
// either the provider-ready input, or a short-circuit envelope when no
// completion call is needed.
//
// Attachment and instruction text arrive as separate turns (an upstream
// transport limit), so continuity between them lives entirely in the store.
func (s *Service) resolveInput(ctx context.Context, req *types.MessagesRequest, sessionKey string, ttl time.Duration, log *zerolog.Logger) (any, *types.MessagesResponse, error) {
	if att := req.InputMessage.FileAttachment(); att != nil {
		if sessionKey == "" {
			// Without a session key the next turn could never find the
			// file; acknowledge but park nothing.
			log.Warn().Str("url", att.URL).Msg("attachment received without botSessionId; skipping park")
		} else {
			if err := s.store.Set(ctx, fileKey(sessionKey), att.URL, ttl); err != nil {
				return nil, nil, err
			}
			log.Debug().Str("url", att.URL).Msg("parked file attachment")
		}

		out := types.NewResponse(types.BotStateMoreData)
		out.ReplyMessages = []types.ReplyMessage{{Type: types.MessageTypeText, Text: attachmentAck}}
		return nil, out, nil
	}

	if sessionKey != "" {
		url, ok, err := s.store.Get(ctx, fileKey(sessionKey))
		if err != nil {
			return nil, nil, err
		}
		if ok && url != "" {
			text := req.InputMessage.Text
			if strings.TrimSpace(text) == "" {
				text = attachmentFallbackPrompt
			}

			// Consume-once: clear the parked file before the provider call
			// so a later turn cannot pick it up again.
			if err := s.store.Set(ctx, fileKey(sessionKey), "", consumedTTL); err != nil {
				return nil, nil, err
			}
			log.Debug().Str("url", url).Msg("combining parked file with turn text")

			input := []provider.InputItem{{
				Role: "user",
				Content: []provider.InputContent{
					{Type: "input_file", FileURL: url},
					{Type: "input_text", Text: text},
				},
			}}
			return input, nil, nil
		}
	}

	text := req.InputMessage.Text
	if strings.TrimSpace(text) == "" {
		// Nothing to say and nothing parked: wait for more input without
		// calling the provider.
		return nil, types.NewResponse(types.BotStateMoreData), nil
	}

	return text, nil, nil
}
