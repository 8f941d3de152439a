package exchange

import (
	"github.com/genesys-ai/botconnector/internal/provider"
	"github.com/genesys-ai/botconnector/pkg/types"
)

// Error codes minted by the translator itself (as opposed to codes passed
// through from the provider).
const (
	errCodeUnknown    = "unknown"
	errCodeIncomplete = "incomplete"
)

// translate maps a raw completion result into the Genesys envelope.
// A successful completion always reports MoreData, never Complete: the
// protocol as bridged here has no turn-closing signal.
func translate(resp *provider.Response) *types.MessagesResponse {
	switch resp.Status {
	case provider.StatusCompleted:
		out := types.NewResponse(types.BotStateMoreData)
		if text := resp.OutputText(); text != "" {
			out.ReplyMessages = []types.ReplyMessage{{Type: types.MessageTypeText, Text: text}}
		}
		return out

	case provider.StatusFailed:
		code, message := errCodeUnknown, "Unknown error"
		if resp.Error != nil {
			if resp.Error.Code != "" {
				code = resp.Error.Code
			}
			if resp.Error.Message != "" {
				message = resp.Error.Message
			}
		}
		return Failed(code, message)

	default:
		return Failed(errCodeIncomplete, "Response incomplete")
	}
}

// Failed builds a Failed envelope carrying the given error code and message.
func Failed(code, message string) *types.MessagesResponse {
	out := types.NewResponse(types.BotStateFailed)
	out.ErrorInfo = &types.ErrorInfo{
		ErrorCode:    code,
		ErrorMessage: message,
	}
	return out
}
