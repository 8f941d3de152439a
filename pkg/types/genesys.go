// Package types defines the Genesys bot-connector wire types.
package types

// BotState is the three-way outcome signal returned to Genesys.
type BotState string

const (
	BotStateComplete BotState = "Complete"
	BotStateFailed   BotState = "Failed"
	BotStateMoreData BotState = "MoreData"
)

// Message type discriminators used by inputMessage and replyMessages.
const (
	MessageTypeText       = "Text"
	MessageTypeStructured = "Structured"
)

// DefaultIntent is the fixed intent reported on every envelope; the
// connector performs no NLU of its own.
const DefaultIntent = "DefaultIntent"

// Attachment is a file reference carried inside a structured content item.
type Attachment struct {
	MediaType string `json:"mediaType"`
	URL       string `json:"url"`
}

// ContentItem is one element of a structured input message.
type ContentItem struct {
	ContentType string      `json:"contentType"`
	Attachment  *Attachment `json:"attachment,omitempty"`
}

// InputMessage carries the user's turn: plain text, or structured content
// where at most one item is a file attachment.
type InputMessage struct {
	Type    string        `json:"type"`
	Text    string        `json:"text,omitempty"`
	Content []ContentItem `json:"content,omitempty"`
}

// FileAttachment returns the first file attachment with a usable URL, if any.
func (m *InputMessage) FileAttachment() *Attachment {
	for _, item := range m.Content {
		if item.ContentType == "Attachment" && item.Attachment != nil &&
			item.Attachment.MediaType == "File" && item.Attachment.URL != "" {
			return item.Attachment
		}
	}
	return nil
}

// MessagesRequest is the inbound turn from the Genesys orchestrator.
type MessagesRequest struct {
	BotID                 string            `json:"botId"`
	BotVersion            string            `json:"botVersion"`
	BotSessionID          string            `json:"botSessionId,omitempty"`
	MessageID             string            `json:"messageId"`
	InputMessage          InputMessage      `json:"inputMessage"`
	LanguageCode          string            `json:"languageCode"`
	BotSessionTimeout     int               `json:"botSessionTimeout"` // minutes
	GenesysConversationID string            `json:"genesysConversationId"`
	Parameters            map[string]string `json:"parameters,omitempty"`
}

// ReplyMessage is one outbound message in the reply envelope.
type ReplyMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ErrorInfo describes a per-turn failure. Present iff botState is Failed.
type ErrorInfo struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// MessagesResponse is the outbound envelope returned to Genesys.
type MessagesResponse struct {
	BotState      BotState          `json:"botState"`
	ReplyMessages []ReplyMessage    `json:"replyMessages"`
	Intent        string            `json:"intent,omitempty"`
	Confidence    float64           `json:"confidence,omitempty"`
	Entities      []any             `json:"entities"`
	Parameters    map[string]string `json:"parameters"`
	ErrorInfo     *ErrorInfo        `json:"errorInfo,omitempty"`
}

// NewResponse returns an envelope pre-filled with the fixed default intent,
// confidence, and empty entity/parameter collections.
func NewResponse(state BotState) *MessagesResponse {
	return &MessagesResponse{
		BotState:      state,
		ReplyMessages: []ReplyMessage{},
		Intent:        DefaultIntent,
		Confidence:    1.0,
		Entities:      []any{},
		Parameters:    map[string]string{},
	}
}
