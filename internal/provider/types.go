package provider

import "fmt"

// Response statuses returned by the Responses API. Anything other than
// completed or failed (queued, in_progress, incomplete, cancelled) is
// treated by the translator as incomplete.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Request is a request to the OpenAI Responses API.
type Request struct {
	Model string `json:"model"`
	// Input is either a plain string or []InputItem for structured turns.
	Input any `json:"input"`
	// PreviousResponseID resumes the stored conversation from a prior
	// response (stateful multi-turn).
	PreviousResponseID string `json:"previous_response_id,omitempty"`
	// Temperature is always sent, so an explicit 0 is not swallowed by
	// the provider's default.
	Temperature float64           `json:"temperature"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Tools       []Tool            `json:"tools,omitempty"`
}

// Tool is an opaque tool descriptor passed through to the provider.
// MCP server descriptors from the tools config file are merged with a
// fixed "type": "mcp" before being attached.
type Tool map[string]any

// InputItem is one structured input message.
type InputItem struct {
	Role    string         `json:"role"`
	Content []InputContent `json:"content"`
}

// InputContent is one content part of a structured input message.
type InputContent struct {
	Type    string `json:"type"` // input_text | input_file
	Text    string `json:"text,omitempty"`
	FileURL string `json:"file_url,omitempty"`
}

// Response is the raw completion result.
type Response struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Model  string       `json:"model"`
	Output []OutputItem `json:"output"`
	Error  *APIError    `json:"error"`
	Usage  *Usage       `json:"usage"`
}

// OutputItem is one output item; only items of type "message" carry
// assistant text.
type OutputItem struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Status  string        `json:"status,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}

// ContentPart is one content part of an output item.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// OutputText returns the first output_text of the first message item,
// or "" when the response carries no assistant text.
func (r *Response) OutputText() string {
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				return part.Text
			}
		}
	}
	return ""
}

// APIError is the provider's error payload. It appears both inside a
// failed response body and as the error envelope on non-2xx replies.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: %s: %s", e.Code, e.Message)
}

// Usage reports token accounting for a completed response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
