// Package provider implements a client for the OpenAI Responses API.
//
// The Responses API is stateful: each response carries an id that a later
// request can name as previous_response_id to continue the conversation.
// That id is the continuation handle the exchange core parks in the
// session store between turns.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client calls the OpenAI Responses API. The API key is supplied per
// request by the caller, never held by the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Responses API client. No request timeout is imposed
// here; the hosting gateway owns turn deadlines.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Create issues a single completion call. It is called exactly once per
// turn; there are no retries. A failed status in a 2xx body is returned as
// a normal Response for the translator to map. A non-2xx reply is returned
// as an *APIError so the caller can surface the provider's code and message.
func (c *Client) Create(ctx context.Context, apiKey string, req *Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal responses request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build responses request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call responses api: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, c.decodeError(httpResp)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode responses api response: %w", err)
	}

	return &resp, nil
}

// decodeError extracts the provider's error envelope from a non-2xx reply.
func (c *Client) decodeError(httpResp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1<<16))

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		if envelope.Error.Code == "" {
			envelope.Error.Code = fmt.Sprintf("http_%d", httpResp.StatusCode)
		}
		return envelope.Error
	}

	return &APIError{
		Code:    fmt.Sprintf("http_%d", httpResp.StatusCode),
		Message: strings.TrimSpace(string(body)),
	}
}
