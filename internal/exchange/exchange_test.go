package exchange

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesys-ai/botconnector/internal/catalog"
	"github.com/genesys-ai/botconnector/internal/config"
	"github.com/genesys-ai/botconnector/internal/provider"
	"github.com/genesys-ai/botconnector/internal/store"
	"github.com/genesys-ai/botconnector/pkg/types"
)

type fakeClient struct {
	calls []*provider.Request
	keys  []string
	resp  *provider.Response
	err   error
}

func (f *fakeClient) Create(ctx context.Context, apiKey string, req *provider.Request) (*provider.Response, error) {
	f.calls = append(f.calls, req)
	f.keys = append(f.keys, apiKey)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func completedResponse(id, text string) *provider.Response {
	resp := &provider.Response{ID: id, Status: provider.StatusCompleted}
	if text != "" {
		resp.Output = []provider.OutputItem{{
			Type:    "message",
			Role:    "assistant",
			Content: []provider.ContentPart{{Type: "output_text", Text: text}},
		}}
	}
	return resp
}

func newTestService(t *testing.T, mutate func(*config.Config)) (*Service, *fakeClient, *store.Memory) {
	t.Helper()

	cfg := config.Default()
	cfg.ConnectionSecret = "secret"
	if mutate != nil {
		mutate(cfg)
	}

	cat, err := catalog.New(cfg.BotsConfigPath)
	require.NoError(t, err)

	mem := store.NewMemory()
	t.Cleanup(func() { mem.Close() })

	client := &fakeClient{resp: completedResponse("resp_1", "Hi")}
	return New(cfg, mem, cat, client), client, mem
}

func textTurn(sessionID, text string) *types.MessagesRequest {
	return &types.MessagesRequest{
		BotID:                 "some-bot",
		BotSessionID:          sessionID,
		MessageID:             "msg-1",
		InputMessage:          types.InputMessage{Type: types.MessageTypeText, Text: text},
		GenesysConversationID: "conv-1",
		BotSessionTimeout:     5,
	}
}

func attachmentTurn(sessionID, url string) *types.MessagesRequest {
	req := textTurn(sessionID, "")
	req.InputMessage = types.InputMessage{
		Type: types.MessageTypeStructured,
		Content: []types.ContentItem{{
			ContentType: "Attachment",
			Attachment:  &types.Attachment{MediaType: "File", URL: url},
		}},
	}
	return req
}

func TestAttachmentThenTextContinuity(t *testing.T) {
	svc, client, _ := newTestService(t, nil)
	ctx := context.Background()

	// Turn 1: attachment is parked, provider is not called.
	out, err := svc.HandleTurn(ctx, attachmentTurn("S", "https://files.example/doc.pdf"), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, types.BotStateMoreData, out.BotState)
	require.Len(t, out.ReplyMessages, 1)
	assert.Contains(t, out.ReplyMessages[0].Text, "received your document")
	assert.Empty(t, client.calls)

	// Turn 2: text combines with the parked file.
	out, err = svc.HandleTurn(ctx, textTurn("S", "summarize it"), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, types.BotStateMoreData, out.BotState)
	require.Len(t, client.calls, 1)

	input, ok := client.calls[0].Input.([]provider.InputItem)
	require.True(t, ok, "expected structured input, got %T", client.calls[0].Input)
	require.Len(t, input, 1)
	require.Len(t, input[0].Content, 2)
	assert.Equal(t, "input_file", input[0].Content[0].Type)
	assert.Equal(t, "https://files.example/doc.pdf", input[0].Content[0].FileURL)
	assert.Equal(t, "input_text", input[0].Content[1].Type)
	assert.Equal(t, "summarize it", input[0].Content[1].Text)

	// Turn 3: the file was consumed; plain text only.
	_, err = svc.HandleTurn(ctx, textTurn("S", "and now?"), "sk-test")
	require.NoError(t, err)
	require.Len(t, client.calls, 2)
	assert.Equal(t, "and now?", client.calls[1].Input)
}

func TestParkedFileUsesFallbackPrompt(t *testing.T) {
	svc, client, mem := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, "file-url:S", "https://files.example/doc.pdf", 0))

	_, err := svc.HandleTurn(ctx, textTurn("S", "   "), "sk-test")
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	input := client.calls[0].Input.([]provider.InputItem)
	assert.Equal(t, "Please analyze the attached document.", input[0].Content[1].Text)
}

func TestEmptyInputShortCircuits(t *testing.T) {
	svc, client, _ := newTestService(t, nil)

	out, err := svc.HandleTurn(context.Background(), textTurn("S", "  \t "), "sk-test")
	require.NoError(t, err)

	assert.Equal(t, types.BotStateMoreData, out.BotState)
	assert.Empty(t, out.ReplyMessages)
	assert.Nil(t, out.ErrorInfo)
	assert.Empty(t, client.calls, "provider must not be called for empty input")
}

func TestModelPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		botID     string
		params    map[string]string
		wantModel string
	}{
		{
			name:      "per-turn parameter wins",
			botID:     "gpt-4.1-mini",
			params:    map[string]string{"openai_model": "X"},
			wantModel: "X",
		},
		{
			name:      "catalog entry beats default",
			botID:     "gpt-4.1-mini",
			wantModel: "gpt-4.1-mini",
		},
		{
			name:      "configured default otherwise",
			botID:     "unknown-bot",
			wantModel: "gpt-4o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client, _ := newTestService(t, nil)

			req := textTurn("S", "hello")
			req.BotID = tt.botID
			req.Parameters = tt.params

			_, err := svc.HandleTurn(context.Background(), req, "sk-test")
			require.NoError(t, err)
			require.Len(t, client.calls, 1)
			assert.Equal(t, tt.wantModel, client.calls[0].Model)
		})
	}
}

func TestTemperatureResolution(t *testing.T) {
	svc, client, _ := newTestService(t, nil)

	req := textTurn("S", "hello")
	req.Parameters = map[string]string{"openai_temperature": "0.15"}

	_, err := svc.HandleTurn(context.Background(), req, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, 0.15, client.calls[0].Temperature)
}

func TestNonNumericTemperatureIsAnError(t *testing.T) {
	svc, client, _ := newTestService(t, nil)

	req := textTurn("S", "hello")
	req.Parameters = map[string]string{"openai_temperature": "hot"}

	_, err := svc.HandleTurn(context.Background(), req, "sk-test")
	require.Error(t, err)
	assert.Empty(t, client.calls)
}

func TestContinuationHandleRoundTrip(t *testing.T) {
	svc, client, mem := newTestService(t, nil)
	ctx := context.Background()

	// First turn has no stored handle.
	_, err := svc.HandleTurn(ctx, textTurn("S", "hello"), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "", client.calls[0].PreviousResponseID)

	// The response id was stored under the session key.
	handle, ok, err := mem.Get(ctx, "S")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "resp_1", handle)

	// Second turn continues from it.
	client.resp = completedResponse("resp_2", "again")
	_, err = svc.HandleTurn(ctx, textTurn("S", "more"), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "resp_1", client.calls[1].PreviousResponseID)

	handle, _, _ = mem.Get(ctx, "S")
	assert.Equal(t, "resp_2", handle, "handle is overwritten on every successful exchange")
}

func TestNoSessionIDMeansNoContinuity(t *testing.T) {
	svc, client, mem := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, textTurn("", "hello"), "sk-test")
	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	assert.Equal(t, "", client.calls[0].PreviousResponseID)

	// Nothing was written under any key.
	_, ok, _ := mem.Get(ctx, "")
	assert.False(t, ok)
	_, ok, _ = mem.Get(ctx, "file-url:")
	assert.False(t, ok)
}

func TestStatusMapping(t *testing.T) {
	t.Run("completed with text", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		out, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
		require.NoError(t, err)

		assert.Equal(t, types.BotStateMoreData, out.BotState)
		require.Len(t, out.ReplyMessages, 1)
		assert.Equal(t, types.MessageTypeText, out.ReplyMessages[0].Type)
		assert.Equal(t, "Hi", out.ReplyMessages[0].Text)
		assert.Nil(t, out.ErrorInfo)
		assert.Equal(t, types.DefaultIntent, out.Intent)
		assert.Equal(t, 1.0, out.Confidence)
	})

	t.Run("completed without text", func(t *testing.T) {
		svc, client, _ := newTestService(t, nil)
		client.resp = completedResponse("resp_1", "")

		out, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
		require.NoError(t, err)
		assert.Equal(t, types.BotStateMoreData, out.BotState)
		assert.Empty(t, out.ReplyMessages)
		assert.Nil(t, out.ErrorInfo)
	})

	t.Run("failed with provider error", func(t *testing.T) {
		svc, client, _ := newTestService(t, nil)
		client.resp = &provider.Response{
			ID:     "resp_1",
			Status: provider.StatusFailed,
			Error:  &provider.APIError{Code: "rate_limited", Message: "slow down"},
		}

		out, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
		require.NoError(t, err)
		assert.Equal(t, types.BotStateFailed, out.BotState)
		assert.Empty(t, out.ReplyMessages)
		require.NotNil(t, out.ErrorInfo)
		assert.Equal(t, "rate_limited", out.ErrorInfo.ErrorCode)
		assert.Equal(t, "slow down", out.ErrorInfo.ErrorMessage)
	})

	t.Run("failed without error detail", func(t *testing.T) {
		svc, client, _ := newTestService(t, nil)
		client.resp = &provider.Response{ID: "resp_1", Status: provider.StatusFailed}

		out, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
		require.NoError(t, err)
		require.NotNil(t, out.ErrorInfo)
		assert.Equal(t, "unknown", out.ErrorInfo.ErrorCode)
		assert.Equal(t, "Unknown error", out.ErrorInfo.ErrorMessage)
	})

	t.Run("other status maps to incomplete", func(t *testing.T) {
		svc, client, _ := newTestService(t, nil)
		client.resp = &provider.Response{ID: "resp_1", Status: "in_progress"}

		out, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
		require.NoError(t, err)
		assert.Equal(t, types.BotStateFailed, out.BotState)
		require.NotNil(t, out.ErrorInfo)
		assert.Equal(t, "incomplete", out.ErrorInfo.ErrorCode)
		assert.Equal(t, "Response incomplete", out.ErrorInfo.ErrorMessage)
	})

	t.Run("http-level provider error maps to failed envelope", func(t *testing.T) {
		svc, client, _ := newTestService(t, nil)
		client.err = &provider.APIError{Code: "invalid_api_key", Message: "bad key"}

		out, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
		require.NoError(t, err)
		assert.Equal(t, types.BotStateFailed, out.BotState)
		require.NotNil(t, out.ErrorInfo)
		assert.Equal(t, "invalid_api_key", out.ErrorInfo.ErrorCode)
	})
}

func TestToolsLoadedFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	content := `[
		{"server_label": "docs", "server_url": "https://mcp.example/sse"},
		{"type": "custom", "server_label": "crm"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	svc, client, _ := newTestService(t, func(c *config.Config) {
		c.MCPServersConfigPath = path
	})

	_, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
	require.NoError(t, err)

	tools := client.calls[0].Tools
	require.Len(t, tools, 2)
	assert.Equal(t, "mcp", tools[0]["type"])
	assert.Equal(t, "docs", tools[0]["server_label"])
	// A descriptor's own type is left alone.
	assert.Equal(t, "custom", tools[1]["type"])
}

func TestBrokenToolsConfigIsAbsorbed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	svc, client, _ := newTestService(t, func(c *config.Config) {
		c.MCPServersConfigPath = path
	})

	out, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, types.BotStateMoreData, out.BotState)
	assert.Empty(t, client.calls[0].Tools)
}

func TestMetadataCarriesConversationID(t *testing.T) {
	svc, client, _ := newTestService(t, nil)

	_, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", client.calls[0].Metadata["genesys_conversation_id"])
}

func TestAPIKeyIsPassedThrough(t *testing.T) {
	svc, client, _ := newTestService(t, nil)

	_, err := svc.HandleTurn(context.Background(), textTurn("S", "hello"), "sk-provided")
	require.NoError(t, err)
	require.Len(t, client.keys, 1)
	assert.Equal(t, "sk-provided", client.keys[0])
}
