package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageServer(t *testing.T, status int, body any, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		if capture != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, capture)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body) //nolint:errcheck
	}))
}

func TestSDKClient_CreateMessage(t *testing.T) {
	var sent map[string]any
	ts := messageServer(t, http.StatusOK, map[string]any{
		"id":   "msg_test_001",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": "Intent: High\n"},
			{"type": "text", "text": "Strong ICP fit."},
		},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 120, "output_tokens": 18},
	}, &sent)
	defer ts.Close()

	client := NewClient("test-key", WithBaseURL(ts.URL), WithMaxRetries(0))
	resp, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 100,
		System:    "You are a sales analyst.",
		Messages:  []Message{{Role: "user", Content: "Classify this lead"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_test_001", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "Intent: High\nStrong ICP fit.", resp.Text())
	assert.Equal(t, int64(120), resp.Usage.InputTokens)
	assert.Equal(t, int64(18), resp.Usage.OutputTokens)

	assert.EqualValues(t, 100, sent["max_tokens"])
	assert.Equal(t, "claude-haiku-4-5-20251001", sent["model"])
	assert.NotNil(t, sent["system"])
}

func TestSDKClient_CreateMessage_Error(t *testing.T) {
	ts := messageServer(t, http.StatusBadRequest, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "invalid_request_error", "message": "bad"},
	}, nil)
	defer ts.Close()

	client := NewClient("test-key", WithBaseURL(ts.URL), WithMaxRetries(0))
	resp, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 100,
		Messages:  []Message{{Role: "user", Content: "Hi"}},
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "anthropic: create message")
}

func TestToSDKMessages_Roles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "system", Content: "c"},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}

func TestMessageResponse_TextSkipsNonText(t *testing.T) {
	r := &MessageResponse{Content: []ContentBlock{
		{Type: "thinking", Text: "hidden"},
		{Type: "text", Text: "Medium"},
	}}
	assert.Equal(t, "Medium", r.Text())
}

func TestEstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 4.80, u.EstimateCost("claude-haiku-4-5-20251001"), 0.0001)
	assert.InDelta(t, 18.00, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
	assert.Equal(t, 0.0, u.EstimateCost("unknown-model"))
	assert.Equal(t, 0.0, TokenUsage{}.EstimateCost("claude-haiku-4-5-20251001"))
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		TokenUsage{InputTokens: 10, OutputTokens: 5}.LogCost("claude-haiku-4-5-20251001", "intent")
	})
}
