package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openaiChatResponse = `{
	"choices": [{
		"message": {"role": "assistant", "content": "hello"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
}`

func TestOpenAIChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req["model"])
		assert.NotContains(t, req, "response_format")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openaiChatResponse))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{
		Model:   "gpt-4o",
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})

	resp, err := client.Chat(context.Background(), []Message{NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	require.NotNil(t, resp.TokensUsed)
	assert.Equal(t, 12, resp.TokensUsed.TotalTokens)
}

func TestOpenAIStructuredOutputSetsJSONMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		format, ok := req["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", format["type"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{
				"message": {"role": "assistant", "content": "{\"names\": [\"Acme\"]}"},
				"finish_reason": "stop"
			}]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{Model: "gpt-4o", APIKey: "test-key", BaseURL: srv.URL})

	raw, err := client.ChatWithStructuredOutput(context.Background(),
		[]Message{NewUserMessage("extract")}, map[string]any{"names": []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"names": ["Acme"]}`, string(raw))
}

func TestOpenAIClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openaiChatResponse))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{
		Model:   "gpt-4o",
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	})

	_, err := client.Chat(context.Background(), []Message{NewUserMessage("hi")})
	require.Error(t, err)
}
