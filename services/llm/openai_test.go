package llmsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/tutor"
)

func TestOpenAIClient_Complete(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "1. Push\n2. Pop"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 7, "total_tokens": 49}
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(core.AIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	assert.True(t, c.Configured())

	res, err := c.Complete(context.Background(), tutor.CompletionRequest{
		Model:     "gpt-4o",
		Messages:  []tutor.Message{{Role: tutor.RoleSystem, Content: "sys"}, {Role: tutor.RoleUser, Content: "go"}},
		MaxTokens: 2048,
	})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	assert.Equal(t, "1. Push\n2. Pop", res.Content)
	assert.Equal(t, &tutor.Usage{InputTokens: 42, OutputTokens: 7}, res.Usage)

	assert.Equal(t, "gpt-4o", got["model"])
	assert.Equal(t, float64(2048), got["max_completion_tokens"])
	assert.Len(t, got["messages"], 2)
}

func TestOpenAIClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(core.AIConfig{APIKey: "bad", BaseURL: srv.URL + "/v1"})
	_, err := c.Complete(context.Background(), tutor.CompletionRequest{Model: "gpt-4o"})
	assert.Error(t, err)
}

func TestOpenAIClient_NotConfigured(t *testing.T) {
	assert.False(t, NewOpenAIClient(core.AIConfig{}).Configured())
}
