package echoapi_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/watas/core/tutor"
)

func Test_tutorApi_notConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.llm.configured = false
	notConfigured := marchallObj(t, httpErr{Error: "OpenAI API key not configured"})

	env.run(t, []httpTest{
		{
			name: "chat", method: http.MethodPost, path: "/api/ai/chat",
			body: []byte(`{"messages":[{"role":"user","content":"hi"}]}`),
			wantCode: http.StatusServiceUnavailable, wantData: notConfigured,
		},
		{
			name: "chat (empty messages)", method: http.MethodPost, path: "/api/ai/chat", body: []byte(`{"messages":[]}`),
			wantCode: http.StatusServiceUnavailable, wantData: notConfigured,
		},
		{
			name: "summarize", method: http.MethodPost, path: "/api/ai/summarize", body: []byte(`{"messages":[]}`),
			wantCode: http.StatusServiceUnavailable, wantData: notConfigured,
		},
		{
			name: "curate", method: http.MethodPost, path: "/api/ai/curate-assignment", admin: true,
			body: []byte(`{"text":"Lab 3"}`), wantCode: http.StatusServiceUnavailable, wantData: notConfigured,
		},
	})
	assert.Empty(t, env.llm.requests)
}

func Test_tutorApi_chat(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/ai/chat"
	messagesRequired := marchallObj(t, httpErr{Error: "messages array required"})

	env.run(t, []httpTest{
		{
			name: "no messages", method: http.MethodPost, path: path, body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: messagesRequired,
		},
		{
			name: "empty messages", method: http.MethodPost, path: path, body: []byte(`{"messages":[]}`),
			wantCode: http.StatusBadRequest, wantData: messagesRequired,
		},
		{
			name: "bad role", method: http.MethodPost, path: path,
			body: []byte(`{"messages":[{"role":"robot","content":"hi"}]}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "anonymous", method: http.MethodPost, path: path,
			body:     []byte(`{"messages":[{"role":"user","content":"hi"}],"assignmentContext":"Assignment: Lab 3"}`),
			wantData: []byte(`{"message":"Start with the base case."}`),
		},
		{
			name: "invalid token is anonymous", method: http.MethodPost, path: path, token: "expired",
			body:     []byte(`{"messages":[{"role":"user","content":"hi"}]}`),
			wantData: []byte(`{"message":"Start with the base case."}`),
		},
	})

	t.Run("system prompt carries the assignment", func(t *testing.T) {
		require.NotEmpty(t, env.llm.requests)
		msgs := env.llm.requests[0].Messages
		require.Len(t, msgs, 2)
		assert.Equal(t, tutor.RoleSystem, msgs[0].Role)
		assert.True(t, strings.Contains(msgs[0].Content, "Assignment: Lab 3"))
		assert.Equal(t, tutor.Message{Role: tutor.RoleUser, Content: "hi"}, msgs[1])
	})

	t.Run("usage recorded for known callers", func(t *testing.T) {
		env.llm.usage = &tutor.Usage{InputTokens: 12, OutputTokens: 30}
		rec := env.serve(t, httpTest{
			method: http.MethodPost, path: path, token: studentToken,
			body: []byte(`{"messages":[{"role":"user","content":"hi"}]}`),
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		summary, err := env.analytics.UsageSummary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Overall.TotalRequests)
		assert.Equal(t, 12, summary.Overall.TotalInputTokens)
		assert.Equal(t, 30, summary.Overall.TotalOutputTokens)
		require.Len(t, summary.PerUser, 1)
		assert.Equal(t, student.ID, summary.PerUser[0].UserID)
	})

	t.Run("empty completion", func(t *testing.T) {
		env.llm.content = "  "
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, body: []byte(`{"messages":[{"role":"user","content":"hi"}]}`)})
		assert.JSONEq(t, `{"message":"No response generated."}`, rec.Body.String())
	})

	t.Run("upstream failure", func(t *testing.T) {
		env.llm.err = errors.New("429 too many requests")
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, body: []byte(`{"messages":[{"role":"user","content":"hi"}]}`)})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to get AI response"}`, rec.Body.String())
	})
}

func Test_tutorApi_summarize(t *testing.T) {
	env := newTestEnv(t)
	env.llm.content = "## Approach\nUse recursion."
	path := "/api/ai/summarize"

	env.run(t, []httpTest{
		{
			name: "empty messages", method: http.MethodPost, path: path, body: []byte(`{"messages":[]}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "messages array required"}),
		},
		{
			name: "ok", method: http.MethodPost, path: path,
			body:     []byte(`{"messages":[{"role":"user","content":"how?"},{"role":"assistant","content":"recursion"}]}`),
			wantData: []byte(`{"summary":"## Approach\nUse recursion."}`),
		},
	})

	t.Run("transcript is sent as one user message", func(t *testing.T) {
		require.Len(t, env.llm.requests, 1)
		msgs := env.llm.requests[0].Messages
		require.Len(t, msgs, 2)
		assert.Equal(t, tutor.RoleUser, msgs[1].Role)
		assert.Contains(t, msgs[1].Content, "recursion")
	})

	t.Run("upstream failure", func(t *testing.T) {
		env.llm.err = errors.New("boom")
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, body: []byte(`{"messages":[{"role":"user","content":"how?"}]}`)})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to generate summary"}`, rec.Body.String())
	})
}

func Test_tutorApi_curate(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/ai/curate-assignment"

	env.run(t, []httpTest{
		{
			name: "admin required", method: http.MethodPost, path: path, token: studentToken,
			body: []byte(`{"text":"Lab 3"}`), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
		{
			name: "blank text", method: http.MethodPost, path: path, admin: true, body: []byte(`{"text":"   "}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "text required"}),
		},
		{name: "ok", method: http.MethodPost, path: path, admin: true, body: []byte(`{"text":"Lab 3"}`)},
	})
}
