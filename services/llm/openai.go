// Package llmsvc adapts the OpenAI chat completion API to tutor.Completer.
package llmsvc

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/tutor"
)

type OpenAIClient struct {
	client     *openai.Client
	configured bool
}

var _ tutor.Completer = (*OpenAIClient)(nil)

func NewOpenAIClient(conf core.AIConfig) *OpenAIClient {
	cfg := openai.DefaultConfig(conf.APIKey)
	if conf.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(conf.BaseURL, "/")
	}
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(cfg),
		configured: conf.APIKey != "",
	}
}

func (c *OpenAIClient) Configured() bool { return c.configured }

func (c *OpenAIClient) Complete(ctx context.Context, req tutor.CompletionRequest) (tutor.Completion, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               req.Model,
		Messages:            msgs,
		MaxCompletionTokens: req.MaxTokens,
	})
	if err != nil {
		return tutor.Completion{}, errors.Wrap(err, "creating chat completion")
	}

	var res tutor.Completion
	if len(resp.Choices) > 0 {
		res.Content = contentOf(resp.Choices[0].Message)
	}
	if u := resp.Usage; u.PromptTokens > 0 || u.CompletionTokens > 0 {
		res.Usage = &tutor.Usage{InputTokens: u.PromptTokens, OutputTokens: u.CompletionTokens}
	}
	return res, nil
}

// contentOf joins multi-part replies into plain text.
func contentOf(m openai.ChatCompletionMessage) string {
	if m.Content != "" || len(m.MultiContent) == 0 {
		return m.Content
	}
	var b strings.Builder
	for _, part := range m.MultiContent {
		b.WriteString(part.Text)
	}
	return b.String()
}
