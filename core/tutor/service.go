package tutor

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/analytics"
	"github.com/trezcool/watas/core/settings"
)

type (
	CompletionRequest struct {
		Model     string
		Messages  []Message
		MaxTokens int
	}

	// Usage is nil on a Completion when the upstream did not report token counts.
	Usage struct {
		InputTokens  int
		OutputTokens int
	}

	Completion struct {
		Content string
		Usage   *Usage
	}

	// Completer is a hosted LLM chat completion endpoint.
	Completer interface {
		// Configured reports whether the upstream credential is set.
		Configured() bool
		Complete(ctx context.Context, req CompletionRequest) (Completion, error)
	}

	Service interface {
		// Ready fails with a not-configured error when no upstream credential is set.
		Ready() error
		// Chat answers the conversation. userID may be empty, in which case no usage is recorded.
		Chat(ctx context.Context, userID string, req ChatRequest) (string, error)
		Summarize(ctx context.Context, userID string, req SummarizeRequest) (string, error)
		Curate(ctx context.Context, req CurateRequest) (Curation, error)
	}

	service struct {
		llm      Completer
		settings settings.Service
		usage    analytics.Service
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(llm Completer, settingsSvc settings.Service, usageSvc analytics.Service, logger core.Logger) Service {
	return &service{
		llm:      llm,
		settings: settingsSvc,
		usage:    usageSvc,
		logger:   logger,
	}
}

func (svc *service) Ready() error {
	if svc.llm == nil || !svc.llm.Configured() {
		return core.NotConfigured("OpenAI API key not configured")
	}
	return nil
}

func (svc *service) Chat(ctx context.Context, userID string, req ChatRequest) (string, error) {
	if err := svc.Ready(); err != nil {
		return "", err
	}
	if len(req.Messages) == 0 {
		return "", core.NewValidationError(errMessagesRequired)
	}

	msgs := make([]Message, 0, len(req.Messages)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: chatSystemPrompt(strings.TrimSpace(req.AssignmentContext))})
	msgs = append(msgs, req.Messages...)

	res, err := svc.llm.Complete(ctx, CompletionRequest{
		Model:     svc.settings.ChatModel(ctx),
		Messages:  msgs,
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	svc.recordUsage(ctx, userID, analytics.EndpointChat, res.Usage)

	content := strings.TrimSpace(res.Content)
	if content == "" {
		content = noResponse
	}
	return content, nil
}

func (svc *service) Summarize(ctx context.Context, userID string, req SummarizeRequest) (string, error) {
	if err := svc.Ready(); err != nil {
		return "", err
	}
	if len(req.Messages) == 0 {
		return "", core.NewValidationError(errMessagesRequired)
	}

	res, err := svc.llm.Complete(ctx, CompletionRequest{
		Model: svc.settings.ChatModel(ctx),
		Messages: []Message{
			{Role: RoleSystem, Content: summarizeSystemPrompt},
			{Role: RoleUser, Content: summarizeUserPrompt(Transcript(req.Messages))},
		},
		MaxTokens: summarizeMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "summarize completion")
	}
	svc.recordUsage(ctx, userID, analytics.EndpointSummarize, res.Usage)

	if strings.TrimSpace(res.Content) == "" {
		return noSummary, nil
	}
	return res.Content, nil
}

func (svc *service) Curate(ctx context.Context, req CurateRequest) (Curation, error) {
	if err := svc.Ready(); err != nil {
		return Curation{}, err
	}
	if err := req.Validate(); err != nil {
		return Curation{}, err
	}

	res, err := svc.llm.Complete(ctx, CompletionRequest{
		Model: svc.settings.ChatModel(ctx),
		Messages: []Message{
			{Role: RoleSystem, Content: curateSystemPrompt},
			{Role: RoleUser, Content: req.Text},
		},
		MaxTokens: curateMaxTokens,
	})
	if err != nil {
		return Curation{}, errors.Wrap(err, "curate completion")
	}
	return ParseCuration(res.Content), nil
}

// recordUsage is best-effort: failures are logged & swallowed.
func (svc *service) recordUsage(ctx context.Context, userID, endpoint string, usage *Usage) {
	if userID == "" || usage == nil || svc.usage == nil {
		return
	}
	if err := svc.usage.RecordUsage(ctx, userID, endpoint, usage.InputTokens, usage.OutputTokens); err != nil {
		svc.logger.Warn("recording api usage", err, "user_id", userID, "endpoint", endpoint)
	}
}
