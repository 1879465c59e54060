package settings

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/watas/core"
)

var ErrNotFound = errors.New("setting not found")

type (
	Repository interface {
		GetSetting(ctx context.Context, key string) (Setting, error)
		UpsertSetting(ctx context.Context, s Setting) error
	}

	Service interface {
		// ChatModel never fails: it falls back to the configured default.
		ChatModel(ctx context.Context) string
		SetChatModel(ctx context.Context, model string) error
	}

	service struct {
		conf   *core.Config
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository, logger core.Logger) Service {
	return &service{conf: conf, repo: repo, logger: logger}
}

func (svc *service) defaultModel() string {
	if svc.conf.AI.DefaultModel != "" {
		return svc.conf.AI.DefaultModel
	}
	return AllowedModels[0]
}

func (svc *service) ChatModel(ctx context.Context) string {
	s, err := svc.repo.GetSetting(ctx, KeyChatModel)
	if err != nil {
		if err != ErrNotFound {
			svc.logger.Warn("reading chat model setting", err)
		}
		return svc.defaultModel()
	}
	if s.Value == "" {
		return svc.defaultModel()
	}
	return s.Value
}

// SetChatModel does not write anything for a model outside AllowedModels.
func (svc *service) SetChatModel(ctx context.Context, model string) error {
	if !IsAllowedModel(model) {
		return core.NewValidationError(errors.New(aiModelText))
	}
	return svc.repo.UpsertSetting(ctx, Setting{Key: KeyChatModel, Value: model, UpdatedAt: time.Now().UTC()})
}
