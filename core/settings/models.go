package settings

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
)

// KeyChatModel is the app_settings key holding the active LLM chat model.
const KeyChatModel = "openai_chat_model"

var (
	AllowedModels = []string{"gpt-4o", "gpt-5"}

	aiModelTag  = "aimodel"
	aiModelText = "Model must be one of: " + strings.Join(AllowedModels, ", ")
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type SetModel struct {
	Model string `json:"model" validate:"aimodel"`
}

func (sm *SetModel) Validate(validate *validator.Validate) error {
	sm.Model = core.CleanString(sm.Model)
	return validate.Struct(sm)
}

func IsAllowedModel(model string) bool {
	for _, m := range AllowedModels {
		if model == m {
			return true
		}
	}
	return false
}

// ModelError is the message served when a model is rejected.
func ModelError() string { return aiModelText }

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(aiModelTag, func(fl validator.FieldLevel) bool {
		return IsAllowedModel(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, aiModelTag, aiModelText)
}
