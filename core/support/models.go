package support

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
)

const (
	TypeMissingAssignment = "Missing Assignment"
	TypeCorrection        = "Correction"
	TypeFeatureIdea       = "Feature Idea"
	TypeBug               = "Bug / Issue"
	TypeOther             = "Other"
)

var (
	Types = []string{TypeMissingAssignment, TypeCorrection, TypeFeatureIdea, TypeBug, TypeOther}

	supportTypeTag  = "supporttype"
	supportTypeText = "must be one of: Missing Assignment, Correction, Feature Idea, Bug / Issue, Other"
)

type Request struct {
	ID          string    `json:"id"`
	SupportType string    `json:"support_type"`
	WhatsApp    *string   `json:"whatsapp"`
	Phone       *string   `json:"phone"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

type NewRequest struct {
	SupportType string  `json:"support_type" validate:"required,supporttype"`
	WhatsApp    *string `json:"whatsapp" validate:"omitempty,max=32"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Description string  `json:"description" validate:"required,max=5000"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.SupportType = core.CleanString(nr.SupportType)
	nr.WhatsApp = core.CleanStringPtr(nr.WhatsApp)
	nr.Phone = core.CleanStringPtr(nr.Phone)
	nr.Description = core.CleanString(nr.Description)
	return validate.Struct(nr)
}

func IsValidType(t string) bool {
	for _, st := range Types {
		if t == st {
			return true
		}
	}
	return false
}

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(supportTypeTag, func(fl validator.FieldLevel) bool {
		return IsValidType(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, supportTypeTag, supportTypeText)
}

// notifyData is the support_request e-mail template data.
type notifyData struct {
	SupportType string
	WhatsApp    string
	Phone       string
	Description string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
