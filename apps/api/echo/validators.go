package echoapi

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/group"
	"github.com/trezcool/watas/core/settings"
	"github.com/trezcool/watas/core/support"
)

// InitValidators registers every custom validation tag & translation used by the API payloads.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.InitValidators(validate, translator)
	group.InitValidators(validate, translator)
	support.InitValidators(validate, translator)
	settings.InitValidators(validate, translator)
}
