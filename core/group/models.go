package group

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
)

// Group ids. The domain is fixed; rows are seeded, never created by users.
const (
	Group1 = "Group 1"
	Group2 = "Group 2"
)

var (
	AllIDs = []string{Group1, Group2}

	groupIDTag  = "groupid"
	groupIDText = "must be one of: Group 1, Group 2"
)

type Group struct {
	ID        string    `json:"id"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at,omitempty"` // UTC
	UpdatedAt time.Time `json:"updated_at,omitempty"` // UTC
}

// Defaults is what is served when no group row exists yet: every group enabled.
func Defaults() []Group {
	groups := make([]Group, 0, len(AllIDs))
	for _, id := range AllIDs {
		groups = append(groups, Group{ID: id, Enabled: true})
	}
	return groups
}

func IsValidID(id string) bool {
	for _, gid := range AllIDs {
		if id == gid {
			return true
		}
	}
	return false
}

// EnabledIDs returns the ids of the enabled groups, in order.
func EnabledIDs(groups []Group) []string {
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Enabled {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

type UpdateGroup struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (ug UpdateGroup) Validate(validate *validator.Validate) error { return validate.Struct(ug) }

// InitValidators registers the `groupid` tag, usable on strings & string slices (with `dive`).
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(groupIDTag, func(fl validator.FieldLevel) bool {
		return IsValidID(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, groupIDTag, groupIDText)
}
