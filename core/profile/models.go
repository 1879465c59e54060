package profile

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
)

// Profile is the app-side record of a hosted auth identity. ID is the identity id.
type Profile struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	IndexNumber *string   `json:"index_number"`
	Reference   *string   `json:"reference"`
	IsPro       bool      `json:"is_pro"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// WithEmail is a Profile as listed to admins.
type WithEmail struct {
	Profile
	Email string `json:"email"`
}

// UpdateProfile is what a user can edit on their own profile. is_pro is never part of it.
type UpdateProfile struct {
	FullName    string  `json:"full_name" validate:"required,max=255"`
	IndexNumber *string `json:"index_number" validate:"omitempty,max=64"`
	Reference   *string `json:"reference" validate:"omitempty,max=64"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.FullName = core.CleanString(up.FullName)
	up.IndexNumber = core.CleanStringPtr(up.IndexNumber)
	up.Reference = core.CleanStringPtr(up.Reference)
	return validate.Struct(up)
}

type SetPro struct {
	IsPro *bool `json:"is_pro" validate:"required"`
}

func (sp SetPro) Validate(validate *validator.Validate) error { return validate.Struct(sp) }
