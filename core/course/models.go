package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
)

type Course struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Label is how a course is shown in filters, e.g. "CSM 281 – Data Structures".
func (c Course) Label() string {
	return c.Code + " – " + c.Name
}

// NewCourse contains information needed to create or edit a Course.
type NewCourse struct {
	Code string `json:"code" validate:"required,max=32"`
	Name string `json:"name" validate:"required,max=255"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = core.CleanString(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}
