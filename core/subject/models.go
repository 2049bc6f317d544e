package subject

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
)

const DefaultColor = "#3B82F6"

type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"-"`
	Color     string    `json:"color_hex"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name  string `json:"name" validate:"required,max=255"`
	Color string `json:"color_hex" validate:"omitempty,colorhex"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Color = core.CleanString(ns.Color)
	return validate.Struct(ns)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Color *string `json:"color_hex" validate:"omitempty,colorhex"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		if name == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "this field may not be blank"})
		}
		us.Name = &name
	}
	if us.Color != nil {
		color := core.CleanString(*us.Color)
		us.Color = &color
	}
	return validate.Struct(us)
}

// apply merges the provided fields into sub.
func (us UpdateSubject) apply(sub Subject) Subject {
	if us.Name != nil {
		sub.Name = *us.Name
	}
	if us.Color != nil {
		sub.Color = *us.Color
	}
	return sub
}
