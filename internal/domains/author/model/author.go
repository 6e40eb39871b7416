package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Author struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Alive     bool      `json:"alive" db:"alive"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateAuthorRequest - POST /api/authors
// Alive defaults to true when omitted, matching what the relation
// resolver assigns to auto-created authors.
type CreateAuthorRequest struct {
	Name  string `json:"name"`
	Alive *bool  `json:"alive,omitempty"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
	)
}

func (r CreateAuthorRequest) ToAuthor() *Author {
	alive := true
	if r.Alive != nil {
		alive = *r.Alive
	}
	return &Author{
		Name:  r.Name,
		Alive: alive,
	}
}
