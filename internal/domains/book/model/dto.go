package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============ DTOs ============

// CreateBookRequest - POST /api/books
// Author carries the author's name, not an id; resolution to a reference
// happens server-side per the configured author policy.
type CreateBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Image       *string `json:"image,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 255),
		),
	)
}

// UpdateBookRequest - PUT/PATCH /api/books/:id
// Pointer fields distinguish "not supplied" from "set to empty"; only
// supplied fields are written. Characters and the author reference are
// never touched through this path.
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty"`
	Image       *string `json:"image,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("title must not be empty"),
		),
	)
}

// Empty reports whether the request supplies nothing to change.
func (r UpdateBookRequest) Empty() bool {
	return r.Title == nil && r.Image == nil && r.ReleaseDate == nil
}

// AddCharacterRequest - POST /api/books/:book_id/characters
type AddCharacterRequest struct {
	Name string `json:"name"`
}

func (r AddCharacterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
	)
}
