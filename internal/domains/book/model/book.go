package model

import (
	"time"

	"github.com/google/uuid"

	authorModel "bookshelf-backend/internal/domains/author/model"
)

// Character is an embedded subdocument: it lives inside a book's character
// list and has no independent identity or query path. Its id is a stable
// handle scoped to the owning book, assigned at append time.
type Character struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Book - Domain Entity (from database)
//
// AuthorID is nullable on purpose: the author reference has been both
// required and optional over this schema's history, and rows written under
// the optional variant must keep loading.
type Book struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	AuthorID    *uuid.UUID `json:"-" db:"author_id"`
	Image       *string    `json:"image" db:"image"`
	ReleaseDate *string    `json:"release_date" db:"release_date"`

	// Characters live in a single jsonb column owned by this row.
	Characters []Character `json:"characters" db:"characters"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Author is populated by the repository at read time (join against
	// authors); nil serializes as null when the reference is absent.
	Author *authorModel.Author `json:"author"`
}

// AppendCharacter adds a character with a freshly assigned id and returns
// it. The caller persists the whole list afterwards; ids are never reused
// within a book because they are random UUIDs, not positions.
func (b *Book) AppendCharacter(name string) Character {
	ch := Character{
		ID:   uuid.New(),
		Name: name,
	}
	b.Characters = append(b.Characters, ch)
	return ch
}

// RemoveCharacter deletes the character with the given id, preserving the
// order of the rest. Returns false when no character matches.
func (b *Book) RemoveCharacter(id uuid.UUID) bool {
	for i, ch := range b.Characters {
		if ch.ID == id {
			b.Characters = append(b.Characters[:i], b.Characters[i+1:]...)
			return true
		}
	}
	return false
}
