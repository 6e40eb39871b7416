package service

import (
	"context"

	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/author/model"
)

// ServiceInterface is the business contract for authors, including the
// relation resolver used by book creation.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	List(ctx context.Context) ([]model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByName is the strict-mode resolution path: the author must
	// already exist.
	GetByName(ctx context.Context, name string) (*model.Author, error)

	// ResolveByName finds an author by exact name, creating one
	// (alive=true) if absent. The bool reports whether this call did
	// the creating, so callers can tell a fresh row from a reused one.
	ResolveByName(ctx context.Context, name string) (*model.Author, bool, error)
}
