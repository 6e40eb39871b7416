package repository

import (
	"context"

	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/author/model"
)

// RepositoryInterface is the data access contract for authors.
type RepositoryInterface interface {
	Create(ctx context.Context, a *model.Author) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// GetByName looks an author up by exact name match. Name carries no
	// unique constraint; if duplicates exist the oldest row wins.
	GetByName(ctx context.Context, name string) (*model.Author, error)

	GetAll(ctx context.Context) ([]model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
