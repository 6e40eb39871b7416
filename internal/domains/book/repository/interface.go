package repository

import (
	"context"

	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/book/model"
)

// RepositoryInterface is the data access contract for the book aggregate.
// Every read returns books with Author populated from the current author
// row, never a stale copy.
type RepositoryInterface interface {
	List(ctx context.Context) ([]model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	Create(ctx context.Context, b *model.Book) (*model.Book, error)

	// Update writes only the supplied fields; ErrBookNotFound if absent.
	Update(ctx context.Context, id uuid.UUID, fields model.UpdateBookRequest) (*model.Book, error)

	// Delete returns the populated snapshot as it existed immediately
	// before removal.
	Delete(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// ReplaceCharacters overwrites the book's character list wholesale.
	// This is the write half of an unguarded read-modify-write pair; no
	// version check protects against a concurrent writer.
	ReplaceCharacters(ctx context.Context, id uuid.UUID, characters []model.Character) (*model.Book, error)
}
