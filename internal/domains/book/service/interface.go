package service

import (
	"context"

	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/book/model"
)

// ServiceInterface is the business contract for books, covering both the
// book CRUD operations and the embedded character lifecycle.
type ServiceInterface interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) (*model.Book, error)

	AddCharacter(ctx context.Context, bookID uuid.UUID, req model.AddCharacterRequest) (*model.Book, error)
	RemoveCharacter(ctx context.Context, bookID, characterID uuid.UUID) (*model.Book, error)
}
