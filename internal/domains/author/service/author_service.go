package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/author/model"
	"bookshelf-backend/internal/domains/author/repository"
)

type authorService struct {
	repo repository.RepositoryInterface
}

func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidName, err)
	}

	return s.repo.Create(ctx, req.ToAuthor())
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) List(ctx context.Context) ([]model.Author, error) {
	authors, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if authors == nil {
		authors = []model.Author{}
	}
	return authors, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *authorService) GetByName(ctx context.Context, name string) (*model.Author, error) {
	return s.repo.GetByName(ctx, name)
}

// ResolveByName looks the author up by exact name and creates one when the
// lookup misses. The lookup and the insert are two round-trips with no
// uniqueness enforcement between them: concurrent resolves of the same
// unknown name can both insert, leaving duplicate authors with equal names.
func (s *authorService) ResolveByName(ctx context.Context, name string) (*model.Author, bool, error) {
	author, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return author, false, nil
	}
	if !errors.Is(err, model.ErrAuthorNotFound) {
		return nil, false, err
	}

	author, err = s.repo.Create(ctx, &model.Author{
		Name:  name,
		Alive: true,
	})
	if err != nil {
		return nil, false, err
	}

	return author, true, nil
}
