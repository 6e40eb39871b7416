package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookshelf-backend/internal/config"
	authorModel "bookshelf-backend/internal/domains/author/model"
	authorService "bookshelf-backend/internal/domains/author/service"
	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/domains/book/repository"
	"bookshelf-backend/pkg/cache"
)

// Cache key constants
const (
	bookListCacheKey      = "books:list"
	bookDetailCachePrefix = "books:detail:"
	bookCacheTTL          = 10 * time.Minute
)

// BookService implements ServiceInterface.
type BookService struct {
	repo    repository.RepositoryInterface
	authors authorService.ServiceInterface
	cache   cache.Cache
	policy  config.AuthorPolicy
}

func NewService(
	repo repository.RepositoryInterface,
	authors authorService.ServiceInterface,
	cache cache.Cache,
	policy config.AuthorPolicy,
) ServiceInterface {
	return &BookService{
		repo:    repo,
		authors: authors,
		cache:   cache,
		policy:  policy,
	}
}

// ListBooks returns every book, author populated, read-through cached.
// Cache failures are logged and fall through to the database.
func (s *BookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	var cached []model.Book
	found, err := s.cache.Get(ctx, bookListCacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", bookListCacheKey).Msg("cache read failed")
	}
	if found {
		return cached, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books error: %w", err)
	}

	if err := s.cache.Set(ctx, bookListCacheKey, books, bookCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", bookListCacheKey).Msg("cache write failed")
	}

	return books, nil
}

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookDetailCachePrefix + id.String()

	var cached model.Book
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("cache read failed")
	}
	if found {
		return &cached, nil
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, book, bookCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("cache write failed")
	}

	return book, nil
}

// CreateBook resolves the author name to a reference, then inserts the
// book. Which resolution runs depends on the configured policy:
//
//   - require-existing: unknown names fail with ErrAuthorNotFound
//   - auto-create: unknown names create the author (alive=true) first
//
// The two writes are not transactional. When the book insert fails after
// an author was auto-created, the author stays behind; that orphan is
// logged and otherwise accepted.
func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var author *authorModel.Author
	var authorCreated bool
	var err error

	switch s.policy {
	case config.AuthorPolicyRequireExisting:
		author, err = s.authors.GetByName(ctx, req.Author)
	default:
		author, authorCreated, err = s.authors.ResolveByName(ctx, req.Author)
	}
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		Title:       req.Title,
		AuthorID:    &author.ID,
		Image:       req.Image,
		ReleaseDate: req.ReleaseDate,
		Characters:  []model.Character{},
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		if authorCreated {
			log.Warn().
				Str("author_id", author.ID.String()).
				Str("author_name", author.Name).
				Msg("orphaned author write: book insert failed after author auto-create")
		}
		return nil, err
	}

	s.invalidate(ctx, created.ID)
	return created, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	snapshot, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return snapshot, nil
}

// AddCharacter loads the book, appends a character with a fresh id and
// persists the whole list. Load and store are two round-trips with no
// concurrency guard; a concurrent writer on the same book can win the
// second write and drop this append.
func (s *BookService) AddCharacter(ctx context.Context, bookID uuid.UUID, req model.AddCharacterRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.AppendCharacter(req.Name)

	updated, err := s.repo.ReplaceCharacters(ctx, bookID, book.Characters)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, bookID)
	return updated, nil
}

// RemoveCharacter fails with ErrCharacterNotFound when the book exists but
// holds no such character; the stored list is left untouched in that case.
func (s *BookService) RemoveCharacter(ctx context.Context, bookID, characterID uuid.UUID) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !book.RemoveCharacter(characterID) {
		return nil, model.ErrCharacterNotFound
	}

	updated, err := s.repo.ReplaceCharacters(ctx, bookID, book.Characters)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, bookID)
	return updated, nil
}

func (s *BookService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, bookListCacheKey, bookDetailCachePrefix+id.String()); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
