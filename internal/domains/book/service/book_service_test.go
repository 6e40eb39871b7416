package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/config"
	authorModel "bookshelf-backend/internal/domains/author/model"
	authorService "bookshelf-backend/internal/domains/author/service"
	"bookshelf-backend/internal/domains/book/model"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type fakeAuthorRepo struct {
	authors []authorModel.Author
}

func (f *fakeAuthorRepo) Create(_ context.Context, a *authorModel.Author) (*authorModel.Author, error) {
	created := *a
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.authors = append(f.authors, created)
	return &created, nil
}

func (f *fakeAuthorRepo) GetByID(_ context.Context, id uuid.UUID) (*authorModel.Author, error) {
	for _, a := range f.authors {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, authorModel.ErrAuthorNotFound
}

func (f *fakeAuthorRepo) GetByName(_ context.Context, name string) (*authorModel.Author, error) {
	for _, a := range f.authors {
		if a.Name == name {
			found := a
			return &found, nil
		}
	}
	return nil, authorModel.ErrAuthorNotFound
}

func (f *fakeAuthorRepo) GetAll(_ context.Context) ([]authorModel.Author, error) {
	return append([]authorModel.Author{}, f.authors...), nil
}

func (f *fakeAuthorRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, a := range f.authors {
		if a.ID == id {
			f.authors = append(f.authors[:i], f.authors[i+1:]...)
			return nil
		}
	}
	return authorModel.ErrAuthorNotFound
}

// fakeBookRepo joins against the author fake on every read, mirroring the
// LEFT JOIN the real repository performs.
type fakeBookRepo struct {
	books     map[uuid.UUID]model.Book
	authors   *fakeAuthorRepo
	listCalls int
	createErr error
}

func newFakeBookRepo(authors *fakeAuthorRepo) *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]model.Book{}, authors: authors}
}

func (f *fakeBookRepo) populate(b model.Book) model.Book {
	b.Characters = append([]model.Character{}, b.Characters...)
	b.Author = nil
	if b.AuthorID != nil {
		if a, err := f.authors.GetByID(context.Background(), *b.AuthorID); err == nil {
			b.Author = a
		}
	}
	return b
}

func (f *fakeBookRepo) List(_ context.Context) ([]model.Book, error) {
	f.listCalls++
	books := []model.Book{}
	for _, b := range f.books {
		books = append(books, f.populate(b))
	}
	return books, nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	populated := f.populate(b)
	return &populated, nil
}

func (f *fakeBookRepo) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *b
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.books[created.ID] = created
	return f.GetByID(ctx, created.ID)
}

func (f *fakeBookRepo) Update(ctx context.Context, id uuid.UUID, fields model.UpdateBookRequest) (*model.Book, error) {
	if fields.Empty() {
		return f.GetByID(ctx, id)
	}
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	if fields.Title != nil {
		b.Title = *fields.Title
	}
	if fields.Image != nil {
		b.Image = fields.Image
	}
	if fields.ReleaseDate != nil {
		b.ReleaseDate = fields.ReleaseDate
	}
	b.UpdatedAt = time.Now()
	f.books[id] = b
	return f.GetByID(ctx, id)
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	snapshot, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(f.books, id)
	return snapshot, nil
}

func (f *fakeBookRepo) ReplaceCharacters(ctx context.Context, id uuid.UUID, characters []model.Character) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	b.Characters = append([]model.Character{}, characters...)
	b.UpdatedAt = time.Now()
	f.books[id] = b
	return f.GetByID(ctx, id)
}

// memCache is a map-backed pkg/cache.Cache.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *memCache) Ping(_ context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type fixture struct {
	svc      ServiceInterface
	bookRepo *fakeBookRepo
	authors  *fakeAuthorRepo
}

func newFixture(policy config.AuthorPolicy) *fixture {
	authors := &fakeAuthorRepo{}
	bookRepo := newFakeBookRepo(authors)
	svc := NewService(bookRepo, authorService.NewAuthorService(authors), newMemCache(), policy)
	return &fixture{svc: svc, bookRepo: bookRepo, authors: authors}
}

func seedAuthor(t *testing.T, fx *fixture, name string) *authorModel.Author {
	t.Helper()
	a, err := fx.authors.Create(context.Background(), &authorModel.Author{Name: name, Alive: true})
	require.NoError(t, err)
	return a
}

func createBook(t *testing.T, fx *fixture, title, author string) *model.Book {
	t.Helper()
	b, err := fx.svc.CreateBook(context.Background(), model.CreateBookRequest{Title: title, Author: author})
	require.NoError(t, err)
	return b
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreateBook_AutoCreate_NewAuthor(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)

	book := createBook(t, fx, "Dune", "Frank Herbert")

	require.NotNil(t, book.Author)
	assert.Equal(t, "Frank Herbert", book.Author.Name)
	assert.True(t, book.Author.Alive)
	assert.Len(t, fx.authors.authors, 1)
}

func TestCreateBook_AutoCreate_ExistingAuthorReused(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	existing := seedAuthor(t, fx, "Frank Herbert")

	book := createBook(t, fx, "Dune", "Frank Herbert")

	require.NotNil(t, book.Author)
	assert.Equal(t, existing.ID, book.Author.ID)
	assert.Len(t, fx.authors.authors, 1)
}

func TestCreateBook_RequireExisting_UnknownAuthorFails(t *testing.T) {
	fx := newFixture(config.AuthorPolicyRequireExisting)

	_, err := fx.svc.CreateBook(context.Background(), model.CreateBookRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, authorModel.ErrAuthorNotFound)
	assert.Empty(t, fx.bookRepo.books)
	assert.Empty(t, fx.authors.authors, "strict mode must not auto-create")
}

func TestCreateBook_RequireExisting_KnownAuthor(t *testing.T) {
	fx := newFixture(config.AuthorPolicyRequireExisting)
	existing := seedAuthor(t, fx, "Frank Herbert")

	book := createBook(t, fx, "Dune", "Frank Herbert")

	require.NotNil(t, book.Author)
	assert.Equal(t, existing.ID, book.Author.ID)
}

func TestCreateBook_RejectsMissingFields(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)

	_, err := fx.svc.CreateBook(context.Background(), model.CreateBookRequest{Title: "Dune"})
	assert.Error(t, err)

	_, err = fx.svc.CreateBook(context.Background(), model.CreateBookRequest{Author: "Frank Herbert"})
	assert.Error(t, err)

	assert.Empty(t, fx.bookRepo.books)
}

// captureLogs redirects the global logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	return &buf
}

func TestCreateBook_InsertFailureAfterAutoCreateWarnsOrphan(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	fx.bookRepo.createErr = errors.New("insert failed")
	buf := captureLogs(t)

	_, err := fx.svc.CreateBook(context.Background(), model.CreateBookRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
	})

	require.Error(t, err)
	assert.Contains(t, buf.String(), "orphaned author")
}

func TestCreateBook_InsertFailureWithReusedAuthorDoesNotWarn(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	seedAuthor(t, fx, "Frank Herbert")
	fx.bookRepo.createErr = errors.New("insert failed")
	buf := captureLogs(t)

	_, err := fx.svc.CreateBook(context.Background(), model.CreateBookRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
	})

	require.Error(t, err)
	assert.NotContains(t, buf.String(), "orphaned author", "no orphan exists when the author pre-existed")
}

// ---------------------------------------------------------------------------
// Read / round-trip
// ---------------------------------------------------------------------------

func TestGetBook_RoundTrip(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")

	fetched, err := fx.svc.GetBook(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, "Dune", fetched.Title)
	require.NotNil(t, fetched.Author)
	assert.Equal(t, "Frank Herbert", fetched.Author.Name)
	assert.Empty(t, fetched.Characters)
}

func TestGetBook_DeletedAuthorSerializesNull(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")
	require.NotNil(t, created.Author)

	require.NoError(t, fx.authors.Delete(context.Background(), created.Author.ID))

	fetched, err := fx.svc.GetBook(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, "Dune", fetched.Title)
	assert.Nil(t, fetched.Author, "book must survive its author and populate author as null")
}

func TestGetBook_NotFound(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)

	_, err := fx.svc.GetBook(context.Background(), uuid.New())

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestListBooks_ServedFromCacheUntilInvalidated(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	createBook(t, fx, "Dune", "Frank Herbert")

	_, err := fx.svc.ListBooks(context.Background())
	require.NoError(t, err)
	_, err = fx.svc.ListBooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fx.bookRepo.listCalls, "second list should hit the cache")

	// Any mutation drops the list cache.
	createBook(t, fx, "Dune Messiah", "Frank Herbert")
	books, err := fx.svc.ListBooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fx.bookRepo.listCalls)
	assert.Len(t, books, 2)
}

// ---------------------------------------------------------------------------
// Update / delete
// ---------------------------------------------------------------------------

func TestUpdateBook_PartialFieldsOnly(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")
	_, err := fx.svc.AddCharacter(context.Background(), created.ID, model.AddCharacterRequest{Name: "Paul"})
	require.NoError(t, err)

	title := "Dune (revised)"
	updated, err := fx.svc.UpdateBook(context.Background(), created.ID, model.UpdateBookRequest{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "Dune (revised)", updated.Title)
	require.NotNil(t, updated.Author)
	assert.Equal(t, "Frank Herbert", updated.Author.Name, "update must not touch the author reference")
	assert.Len(t, updated.Characters, 1, "update must not touch characters")
}

func TestUpdateBook_EmptyRequestIsNoOp(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")

	updated, err := fx.svc.UpdateBook(context.Background(), created.ID, model.UpdateBookRequest{})

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Dune", updated.Title)
	require.NotNil(t, updated.Author)
	assert.Equal(t, "Frank Herbert", updated.Author.Name)
}

func TestUpdateBook_NotFound(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	title := "x"

	_, err := fx.svc.UpdateBook(context.Background(), uuid.New(), model.UpdateBookRequest{Title: &title})

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestDeleteBook_ReturnsSnapshotThenGone(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")

	snapshot, err := fx.svc.DeleteBook(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, snapshot.ID)
	assert.Equal(t, "Dune", snapshot.Title)

	_, err = fx.svc.GetBook(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestDeleteBook_NotFound(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)

	_, err := fx.svc.DeleteBook(context.Background(), uuid.New())

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

// ---------------------------------------------------------------------------
// Characters
// ---------------------------------------------------------------------------

func TestAddCharacter_AppendsWithFreshID(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")

	withPaul, err := fx.svc.AddCharacter(context.Background(), created.ID, model.AddCharacterRequest{Name: "Paul"})
	require.NoError(t, err)
	withAlice, err := fx.svc.AddCharacter(context.Background(), created.ID, model.AddCharacterRequest{Name: "Alice"})
	require.NoError(t, err)

	require.Len(t, withAlice.Characters, len(withPaul.Characters)+1)
	last := withAlice.Characters[len(withAlice.Characters)-1]
	assert.Equal(t, "Alice", last.Name)
	for _, prior := range withPaul.Characters {
		assert.NotEqual(t, prior.ID, last.ID)
	}
}

func TestAddCharacter_BookNotFound(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)

	_, err := fx.svc.AddCharacter(context.Background(), uuid.New(), model.AddCharacterRequest{Name: "Alice"})

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestRemoveCharacter_RemovesByID(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")
	withPaul, err := fx.svc.AddCharacter(context.Background(), created.ID, model.AddCharacterRequest{Name: "Paul"})
	require.NoError(t, err)

	updated, err := fx.svc.RemoveCharacter(context.Background(), created.ID, withPaul.Characters[0].ID)

	require.NoError(t, err)
	assert.Empty(t, updated.Characters)
}

func TestRemoveCharacter_UnknownCharacterLeavesBookUnchanged(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)
	created := createBook(t, fx, "Dune", "Frank Herbert")
	_, err := fx.svc.AddCharacter(context.Background(), created.ID, model.AddCharacterRequest{Name: "Paul"})
	require.NoError(t, err)

	_, err = fx.svc.RemoveCharacter(context.Background(), created.ID, uuid.New())

	assert.ErrorIs(t, err, model.ErrCharacterNotFound)

	current, err := fx.svc.GetBook(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, current.Characters, 1)
}

func TestRemoveCharacter_BookNotFound(t *testing.T) {
	fx := newFixture(config.AuthorPolicyAutoCreate)

	_, err := fx.svc.RemoveCharacter(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}
