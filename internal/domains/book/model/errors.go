package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	authorModel "bookshelf-backend/internal/domains/author/model"
	"bookshelf-backend/internal/shared/response"
)

var (
	ErrBookNotFound = errors.New("book not found")

	// ErrCharacterNotFound means the book exists but holds no character
	// with the requested id. Distinct from ErrBookNotFound so clients can
	// tell which half of the pair is stale.
	ErrCharacterNotFound = errors.New("character not found in book")

	// ErrAuthorNotFound is the strict-policy create failure: the book
	// referenced an author name that does not exist.
	ErrAuthorNotFound = errors.New("author not found - create author first")

	ErrDatabaseQuery = errors.New("database query error")
)

var bookErrorMap = []struct {
	Err     error
	Status  int
	Code    string
	Message string
}{
	{ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND", "The specified book does not exist"},
	{ErrCharacterNotFound, http.StatusNotFound, "CHARACTER_NOT_FOUND", "The book has no character with this id"},
	// Strict-mode author misses surface as a server error, matching the
	// original behaviour of the create endpoint.
	{ErrAuthorNotFound, http.StatusInternalServerError, "AUTHOR_NOT_FOUND", "The specified author does not exist - create the author first"},
	{authorModel.ErrAuthorNotFound, http.StatusInternalServerError, "AUTHOR_NOT_FOUND", "The specified author does not exist - create the author first"},
}

// HandleBookError writes the mapped error response and reports whether err
// was handled. Returns false for err == nil so handlers can gate on it.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, entry := range bookErrorMap {
		if errors.Is(err, entry.Err) {
			response.ErrorResponse(c, entry.Status, entry.Code, entry.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("book request failed")
	response.InternalServerError(c, "Internal server error")
	return true
}
