package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/shared/response"
)

// AddCharacter - POST /api/books/:book_id/characters
// Returns 201 with the whole updated book; the client re-renders from it.
func (h *Handler) AddCharacter(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		response.BadRequest(c, "book_id must be a valid UUID")
		return
	}

	var req model.AddCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.service.AddCharacter(c.Request.Context(), bookID, req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// RemoveCharacter - DELETE /api/books/:book_id/characters/:character_id
// A missing book and a missing character are distinct 404s; the latter
// leaves the stored list untouched.
func (h *Handler) RemoveCharacter(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		response.BadRequest(c, "book_id must be a valid UUID")
		return
	}

	characterID, err := uuid.Parse(c.Param("character_id"))
	if err != nil {
		response.BadRequest(c, "character_id must be a valid UUID")
		return
	}

	book, err := h.service.RemoveCharacter(c.Request.Context(), bookID, characterID)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, book)
}
