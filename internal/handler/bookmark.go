package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/dunder-mifflin/bookmarks-api/internal/errs"
	"github.com/dunder-mifflin/bookmarks-api/internal/repository"
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
	"github.com/dunder-mifflin/bookmarks-api/internal/service"
)

var validate = validator.New()

// BookmarkHandler exposes the five bookmark endpoints.
type BookmarkHandler struct {
	Handler
	service *service.BookmarkService
}

// NewBookmarkHandler constructs a BookmarkHandler.
func NewBookmarkHandler(s *server.Server, bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		Handler: NewHandler(s),
		service: bookmarks,
	}
}

// ListBookmarksRequest has no input constraints.
type ListBookmarksRequest struct{}

func (r *ListBookmarksRequest) Validate() error { return nil }

// GetBookmarkRequest identifies a bookmark by its path id.
type GetBookmarkRequest struct {
	ID int64 `param:"id"`
}

func (r *GetBookmarkRequest) Validate() error { return nil }

// CreateBookmarkRequest carries a new bookmark. Title, URL and Rating are
// required; Rating must lie in [1,5] inclusive. Description is optional
// and defaults to the empty string, so its absence never fails validation.
type CreateBookmarkRequest struct {
	Title       string  `json:"title" validate:"required"`
	URL         string  `json:"url" validate:"required"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	Description *string `json:"description"`
}

func (r *CreateBookmarkRequest) Validate() error { return validate.Struct(r) }

// DeleteBookmarkRequest identifies a bookmark by its path id.
type DeleteBookmarkRequest struct {
	ID int64 `param:"id"`
}

func (r *DeleteBookmarkRequest) Validate() error { return nil }

// UpdateBookmarkRequest carries a partial update: every field is optional.
// A supplied Rating must lie in [1,5]; a zero rating counts as absent,
// matching the truthiness filter applied in Fields.
type UpdateBookmarkRequest struct {
	ID          int64   `param:"id" json:"-"`
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Description *string `json:"description"`
}

func (r *UpdateBookmarkRequest) Validate() error { return validate.Struct(r) }

// Fields converts the request into the repository's optional-field set,
// keeping only fields that are present and non-empty. Unrecognized body
// keys were already discarded by JSON binding, so nothing else can reach
// the update statement.
func (r *UpdateBookmarkRequest) Fields() repository.UpdateBookmarkFields {
	var fields repository.UpdateBookmarkFields
	if r.Title != nil && *r.Title != "" {
		fields.Title = r.Title
	}
	if r.URL != nil && *r.URL != "" {
		fields.URL = r.URL
	}
	if r.Rating != nil && *r.Rating != 0 {
		fields.Rating = r.Rating
	}
	if r.Description != nil && *r.Description != "" {
		fields.Description = r.Description
	}
	return fields
}

// List responds 200 with every bookmark as a JSON array.
func (h *BookmarkHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, h.list, http.StatusOK)
}

// Get responds 200 with the bookmark, or 404 when the id does not exist.
func (h *BookmarkHandler) Get() echo.HandlerFunc {
	return Handle(h.Handler, h.get, http.StatusOK)
}

// Create responds 201 with the full created record including its id.
func (h *BookmarkHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, h.create, http.StatusCreated)
}

// Delete responds 204 with an empty body, or 404 when the id does not exist.
func (h *BookmarkHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.remove, http.StatusNoContent)
}

// Update responds 204 with an empty body; 400 when no recognized field is
// supplied, 404 when the id does not exist.
func (h *BookmarkHandler) Update() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.update, http.StatusNoContent)
}

func (h *BookmarkHandler) list(c echo.Context, req *ListBookmarksRequest) ([]repository.Bookmark, error) {
	bookmarks, err := h.service.List(c.Request().Context())
	if err != nil {
		return nil, err
	}

	// An empty table serializes as [] rather than null.
	if bookmarks == nil {
		bookmarks = []repository.Bookmark{}
	}
	return bookmarks, nil
}

func (h *BookmarkHandler) get(c echo.Context, req *GetBookmarkRequest) (repository.Bookmark, error) {
	return h.service.Get(c.Request().Context(), req.ID)
}

func (h *BookmarkHandler) create(c echo.Context, req *CreateBookmarkRequest) (repository.Bookmark, error) {
	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	return h.service.Create(c.Request().Context(), repository.NewBookmark{
		Title:       req.Title,
		URL:         req.URL,
		Rating:      req.Rating,
		Description: description,
	})
}

func (h *BookmarkHandler) remove(c echo.Context, req *DeleteBookmarkRequest) error {
	return h.service.Delete(c.Request().Context(), req.ID)
}

func (h *BookmarkHandler) update(c echo.Context, req *UpdateBookmarkRequest) error {
	fields := req.Fields()

	// An empty update set is rejected before touching the store, so the
	// 400 wins regardless of whether the id exists.
	if fields.IsEmpty() {
		return errs.NewBadRequestError("PATCH failed", false, nil, nil)
	}

	return h.service.Update(c.Request().Context(), req.ID, fields)
}
