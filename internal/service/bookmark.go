package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"golang.org/x/net/html"

	"github.com/dunder-mifflin/bookmarks-api/internal/errs"
	"github.com/dunder-mifflin/bookmarks-api/internal/repository"
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
	"github.com/dunder-mifflin/bookmarks-api/internal/sqlerr"
)

// BookmarkService implements the bookmark operations on top of the
// repository. It owns the read-side sanitization and the mapping of
// repository outcomes (no rows, zero rows affected) onto HTTP errors;
// everything else funnels through sqlerr.
type BookmarkService struct {
	server *server.Server
	repo   repository.BookmarkRepository
}

// NewBookmarkService constructs a BookmarkService.
func NewBookmarkService(s *server.Server, repo repository.BookmarkRepository) *BookmarkService {
	return &BookmarkService{
		server: s,
		repo:   repo,
	}
}

// notFound is the canonical 404 for a missing bookmark id.
func notFound() *errs.HTTPError {
	return errs.NewNotFoundError("Bookmark not found", false, nil)
}

// List returns every bookmark in storage order. Records are returned as
// stored; sanitization is a read-by-id concern.
func (s *BookmarkService) List(ctx context.Context) ([]repository.Bookmark, error) {
	bookmarks, err := s.repo.List(ctx)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return bookmarks, nil
}

// Get returns the bookmark with the given id, with Title and Description
// escaped to HTML entities so reflected content cannot execute as markup
// in a rendering client. URL and Rating are returned untouched. The record
// itself stays verbatim in storage; escaping happens on the way out.
func (s *BookmarkService) Get(ctx context.Context, id int64) (repository.Bookmark, error) {
	bookmark, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Bookmark{}, notFound()
		}
		return repository.Bookmark{}, sqlerr.HandleError(err)
	}

	bookmark.Title = html.EscapeString(bookmark.Title)
	bookmark.Description = html.EscapeString(bookmark.Description)

	return bookmark, nil
}

// Create persists a new bookmark and returns the full created record,
// including the id assigned by the database.
func (s *BookmarkService) Create(ctx context.Context, bookmark repository.NewBookmark) (repository.Bookmark, error) {
	created, err := s.repo.Insert(ctx, bookmark)
	if err != nil {
		return repository.Bookmark{}, sqlerr.HandleError(err)
	}
	return created, nil
}

// Delete removes the bookmark with the given id. A zero row count means
// the id does not exist and maps to 404.
func (s *BookmarkService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if affected == 0 {
		return notFound()
	}
	return nil
}

// Update applies the supplied fields to the bookmark with the given id.
// The caller guarantees a non-empty field set; a zero row count maps
// to 404.
func (s *BookmarkService) Update(ctx context.Context, id int64, fields repository.UpdateBookmarkFields) error {
	affected, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if affected == 0 {
		return notFound()
	}
	return nil
}
