package service

import (
	"github.com/dunder-mifflin/bookmarks-api/internal/repository"
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
)

// Services is a container for all business-layer services.
type Services struct {
	Bookmarks *BookmarkService
}

// NewService constructs the service container on top of the repositories.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Bookmarks: NewBookmarkService(s, repos.Bookmarks),
	}, nil
}
