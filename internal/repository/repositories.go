package repository

import (
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
)

// Repositories is a container for all repository instances, so services
// can accept one wired object.
type Repositories struct {
	Bookmarks BookmarkRepository
}

// NewRepositories constructs the repository container from the application
// container's shared database pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Bookmarks: NewPostgresBookmarkRepository(s.DB.Pool),
	}
}
