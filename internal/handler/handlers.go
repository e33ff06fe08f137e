package handler

import (
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
	"github.com/dunder-mifflin/bookmarks-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers, keeping router
// setup to a single wired object.
type Handlers struct {
	Health    *HealthHandler
	Bookmarks *BookmarkHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		Bookmarks: NewBookmarkHandler(s, services.Bookmarks),
	}
}
