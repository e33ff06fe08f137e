package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dunder-mifflin/bookmarks-api/internal/handler"
)

// registerBookmarkRoutes mounts the bookmark resource under /api/bookmarks.
func registerBookmarkRoutes(r *echo.Echo, h *handler.Handlers) {
	bookmarks := r.Group("/api/bookmarks")

	bookmarks.GET("", h.Bookmarks.List())
	bookmarks.POST("", h.Bookmarks.Create())
	bookmarks.GET("/:id", h.Bookmarks.Get())
	bookmarks.DELETE("/:id", h.Bookmarks.Delete())
	bookmarks.PATCH("/:id", h.Bookmarks.Update())
}
