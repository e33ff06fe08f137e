package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dunder-mifflin/bookmarks-api/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of business
// logic, currently only the health status endpoint used by monitors.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}
