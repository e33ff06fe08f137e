// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dunder-mifflin/bookmarks-api/internal/handler"
	"github.com/dunder-mifflin/bookmarks-api/internal/middleware"
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
)

// New builds the Echo instance: global error handler, middleware chain,
// and all routes.
//
// Middleware order matters: the request ID must exist before the context
// enhancer builds the request logger, the New Relic transaction must exist
// before tracing enrichment, and auth runs after the enhancer so rejected
// requests still log with correlation fields. Every route sits behind the
// bearer token check, including the health endpoint.
func New(s *server.Server, h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(middleware.RequestID())
	e.Use(mw.Tracing.NewRelicMiddleware())
	e.Use(mw.ContextEnhancer.EnhanceContext())
	e.Use(mw.Tracing.EnhanceTracing())
	e.Use(mw.Auth.RequireAuth)
	e.Use(mw.Global.CORS())
	e.Use(mw.Global.Secure())
	e.Use(mw.Global.RequestLogger())
	e.Use(mw.Global.Recover())

	registerBookmarkRoutes(e, h)
	registerSystemRoutes(e, h)

	return e
}
