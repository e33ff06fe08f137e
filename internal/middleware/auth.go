package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dunder-mifflin/bookmarks-api/internal/errs"
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
)

// AuthMiddleware holds the app Server so middleware can access shared deps
// like Logger and Config.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth enforces the static API token on every route.
//
// The request must carry `Authorization: Bearer <token>` matching the
// configured auth.api_token. Comparison is constant-time so the token
// cannot be probed byte by byte. Failures are logged with the failing
// path and answered with 401 {"error":"Unauthorized Request"} before any
// handler runs.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, hasBearer := strings.CutPrefix(header, "Bearer ")

		if !hasBearer || subtle.ConstantTimeCompare([]byte(token), []byte(auth.server.Config.Auth.APIToken)) != 1 {
			GetLogger(c).Error().
				Str("path", c.Request().URL.Path).
				Str("request_id", GetRequestID(c)).
				Msg("unauthorized request")

			return errs.NewUnauthorizedError("Unauthorized Request", false)
		}

		return next(c)
	}
}
