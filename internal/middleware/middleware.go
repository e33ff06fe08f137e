// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as bearer-token authorization, request logging, CORS,
// security headers, and panic recovery.
package middleware
