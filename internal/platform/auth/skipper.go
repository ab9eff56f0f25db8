package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that should bypass authentication and tenant
// resolution. These are infrastructure endpoints (health checks, metrics)
// that must be accessible without credentials.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
	"/metrics":   true,
}

// publicPrefixes lists URL path prefixes that bypass authentication. Owner
// portal shares are addressed by an unguessable token and are readable
// without a tenant session.
var publicPrefixes = []string{
	"/portal/shares/",
}

// AuthSkipper returns true for requests whose path should skip authentication,
// so that health-check, metrics, and tokenized portal-share endpoints remain
// accessible without a bearer token or tenant context.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Request().URL.Path)
}

// IsPublicPath reports whether the given path is a public endpoint that
// should bypass auth and tenant middleware.
func IsPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
