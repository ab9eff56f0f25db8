package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user has at least one of the specified roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequirePermission returns middleware that checks if the user holds the
// required permission. Permissions are "resource.operation" strings (e.g.
// "incidents.classify", "payapps.export") issued by the admin role grants.
func RequirePermission(resource, operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			perms := PermissionsFromContext(c.Request().Context())
			required := fmt.Sprintf("%s.%s", resource, operation)

			for _, p := range perms {
				if matchPermission(p, required) {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required permission: %s", required))
		}
	}
}

// matchPermission checks if a granted permission covers the required one.
// Wildcards are supported on either side of the dot: "*.*" matches
// everything, "incidents.*" matches any incident operation.
func matchPermission(granted, required string) bool {
	if granted == required {
		return true
	}

	gParts := strings.SplitN(granted, ".", 2)
	rParts := strings.SplitN(required, ".", 2)

	if len(gParts) != 2 || len(rParts) != 2 {
		return false
	}

	resMatch := gParts[0] == rParts[0] || gParts[0] == "*"
	opMatch := gParts[1] == rParts[1] || gParts[1] == "*"

	return resMatch && opMatch
}
