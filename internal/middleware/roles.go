package middleware

import (
	"net/http"

	"mentorhub/internal/common"
	"mentorhub/internal/roles"

	"github.com/labstack/echo/v4"
)

// RequireRole allows the request through only when the context role is one of
// the allowed canonical roles. A missing or unknown role is denied, never
// elevated.
func RequireRole(allowed ...roles.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := common.GetRoleFromContext(c.Request().Context())
			for _, r := range allowed {
				if role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient role")
		}
	}
}

// RequireAdmin restricts a route to platform and organization admins.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(roles.PlatformAdmin, roles.OrgAdmin)
}

// RequirePlatformAdmin restricts a route to platform admins.
func RequirePlatformAdmin() echo.MiddlewareFunc {
	return RequireRole(roles.PlatformAdmin)
}
