package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
)

// RequireAdmin enforces the AdminOnly policy on a route group. It assumes
// JWTAuth ran first and resolved the claims; a request whose right claim is
// missing, unparsable or not Admin is rejected with 403, matching the
// policy engine's treatment of the admin requirement.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.Authorize(ClaimsFrom(c), auth.AdminOnly); err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
