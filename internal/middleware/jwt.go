package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
)

// claimsKey is the context key under which resolved claims are stored.
const claimsKey = "claims"

// JWTAuth enforces the AuthenticatedUser policy on a route group: it
// verifies the Bearer token and stores the resolved *auth.Claims in the
// request context. Requests without a valid token are rejected with 401.
// Handlers retrieve the claims once and pass them explicitly into policy
// and ownership checks; nothing else reads the context.
func JWTAuth(cfg auth.TokenConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.VerifyToken(cfg, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// OptionalJWT resolves claims when a valid token is attached but lets
// anonymous requests through with no claims set. An invalid token is
// treated the same as no token, never as an error. Public routes that
// enrich responses for authenticated callers (single-ad lookup marking
// favorites) use this.
func OptionalJWT(cfg auth.TokenConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				raw := strings.TrimPrefix(header, "Bearer ")
				if claims, err := auth.VerifyToken(cfg, raw); err == nil {
					c.Set(claimsKey, claims)
				}
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims resolved by JWTAuth or OptionalJWT, or nil
// for anonymous requests.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}
