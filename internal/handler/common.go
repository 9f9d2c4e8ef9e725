package handler // handler defines http handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/middleware"
)

// dbTimeout bounds every database round trip issued from a handler.
const dbTimeout = 5 * time.Second

// getClaims returns the claims resolved by the JWT middleware. On routes
// guarded by JWTAuth they are always present; on OptionalJWT routes they
// are nil for anonymous callers.
func getClaims(c echo.Context) *auth.Claims {
	return middleware.ClaimsFrom(c)
}

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}
