package middleware

// identity.go provides the person-identifier helper used when building
// rate-limit keys. Unauthenticated requests are bucketed under "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentPersonID returns the decimal person id of the authenticated
// caller, or "anon" when no claims were resolved for this request.
func currentPersonID(c echo.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return strconv.FormatUint(claims.PersonID, 10)
	}
	return "anon"
}
