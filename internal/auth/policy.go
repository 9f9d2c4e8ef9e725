package auth

import (
	"errors"

	"github.com/adboards/adboards-api/internal/model"
)

// Policy names the authorization requirement a route declares at
// registration time. AuthenticatedUser is the default for every operation;
// a route has to opt out explicitly with Anonymous (login, registration,
// public ad browsing).
type Policy int

const (
	Anonymous Policy = iota
	AuthenticatedUser
	AdminOnly
)

var (
	// ErrUnauthenticated means no valid claims were present where a policy
	// requires them. Maps to HTTP 401.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity is valid but not allowed. Maps to
	// HTTP 403, distinct from not-found and bad-request.
	ErrForbidden = errors.New("forbidden")
)

// Authorize evaluates a policy against the claims resolved for the request.
// claims is nil when no token was attached or verification failed; an
// invalid token is treated as anonymous, never as a transport error.
func Authorize(claims *Claims, p Policy) error {
	switch p {
	case Anonymous:
		return nil
	case AuthenticatedUser:
		if claims == nil {
			return ErrUnauthenticated
		}
		return nil
	case AdminOnly:
		if claims == nil {
			return ErrUnauthenticated
		}
		// A missing or unparsable right claim denies here the same way a
		// non-admin right does. The bad-request treatment of an unparsable
		// right exists only on right-gated deletes, see CheckOwnership.
		if r, err := claims.Right(); err != nil || r != model.RightAdmin {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}
