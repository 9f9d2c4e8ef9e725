package auth

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adboards/adboards-api/internal/model"
)

// Claims is the verified identity attached to a request. PersonID, Email and
// Login come straight from the token. The right claim is kept raw on
// purpose: most operations never look at it and must not fail on a value
// they do not depend on, so parsing is deferred to Right().
type Claims struct {
	PersonID uint64
	Email    string
	Login    string

	rawRight string
}

var (
	// ErrNoSubject means the token carries no usable person id claim.
	ErrNoSubject = errors.New("token has no usable id claim")
	// ErrBadRightClaim means the right claim is missing or unparsable. The
	// operations that depend on the right surface this as a bad request,
	// not as forbidden.
	ErrBadRightClaim = errors.New("unparsable right claim")
)

// FromMapClaims extracts Claims from decoded JWT claims. The person id may
// arrive as a JSON number or a numeric string depending on the issuer of
// record; both forms are accepted, under "id" first and "sub" as fallback.
func FromMapClaims(mc jwt.MapClaims) (*Claims, error) {
	id, ok := claimUint(mc["id"])
	if !ok {
		if id, ok = claimUint(mc["sub"]); !ok {
			return nil, ErrNoSubject
		}
	}
	c := &Claims{PersonID: id}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	if v, ok := mc["login"].(string); ok {
		c.Login = v
	}
	if v, ok := mc["rightId"].(string); ok {
		c.rawRight = v
	}
	return c, nil
}

// NewClaims builds a Claims value directly from known identity attributes.
// Used by tests and by code paths that already hold a verified person.
func NewClaims(personID uint64, email, login string, right model.RightType) *Claims {
	return &Claims{PersonID: personID, Email: email, Login: login, rawRight: right.String()}
}

// Right parses the right claim carried by the token.
func (c *Claims) Right() (model.RightType, error) {
	r, err := model.ParseRight(c.rawRight)
	if err != nil {
		return 0, ErrBadRightClaim
	}
	return r, nil
}

// IsAdmin reports whether the right claim parses to Admin.
func (c *Claims) IsAdmin() bool {
	r, err := c.Right()
	return err == nil && r == model.RightAdmin
}

func claimUint(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
