// Package auth implements the access-control core of the service: token
// issuance and verification, the authorization policy engine and the
// resource ownership gate. Middleware resolves a *Claims once per request
// and handlers pass it explicitly into the checks; nothing in this package
// reads ambient request state.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adboards/adboards-api/internal/model"
)

// TokenConfig carries the signing parameters shared by the issuer and the
// verifier. Secret must be set; config.Load treats a missing secret as a
// startup-time fatal, so issuance never fails on configuration at runtime.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// IssuedToken is a signed identity token together with its expiry.
type IssuedToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// ErrInvalidToken covers every verification failure: bad signature, wrong
// issuer or audience, expired, malformed. Callers treat it as "no claims".
var ErrInvalidToken = errors.New("invalid token")

// IssueToken builds and signs an HS512 JWT for a person. The claims carry
// the person id (under both sub and id), email, login and the right name
// under rightId. The right is fixed at issuance; see model.RightType.
func IssueToken(cfg TokenConfig, p *model.Person) (IssuedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(cfg.TTL)
	claims := jwt.MapClaims{
		"sub":     p.ID,
		"id":      p.ID,
		"email":   p.Email,
		"login":   p.Login,
		"rightId": p.RightID.String(),
		"iss":     cfg.Issuer,
		"aud":     cfg.Audience,
		"exp":     exp.Unix(),
		"iat":     now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := t.SignedString([]byte(cfg.Secret))
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, Exp: exp}, nil
}

// VerifyToken validates signature, issuer, audience and expiry of a raw
// token and returns the claims it carries. Only HMAC signing methods are
// accepted; a token signed with anything else is rejected outright.
func VerifyToken(cfg TokenConfig, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	},
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	claims, err := FromMapClaims(mc)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
