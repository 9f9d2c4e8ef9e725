package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboards/adboards-api/internal/model"
)

func testTokenCfg() TokenConfig {
	return TokenConfig{
		Secret:   "test-secret",
		Issuer:   "adboards-api",
		Audience: "adboards-clients",
		TTL:      7 * 24 * time.Hour,
	}
}

func testPerson() *model.Person {
	return &model.Person{
		ID:      42,
		Login:   "ivan",
		Email:   "ivan@example.com",
		RightID: model.RightNormal,
	}
}

func TestIssueAndVerify(t *testing.T) {
	cfg := testTokenCfg()
	issued, err := IssueToken(cfg, testPerson())
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	claims, err := VerifyToken(cfg, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.PersonID)
	assert.Equal(t, "ivan", claims.Login)
	assert.Equal(t, "ivan@example.com", claims.Email)

	r, err := claims.Right()
	require.NoError(t, err)
	assert.Equal(t, model.RightNormal, r)
}

func TestIssuedTokenUsesHS512(t *testing.T) {
	cfg := testTokenCfg()
	issued, err := IssueToken(cfg, testPerson())
	require.NoError(t, err)

	tok, _, err := jwt.NewParser().ParseUnverified(issued.Token, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS512", tok.Method.Alg())
}

func TestIssuedClaimShape(t *testing.T) {
	cfg := testTokenCfg()
	issued, err := IssueToken(cfg, &model.Person{
		ID: 7, Login: "admin", Email: "a@b.c", RightID: model.RightAdmin,
	})
	require.NoError(t, err)

	tok, _, err := jwt.NewParser().ParseUnverified(issued.Token, jwt.MapClaims{})
	require.NoError(t, err)
	mc := tok.Claims.(jwt.MapClaims)

	assert.Equal(t, "Admin", mc["rightId"])
	assert.Equal(t, "admin", mc["login"])
	assert.Equal(t, "a@b.c", mc["email"])
	assert.Equal(t, cfg.Issuer, mc["iss"])
	assert.Equal(t, cfg.Audience, mc["aud"])
	assert.Contains(t, mc, "sub")
	assert.Contains(t, mc, "exp")
	assert.Contains(t, mc, "iat")
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	cfg := testTokenCfg()
	issued, err := IssueToken(cfg, testPerson())
	require.NoError(t, err)

	bad := cfg
	bad.Secret = "other-secret"
	_, err = VerifyToken(bad, issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	cfg := testTokenCfg()
	issued, err := IssueToken(cfg, testPerson())
	require.NoError(t, err)

	bad := cfg
	bad.Issuer = "someone-else"
	_, err = VerifyToken(bad, issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	cfg := testTokenCfg()
	issued, err := IssueToken(cfg, testPerson())
	require.NoError(t, err)

	bad := cfg
	bad.Audience = "other-clients"
	_, err = VerifyToken(bad, issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testTokenCfg()
	cfg.TTL = -time.Minute
	issued, err := IssueToken(cfg, testPerson())
	require.NoError(t, err)

	_, err = VerifyToken(cfg, issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNonHMAC(t *testing.T) {
	cfg := testTokenCfg()
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  1,
		"iss": cfg.Issuer,
		"aud": cfg.Audience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyToken(cfg, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := VerifyToken(testTokenCfg(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiryMatchesTTL(t *testing.T) {
	cfg := testTokenCfg()
	before := time.Now().UTC().Add(cfg.TTL)
	issued, err := IssueToken(cfg, testPerson())
	require.NoError(t, err)
	after := time.Now().UTC().Add(cfg.TTL)

	assert.False(t, issued.Exp.Before(before.Add(-time.Second)))
	assert.False(t, issued.Exp.After(after.Add(time.Second)))
}
