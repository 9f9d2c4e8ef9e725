package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetToken is a single-use password recovery token. The Raw value is
// mailed to the person; only its SHA-256 hash is ever stored, so a leaked
// database row cannot be used to reset a password.
type ResetToken struct {
	Raw string    // raw token string delivered by email
	Exp time.Time // UTC expiration time
}

// NewResetToken returns a cryptographically random recovery token valid for
// the given duration.
func NewResetToken(ttl time.Duration) (ResetToken, error) {
	raw, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return ResetToken{}, err
	}
	return ResetToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(ttl),
	}, nil
}

// HashResetRaw returns the SHA-256 hex digest stored in place of the raw
// reset token.
func HashResetRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
