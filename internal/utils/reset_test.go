package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	tok, err := NewResetToken(30 * time.Minute)
	require.NoError(t, err)
	assert.Len(t, tok.Raw, 64)
	assert.True(t, tok.Exp.After(time.Now().UTC().Add(29*time.Minute)))

	other, err := NewResetToken(30 * time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, tok.Raw, other.Raw)
}

func TestHashResetRaw(t *testing.T) {
	h := HashResetRaw("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashResetRaw("abc"))
	assert.NotEqual(t, h, HashResetRaw("abd"))
	assert.NotEqual(t, "abc", h)
}
