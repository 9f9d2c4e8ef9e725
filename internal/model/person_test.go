package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRight(t *testing.T) {
	for raw, want := range map[string]RightType{
		"Normal":  RightNormal,
		"Admin":   RightAdmin,
		"1":       RightNormal,
		"2":       RightAdmin,
		" Admin ": RightAdmin, // tolerate whitespace from older issuers
	} {
		got, err := ParseRight(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "0", "3", "admin", "NORMAL", "Superuser"} {
		_, err := ParseRight(raw)
		assert.ErrorIs(t, err, ErrUnknownRight, raw)
	}
}

func TestRightString(t *testing.T) {
	assert.Equal(t, "Normal", RightNormal.String())
	assert.Equal(t, "Admin", RightAdmin.String())
}
