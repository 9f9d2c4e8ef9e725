package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboards/adboards-api/internal/model"
)

func TestFromMapClaims(t *testing.T) {
	cases := []struct {
		name    string
		mc      jwt.MapClaims
		wantID  uint64
		wantErr error
	}{
		{
			name:   "id as number",
			mc:     jwt.MapClaims{"id": float64(5)},
			wantID: 5,
		},
		{
			name:   "id as numeric string",
			mc:     jwt.MapClaims{"id": "17"},
			wantID: 17,
		},
		{
			name:   "sub fallback when id missing",
			mc:     jwt.MapClaims{"sub": float64(9)},
			wantID: 9,
		},
		{
			name:   "id preferred over sub",
			mc:     jwt.MapClaims{"id": float64(3), "sub": float64(8)},
			wantID: 3,
		},
		{
			name:    "no usable id",
			mc:      jwt.MapClaims{"email": "x@y.z"},
			wantErr: ErrNoSubject,
		},
		{
			name:    "negative number",
			mc:      jwt.MapClaims{"id": float64(-1)},
			wantErr: ErrNoSubject,
		},
		{
			name:    "non-numeric string",
			mc:      jwt.MapClaims{"sub": "ivan"},
			wantErr: ErrNoSubject,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := FromMapClaims(tc.mc)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, c.PersonID)
		})
	}
}

func TestRightParsingIsDeferred(t *testing.T) {
	// A token with a broken right claim still yields usable claims; only
	// Right() fails.
	c, err := FromMapClaims(jwt.MapClaims{
		"id":      float64(1),
		"login":   "ivan",
		"rightId": "Superuser",
	})
	require.NoError(t, err)
	assert.Equal(t, "ivan", c.Login)

	_, err = c.Right()
	assert.ErrorIs(t, err, ErrBadRightClaim)
	assert.False(t, c.IsAdmin())
}

func TestRightAcceptsNameAndNumericForm(t *testing.T) {
	for raw, want := range map[string]model.RightType{
		"Normal": model.RightNormal,
		"Admin":  model.RightAdmin,
		"1":      model.RightNormal,
		"2":      model.RightAdmin,
	} {
		c, err := FromMapClaims(jwt.MapClaims{"id": float64(1), "rightId": raw})
		require.NoError(t, err)
		r, err := c.Right()
		require.NoError(t, err, raw)
		assert.Equal(t, want, r, raw)
	}
}

func TestMissingRightClaim(t *testing.T) {
	c, err := FromMapClaims(jwt.MapClaims{"id": float64(1)})
	require.NoError(t, err)
	_, err = c.Right()
	assert.ErrorIs(t, err, ErrBadRightClaim)
}

func TestNewClaims(t *testing.T) {
	c := NewClaims(12, "a@b.c", "ivan", model.RightAdmin)
	assert.Equal(t, uint64(12), c.PersonID)
	assert.True(t, c.IsAdmin())
}
