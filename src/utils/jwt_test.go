package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsed(t *testing.T, claims jwt.MapClaims) *jwt.Token {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	return token
}

func TestSubjectFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("access token", func(t *testing.T) {
		sub, err := SubjectFromToken(parsed(t, jwt.MapClaims{"sub": "u1", "type": "access", "exp": exp}), "access")
		require.NoError(t, err)
		assert.Equal(t, "u1", sub)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := SubjectFromToken(parsed(t, jwt.MapClaims{"sub": "u1", "type": "refresh", "exp": exp}), "access")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := SubjectFromToken(parsed(t, jwt.MapClaims{"type": "access", "exp": exp}), "access")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("nil token", func(t *testing.T) {
		_, err := SubjectFromToken(nil, "access")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
