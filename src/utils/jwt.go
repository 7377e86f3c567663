package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// SubjectFromToken returns the subject of a verified token whose type claim
// matches tokenType.
func SubjectFromToken(token *jwt.Token, tokenType string) (string, error) {
	if token == nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	if typ, _ := claims["type"].(string); typ != tokenType {
		return "", ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
