// Package auth issues and verifies the HS256 access tokens that identify
// document owners. The owner id is the token subject.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs a token for ownerID that expires after validity.
func GenerateToken(ownerID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ownerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	})
	return token.SignedString(secretKey)
}

// OwnerFromToken verifies tokenString and returns its subject. Tokens
// without a subject, or issued for the anonymous owner, are rejected.
func OwnerFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" || common.IsAnonymous(claims.Subject) {
		return "", fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	return claims.Subject, nil
}
