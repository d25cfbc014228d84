// Package auth provides JWT issuance and validation for the login flow.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthenticator signs and validates HS256 tokens bound to one issuer.
type JWTAuthenticator struct {
	issuer string
	secret string
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(issuer, secret string) JWTAuthenticator {
	return JWTAuthenticator{
		issuer: issuer,
		secret: secret,
	}
}

// Issuer returns the issuer stamped on generated tokens.
func (a *JWTAuthenticator) Issuer() string {
	return a.issuer
}

// GenerateToken generates a JWT token with the given claims.
func (a *JWTAuthenticator) GenerateToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateTokenWithClaims validates a JWT token and parses it into the
// provided claims type. The claims parameter should be a pointer to a
// struct that implements jwt.Claims.
func (a *JWTAuthenticator) ValidateTokenWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return token, nil
}

// Claims carries the identity embedded in a login token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
