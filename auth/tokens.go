// Package auth holds the credential primitives: password hashing and
// signed session tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus is the outcome of decoding a bearer token. Callers must
// branch on every variant; anything but TokenValid is an auth failure.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenMissing
	TokenExpired
	TokenInvalid
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenMissing:
		return "missing"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Claims are the verified contents of a session token.
type Claims struct {
	Subject   string // the user's email
	ExpiresAt time.Time
}

// TokenManager issues and decodes HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token with the user's email as subject and a
// fixed expiry.
func (m *TokenManager) Issue(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	return token.SignedString(m.secret)
}

// Decode verifies signature and expiry. An empty token string decodes to
// TokenMissing so header-extraction failures share the same result type.
func (m *TokenManager) Decode(tokenString string) (*Claims, TokenStatus) {
	if tokenString == "" {
		return nil, TokenMissing
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, TokenExpired
		}
		return nil, TokenInvalid
	}
	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, TokenInvalid
	}

	return &Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, TokenValid
}
