package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers signature mismatch, unparseable payload and a
	// missing subject claim.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken covers tokens past their expiry. A token with no exp
	// claim at all is treated as already expired, not as non-expiring.
	ErrExpiredToken = errors.New("expired token")
)

// TokenManager issues and validates signed bearer tokens. Tokens are
// self-contained: the subject (the user's email) and the expiry live in the
// token itself and there is no server-side session or revocation list.
// Rotating the secret invalidates every outstanding token.
type TokenManager struct {
	Secret []byte
	TTL    time.Duration
}

var defaultManager *TokenManager

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	m := &TokenManager{Secret: []byte(secret), TTL: ttl}
	defaultManager = m
	return m
}

// DefaultTokenManager returns the last constructed TokenManager (used for auto-wiring routes)
func DefaultTokenManager() *TokenManager { return defaultManager }

// Issue produces a signed token asserting subject, expiring TTL from now.
func (m *TokenManager) Issue(subject string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Validate checks the signature and expiry and returns the subject claim.
func (m *TokenManager) Validate(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenRequiredClaimMissing) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
