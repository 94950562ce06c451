package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// KeyVerifyToken is the Redis key mapping a verification token to an email
func KeyVerifyToken(t string) string { return "email:verify:token:" + t }

// KeyUserProfile is the Redis key caching a user's profile
func KeyUserProfile(uid string) string { return "user:profile:" + uid }

// GenURLToken generates n random bytes encoded URL-safe without padding
func GenURLToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
