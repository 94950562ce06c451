package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash, never plaintext.
//
// IsVerified defaults to false at creation and flips to true exactly once
// through the email verification flow; nothing reverts it.
type User struct {
	ID         string
	Email      string
	Password   string
	FullName   string
	AvatarURL  string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
