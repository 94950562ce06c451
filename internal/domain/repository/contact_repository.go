package repository

import (
	"context"
	"time"

	"github.com/contactshub/contacts-api/internal/domain/entity"
)

// ContactFilter holds optional substring filters for contact search.
// Empty fields are ignored.
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// ContactRepository defines user-scoped contact persistence. Every method
// takes the owning user id; rows belonging to other users are invisible.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	ListByUser(ctx context.Context, userID string) ([]entity.Contact, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Contact, error)
	Update(ctx context.Context, c *entity.Contact) error
	Delete(ctx context.Context, userID, id string) error
	Search(ctx context.Context, userID string, f ContactFilter) ([]entity.Contact, error)
	BirthdaysBetween(ctx context.Context, userID string, from, to time.Time) ([]entity.Contact, error)
}
