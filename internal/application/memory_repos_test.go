package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contactshub/contacts-api/internal/domain/entity"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
)

// memoryUserRepo mimics the Postgres repository including the
// email uniqueness constraint.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // keyed by id
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*entity.User{}}
}

func (r *memoryUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memoryUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.FullName = u.FullName
	stored.AvatarURL = u.AvatarURL
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepo) SetVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	stored.IsVerified = true
	return nil
}

var _ repo.UserRepository = (*memoryUserRepo)(nil)

type memoryContactRepo struct {
	mu       sync.Mutex
	contacts map[string]*entity.Contact
}

func newMemoryContactRepo() *memoryContactRepo {
	return &memoryContactRepo{contacts: map[string]*entity.Contact{}}
}

func (r *memoryContactRepo) Create(_ context.Context, c *entity.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

func (r *memoryContactRepo) ListByUser(_ context.Context, userID string) ([]entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Contact, 0)
	for _, c := range r.contacts {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memoryContactRepo) GetByID(_ context.Context, userID, id string) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.contacts[id]; ok && c.UserID == userID {
		cp := *c
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (r *memoryContactRepo) Update(_ context.Context, c *entity.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.contacts[c.ID]
	if !ok || stored.UserID != c.UserID {
		return repo.ErrNotFound
	}
	cp := *c
	cp.UpdatedAt = time.Now()
	r.contacts[c.ID] = &cp
	return nil
}

func (r *memoryContactRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.contacts[id]; ok && c.UserID == userID {
		delete(r.contacts, id)
		return nil
	}
	return repo.ErrNotFound
}

func (r *memoryContactRepo) Search(_ context.Context, userID string, f repo.ContactFilter) ([]entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Contact, 0)
	for _, c := range r.contacts {
		if c.UserID != userID {
			continue
		}
		if f.FirstName != "" && !containsFold(c.FirstName, f.FirstName) {
			continue
		}
		if f.LastName != "" && !containsFold(c.LastName, f.LastName) {
			continue
		}
		if f.Email != "" && !containsFold(c.Email, f.Email) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *memoryContactRepo) BirthdaysBetween(_ context.Context, userID string, from, to time.Time) ([]entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Contact, 0)
	for _, c := range r.contacts {
		if c.UserID != userID || c.Birthday == nil {
			continue
		}
		if c.Birthday.Before(from) || c.Birthday.After(to) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

var _ repo.ContactRepository = (*memoryContactRepo)(nil)
