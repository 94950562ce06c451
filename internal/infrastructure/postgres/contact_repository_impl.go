package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactshub/contacts-api/internal/domain/entity"
	"github.com/contactshub/contacts-api/internal/domain/repository"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, user_id, first_name, last_name, email, phone, birthday, additional_info, created_at, updated_at`

func scanContact(row pgx.Row, c *entity.Contact) error {
	return row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Birthday, &c.AdditionalInfo, &c.CreatedAt, &c.UpdatedAt)
}

func collectContacts(rows pgx.Rows) ([]entity.Contact, error) {
	defer rows.Close()
	out := make([]entity.Contact, 0)
	for rows.Next() {
		var c entity.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (user_id, first_name, last_name, email, phone, birthday, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, c.AdditionalInfo)

	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ContactRepository) ListByUser(ctx context.Context, userID string) ([]entity.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

func (r *ContactRepository) GetByID(ctx context.Context, userID, id string) (*entity.Contact, error) {
	c := &entity.Contact{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err := scanContact(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	c.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, phone = $4, birthday = $5,
		    additional_info = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, c.AdditionalInfo,
		c.UpdatedAt, c.ID, c.UserID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM contacts WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Search(ctx context.Context, userID string, f repository.ContactFilter) ([]entity.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1`
	args := []any{userID}
	if f.FirstName != "" {
		args = append(args, "%"+f.FirstName+"%")
		q += ` AND first_name ILIKE $` + strconv.Itoa(len(args))
	}
	if f.LastName != "" {
		args = append(args, "%"+f.LastName+"%")
		q += ` AND last_name ILIKE $` + strconv.Itoa(len(args))
	}
	if f.Email != "" {
		args = append(args, "%"+f.Email+"%")
		q += ` AND email ILIKE $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

func (r *ContactRepository) BirthdaysBetween(ctx context.Context, userID string, from, to time.Time) ([]entity.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = $1 AND birthday IS NOT NULL AND birthday BETWEEN $2 AND $3
		ORDER BY birthday
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
