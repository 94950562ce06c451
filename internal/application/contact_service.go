package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/contactshub/contacts-api/internal/domain/entity"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
)

var ErrContactNotFound = errors.New("contact not found")

const birthdayWindow = 7 * 24 * time.Hour

// ContactService owns the per-user contact book: CRUD, field search, the
// upcoming-birthdays window, and full-text search via Elasticsearch.
type ContactService struct {
	Contacts repo.ContactRepository
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string
}

func NewContactService(contacts repo.ContactRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ContactService {
	return &ContactService{Contacts: contacts, Logger: logger, ES: es, ESIndex: esIndex}
}

// ContactInput carries caller-supplied contact fields.
type ContactInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Birthday       *time.Time
	AdditionalInfo string
}

func (s *ContactService) Create(ctx context.Context, userID string, in ContactInput) (*entity.Contact, error) {
	c := &entity.Contact{
		UserID:         userID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		Birthday:       in.Birthday,
		AdditionalInfo: in.AdditionalInfo,
	}
	if err := s.Contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	s.indexContact(ctx, c)
	return c, nil
}

func (s *ContactService) List(ctx context.Context, userID string) ([]entity.Contact, error) {
	return s.Contacts.ListByUser(ctx, userID)
}

func (s *ContactService) Get(ctx context.Context, userID, id string) (*entity.Contact, error) {
	c, err := s.Contacts.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, userID, id string, in ContactInput) (*entity.Contact, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
	c.Birthday = in.Birthday
	c.AdditionalInfo = in.AdditionalInfo
	if err := s.Contacts.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	s.indexContact(ctx, c)
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Contacts.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	s.deleteContactDoc(ctx, id)
	return nil
}

// Search filters the user's contacts by substring on first name, last name
// and email. Empty filters are ignored.
func (s *ContactService) Search(ctx context.Context, userID string, f repo.ContactFilter) ([]entity.Contact, error) {
	return s.Contacts.Search(ctx, userID, f)
}

// UpcomingBirthdays returns contacts whose birthday falls between today and
// seven days from now.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID string) ([]entity.Contact, error) {
	today := time.Now().Truncate(24 * time.Hour)
	return s.Contacts.BirthdaysBetween(ctx, userID, today, today.Add(birthdayWindow))
}

func (s *ContactService) indexContact(ctx context.Context, c *entity.Contact) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":              c.ID,
		"user_id":         c.UserID,
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"email":           c.Email,
		"phone":           c.Phone,
		"additional_info": c.AdditionalInfo,
		"updated_at":      c.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("contact_id", c.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("contact_id", c.ID).Warn("es index response error")
	}
}

func (s *ContactService) deleteContactDoc(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("contact_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Query performs a multi_match free-text search over the user's contacts.
func (s *ContactService) Query(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"first_name^2", "last_name^2", "email", "phone", "additional_info"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(cctx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
