package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/contactshub/contacts-api/config"
	"github.com/contactshub/contacts-api/internal/domain/entity"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
	"github.com/contactshub/contacts-api/pkg/helpers"
	"github.com/contactshub/contacts-api/pkg/mailer"
	tpl "github.com/contactshub/contacts-api/pkg/mailer/templates"
)

var (
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so login responses do not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidVerifyToken = errors.New("invalid or expired verification token")
)

// VerifyOutcome is the result of a verification confirm.
type VerifyOutcome int

const (
	// Verified means the flag was flipped by this call.
	Verified VerifyOutcome = iota
	// AlreadyVerified means the user was verified before this call; the
	// operation is idempotent and mutates nothing.
	AlreadyVerified
)

const (
	verifyTokenTTL  = 24 * time.Hour
	profileCacheTTL = 5 * time.Minute
)

// AuthService orchestrates registration, login, email verification and
// avatar upload.
type AuthService struct {
	Users     repo.UserRepository
	Tokens    *helpers.TokenManager
	Redis     *redis.Client
	Pub       *helpers.RabbitPublisher
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	Cfg       *config.Config
}

func NewAuthService(users repo.UserRepository, tokens *helpers.TokenManager, rdb *redis.Client, pub *helpers.RabbitPublisher, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:     users,
		Tokens:    tokens,
		Redis:     rdb,
		Pub:       pub,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
		Cfg:       cfg,
	}
}

// LoginResult is the issued bearer token plus its marker and expiry.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register persists a new unverified user and dispatches the verification
// email. Email delivery is fire-and-forget: a publish failure is logged and
// never fails the registration.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, FullName: fullName}
	if err := s.Users.Create(ctx, u); err != nil {
		// repo.ErrDuplicateEmail passes through; the DB constraint is the
		// arbiter under concurrent registrations.
		return nil, err
	}
	s.RequestVerification(ctx, u)
	return u, nil
}

// RequestVerification issues an unguessable verification token, stores the
// token-to-email mapping in Redis, and enqueues the verification email.
func (s *AuthService) RequestVerification(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	tok, err := helpers.GenURLToken(32)
	if err != nil {
		helpers.LogError(s.Logger, "verification token generation failed", err, logrus.Fields{"email": u.Email})
		return
	}
	if err := s.Redis.Set(ctx, helpers.KeyVerifyToken(tok), u.Email, verifyTokenTTL).Err(); err != nil {
		helpers.LogError(s.Logger, "verification token store failed", err, logrus.Fields{"email": u.Email})
		return
	}
	link := s.Cfg.VerifyEmailURL + "?token=" + tok

	if s.Pub == nil || !s.Cfg.MailSendEnabled {
		helpers.LogInfo(s.Logger, "mail sending disabled, skipping verification email", logrus.Fields{"email": u.Email})
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.VerifyEmail,
		Data: map[string]any{
			"FullName":    u.FullName,
			"CompanyName": s.Cfg.CompanyName,
			"VerifyLink":  link,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		helpers.LogError(s.Logger, "verification email enqueue failed", err, logrus.Fields{"email": u.Email})
	}
}

// ConfirmVerification resolves the token to an email and confirms it.
func (s *AuthService) ConfirmVerification(ctx context.Context, token string) (VerifyOutcome, error) {
	if s.Redis == nil {
		return 0, ErrInvalidVerifyToken
	}
	email, err := s.Redis.Get(ctx, helpers.KeyVerifyToken(token)).Result()
	if err != nil || email == "" {
		return 0, ErrInvalidVerifyToken
	}
	// The token stays until its TTL expires so a second click on the same
	// link resolves the email again and reports AlreadyVerified.
	return s.ConfirmEmail(ctx, email)
}

// ConfirmEmail flips the verified flag for the given email. Confirming twice
// is safe: the second call reports AlreadyVerified without touching the record.
func (s *AuthService) ConfirmEmail(ctx context.Context, email string) (VerifyOutcome, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	if u.IsVerified {
		return AlreadyVerified, nil
	}
	if err := s.Users.SetVerified(ctx, u.ID); err != nil {
		return 0, err
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, helpers.KeyUserProfile(u.ID))
	}
	return Verified, nil
}

// Login validates credentials and issues a bearer token whose subject is the
// user's email. Lookup failure and password mismatch are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.Tokens.Issue(u.Email)
	if err != nil {
		helpers.LogError(s.Logger, "token issue failed", err, logrus.Fields{"email": email})
		return nil, err
	}
	return &LoginResult{AccessToken: token, TokenType: "bearer", ExpiresAt: exp}, nil
}

// Profile loads the user by id, reading through a short-lived Redis cache.
// The cached view never carries the password hash.
func (s *AuthService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	if s.Redis != nil {
		var cached entity.User
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, helpers.KeyUserProfile(userID), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	view := *u
	view.Password = ""
	if s.Redis != nil {
		_ = helpers.RedisSetJSON(ctx, s.Redis, helpers.KeyUserProfile(userID), &view, profileCacheTTL)
	}
	return &view, nil
}

// UploadAvatar stores the image in GCS and persists its public URL on the user.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, helpers.KeyUserProfile(u.ID))
	}
	return url, nil
}
