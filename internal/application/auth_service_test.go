package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/contactshub/contacts-api/config"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
	"github.com/contactshub/contacts-api/pkg/helpers"
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func newTestAuthService() (*AuthService, *memoryUserRepo) {
	users := newMemoryUserRepo()
	tokens := &helpers.TokenManager{Secret: []byte("test-secret"), TTL: 30 * time.Minute}
	cfg := &config.Config{VerifyEmailURL: "http://localhost/verify", CompanyName: "Contacts"}
	svc := NewAuthService(users, tokens, nil, nil, nil, "", helpers.NewLogger("test", "test"), cfg)
	return svc, users
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "pw12345678", "Alice A")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.False(t, u.IsVerified)
	require.NotEqual(t, "pw12345678", u.Password)

	res, err := svc.Login(ctx, "alice@example.com", "pw12345678")
	require.NoError(t, err)
	require.Equal(t, "bearer", res.TokenType)

	subject, err := svc.Tokens.Validate(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "pw12345678", "Alice A")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "other-password", "Another Alice")
	require.ErrorIs(t, err, repo.ErrDuplicateEmail)
}

func TestLoginInvalidCredentialsUniform(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "pw12345678", "Alice A")
	require.NoError(t, err)

	// unknown email and wrong password fail identically
	_, errUnknown := svc.Login(ctx, "nobody@example.com", "pw12345678")
	_, errWrongPw := svc.Login(ctx, "alice@example.com", "wrong-password")
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
}

func TestConfirmEmailIdempotent(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "pw12345678", "Alice A")
	require.NoError(t, err)

	outcome, err := svc.ConfirmEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, Verified, outcome)

	outcome, err = svc.ConfirmEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, AlreadyVerified, outcome)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, stored.IsVerified)
}

func TestConfirmEmailUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.ConfirmEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterLoginVerifyScenario(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "pw123456", "Alice A")
	require.NoError(t, err)
	require.False(t, u.IsVerified)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	subject, err := svc.Tokens.Validate(res.AccessToken)
	require.NoError(t, err)

	resolved, err := svc.Users.GetByEmail(ctx, subject)
	require.NoError(t, err)
	require.Equal(t, "Alice A", resolved.FullName)
	require.False(t, resolved.IsVerified)

	outcome, err := svc.ConfirmEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, Verified, outcome)

	resolved, err = svc.Users.GetByEmail(ctx, subject)
	require.NoError(t, err)
	require.True(t, resolved.IsVerified)
}

func TestProfileUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Profile(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func newRedisBackedAuthService(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	svc, _ := newTestAuthService()
	svc.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return svc, mr
}

func storedVerifyToken(t *testing.T, mr *miniredis.Miniredis) string {
	t.Helper()
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "email:verify:token:") {
			return strings.TrimPrefix(k, "email:verify:token:")
		}
	}
	t.Fatal("no verification token stored")
	return ""
}

func TestConfirmVerificationLinkReusable(t *testing.T) {
	svc, mr := newRedisBackedAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "pw12345678", "Alice A")
	require.NoError(t, err)

	tok := storedVerifyToken(t, mr)

	outcome, err := svc.ConfirmVerification(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, Verified, outcome)

	// clicking the same link again must not fail
	outcome, err = svc.ConfirmVerification(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, AlreadyVerified, outcome)
}

func TestConfirmVerificationUnknownToken(t *testing.T) {
	svc, _ := newRedisBackedAuthService(t)

	_, err := svc.ConfirmVerification(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrInvalidVerifyToken)
}

func TestProfileCacheOmitsPasswordHash(t *testing.T) {
	svc, mr := newRedisBackedAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "pw12345678", "Alice A")
	require.NoError(t, err)

	p, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", p.Email)
	require.Empty(t, p.Password)

	raw, err := mr.Get(helpers.KeyUserProfile(u.ID))
	require.NoError(t, err)
	require.NotContains(t, raw, "$2a$")

	// second read is served from the cache
	mr.Set(helpers.KeyUserProfile(u.ID), strings.Replace(raw, "Alice A", "Cached A", 1))
	p, err = svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Cached A", p.FullName)
}

func TestVerificationInvalidatesProfileCache(t *testing.T) {
	svc, mr := newRedisBackedAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "pw12345678", "Alice A")
	require.NoError(t, err)

	p, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, p.IsVerified)

	tok := storedVerifyToken(t, mr)
	_, err = svc.ConfirmVerification(ctx, tok)
	require.NoError(t, err)

	p, err = svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, p.IsVerified)
}
