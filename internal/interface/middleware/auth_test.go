package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/contactshub/contacts-api/internal/domain/entity"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
	"github.com/contactshub/contacts-api/pkg/helpers"
	"github.com/contactshub/contacts-api/pkg/response"
)

type stubUserRepo struct {
	byEmail map[string]*entity.User
}

func (r *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (r *stubUserRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (r *stubUserRepo) Update(context.Context, *entity.User) error { return nil }
func (r *stubUserRepo) SetVerified(context.Context, string) error  { return nil }

var _ repo.UserRepository = (*stubUserRepo)(nil)

func newAuthRouter(users repo.UserRepository, tokens *helpers.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(users, tokens), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			response.Error[any](c, http.StatusInternalServerError, "no user in context", nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{
			"email":   u.Email,
			"user_id": c.GetString(CtxUserIDKey),
		}, "ok", nil)
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsUniformly(t *testing.T) {
	tokens := &helpers.TokenManager{Secret: []byte("test-secret"), TTL: 30 * time.Minute}
	users := &stubUserRepo{byEmail: map[string]*entity.User{
		"alice@example.com": {ID: "u-1", Email: "alice@example.com"},
	}}
	r := newAuthRouter(users, tokens)

	expiredTokens := &helpers.TokenManager{Secret: []byte("test-secret"), TTL: -time.Minute}
	expired, _, err := expiredTokens.Issue("alice@example.com")
	require.NoError(t, err)

	unknown, _, err := tokens.Issue("nobody@example.com")
	require.NoError(t, err)

	otherSecret := &helpers.TokenManager{Secret: []byte("other-secret"), TTL: 30 * time.Minute}
	forged, _, err := otherSecret.Issue("alice@example.com")
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":  "",
		"not bearer":      "Basic abc123",
		"malformed token": "Bearer not-a-jwt",
		"expired token":   "Bearer " + expired,
		"unknown subject": "Bearer " + unknown,
		"wrong signature": "Bearer " + forged,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := doRequest(r, header)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.False(t, body.Success)
			require.Equal(t, "unauthorized", body.Message)
		})
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	tokens := &helpers.TokenManager{Secret: []byte("test-secret"), TTL: 30 * time.Minute}
	users := &stubUserRepo{byEmail: map[string]*entity.User{
		"alice@example.com": {ID: "u-1", Email: "alice@example.com", FullName: "Alice A"},
	}}
	r := newAuthRouter(users, tokens)

	token, _, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Email  string `json:"email"`
			UserID string `json:"user_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "alice@example.com", body.Data.Email)
	require.Equal(t, "u-1", body.Data.UserID)
}

func TestBearerTokenCaseInsensitiveScheme(t *testing.T) {
	tokens := &helpers.TokenManager{Secret: []byte("test-secret"), TTL: 30 * time.Minute}
	users := &stubUserRepo{byEmail: map[string]*entity.User{
		"alice@example.com": {ID: "u-1", Email: "alice@example.com"},
	}}
	r := newAuthRouter(users, tokens)

	token, _, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)

	w := doRequest(r, "bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
}
