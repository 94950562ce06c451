package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contactshub/contacts-api/internal/domain/entity"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
	"github.com/contactshub/contacts-api/pkg/helpers"
	"github.com/contactshub/contacts-api/pkg/response"
)

const (
	CtxUserKey   = "authUser"
	CtxUserIDKey = "userID"
)

// unauthorizedMsg is the single message for every authentication failure.
// Missing header, bad signature, expired token and unknown subject must be
// indistinguishable to the caller.
const unauthorizedMsg = "unauthorized"

// Auth extracts the bearer token from the Authorization header, validates it,
// resolves the subject email to a user, and stores the user in the context.
func Auth(users repo.UserRepository, tokens *helpers.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}
		subject, err := tokens.Validate(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), subject)
		if err != nil || u == nil {
			abortUnauthorized(c)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context) {
	response.Error[any](c, http.StatusUnauthorized, unauthorizedMsg, nil)
	c.Abort()
}

// CurrentUser returns the authenticated user stored by Auth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
