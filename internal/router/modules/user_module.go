package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactshub/contacts-api/internal/container"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
	handlers "github.com/contactshub/contacts-api/internal/interface/http"
	"github.com/contactshub/contacts-api/internal/interface/middleware"
	"github.com/contactshub/contacts-api/pkg/helpers"
)

// UserModule wires the protected profile routes.
// GET /api/profile, POST /api/profile/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
	Tokens  *helpers.TokenManager
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository, tokens *helpers.TokenManager) *UserModule {
	return &UserModule{Handler: h, Users: users, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.Tokens))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}
}
