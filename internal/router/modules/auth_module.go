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

// AuthModule wires the public authentication routes.
// POST /api/auth/register, POST /api/auth/login, GET /api/auth/verify-email
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repo.UserRepository
	Tokens  *helpers.TokenManager
}

func NewAuthModule(h *handlers.AuthHandler, users repo.UserRepository, tokens *helpers.TokenManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, Tokens: tokens}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.GET("/auth/verify-email", verifyLimiter, m.Handler.VerifyEmail)
}
