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

// ContactModule wires the protected contact routes under /api/contacts.
type ContactModule struct {
	Handler *handlers.ContactHandler
	Users   repo.UserRepository
	Tokens  *helpers.TokenManager
}

func NewContactModule(h *handlers.ContactHandler, users repo.UserRepository, tokens *helpers.TokenManager) *ContactModule {
	return &ContactModule{Handler: h, Users: users, Tokens: tokens}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/contacts")
	auth.Use(middleware.Auth(m.Users, m.Tokens))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/query", m.Handler.Query)
		auth.GET("/upcoming-birthdays", m.Handler.UpcomingBirthdays)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
