package router

import (
	"github.com/contactshub/contacts-api/internal/application"
	"github.com/contactshub/contacts-api/internal/container"
	pginfra "github.com/contactshub/contacts-api/internal/infrastructure/postgres"
	handlers "github.com/contactshub/contacts-api/internal/interface/http"
	"github.com/contactshub/contacts-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	contactRepo := pginfra.NewContactRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		userRepo,
		container.GetTokens(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetLogger(),
		cfg,
	)
	contactSvc := application.NewContactService(
		contactRepo,
		container.GetLogger(),
		container.GetES(),
		cfg.ESContactsIndex,
	)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger())
	userHandler := handlers.NewUserHandler(authSvc, container.GetLogger())
	contactHandler := handlers.NewContactHandler(contactSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, userRepo, container.GetTokens()))
	r.Add(modules.NewUserModule(userHandler, userRepo, container.GetTokens()))
	r.Add(modules.NewContactModule(contactHandler, userRepo, container.GetTokens()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
