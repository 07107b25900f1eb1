package router

import (
	appuser "github.com/classhub/user-service/internal/application"
	"github.com/classhub/user-service/internal/container"
	repouser "github.com/classhub/user-service/internal/domain/repository"
	pginfra "github.com/classhub/user-service/internal/infrastructure/postgres"
	handlers "github.com/classhub/user-service/internal/interface/http"
	"github.com/classhub/user-service/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
	Login   *handlers.LoginHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := appuser.NewService(
		repo,
		container.GetPublisher(),
		container.GetCodec(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		appuser.Topics{
			DataEvents:   cfg.DataEventsTopic,
			DomainEvents: cfg.DomainEventsTopic,
		},
	)

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handlers.NewUserHandler(service, container.GetLogger()),
		Login:   handlers.NewLoginHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, userDeps.Login))
	r.Add(modules.NewDebugModule())
}
