package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classhub/user-service/internal/container"
	handlers "github.com/classhub/user-service/internal/interface/http"
	"github.com/classhub/user-service/internal/interface/middleware"
)

// UserModule wires the user HTTP handlers into routes.
// Public: POST /api/login (rate-limited per IP).
// The /api/users routes resolve the caller identity from the bearer token;
// mutation authorization is decided in the application layer, not here.

type UserModule struct {
	Handler *handlers.UserHandler
	Login   *handlers.LoginHandler
}

func NewUserModule(h *handlers.UserHandler, l *handlers.LoginHandler) *UserModule {
	return &UserModule{Handler: h, Login: l}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	rg.POST("/login", loginLimiter, m.Login.Login)

	users := rg.Group("/users")
	users.Use(middleware.Identify(container.GetCodec()))
	{
		users.GET("", m.Handler.List)
		users.POST("", m.Handler.Create)
		users.GET("/search", m.Handler.Search)
		users.GET("/:userId", m.Handler.Get)
		users.PUT("/:userId", m.Handler.Update)
		users.DELETE("/:userId", m.Handler.Delete)
	}
}
