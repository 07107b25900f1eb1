package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/classhub/user-service/internal/application"
	"github.com/classhub/user-service/pkg/response"
	"github.com/classhub/user-service/pkg/validation"
)

type LoginHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewLoginHandler(svc *application.Service, logger *logrus.Logger) *LoginHandler {
	return &LoginHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges username/password for a bearer credential.
func (h *LoginHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.Logger.WithField("user_id", u.ID).Info("user logged in")
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  u,
	}, "login successful", map[string]any{"expires_at": exp})
}
