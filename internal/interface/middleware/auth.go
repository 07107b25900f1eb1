package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/classhub/user-service/internal/application"
	"github.com/classhub/user-service/pkg/helpers"
	"github.com/classhub/user-service/pkg/response"
)

// CtxClaimsKey is the Gin context key holding the decoded bearer claims.
const CtxClaimsKey = "authClaims"

// Identify reconstructs the requester identity from the Authorization header.
// A missing or malformed header leaves the request anonymous; a present
// bearer credential that fails validation is rejected as unauthenticated.
// Validation is self-contained: no store lookup on the hot path.
func Identify(codec *helpers.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.Next()
			return
		}
		claims, err := codec.Validate(raw)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		c.Set(CtxClaimsKey, claims)
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// RequesterFrom returns the identity attached to the request, or the
// anonymous requester when no valid credential was presented.
func RequesterFrom(c *gin.Context) application.Requester {
	if v, ok := c.Get(CtxClaimsKey); ok {
		if claims, ok := v.(*helpers.AuthClaims); ok {
			return claims
		}
	}
	return application.Anonymous{}
}
