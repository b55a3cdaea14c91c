package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/internal/service/auth"
)

const (
	ContextSession    = "admin_session"
	ContextAdminEmail = "admin_email"
)

type AuthMiddleware struct {
	authService auth.AuthService
}

func NewAuthMiddleware(authService auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate resolves the bearer token to a live admin session and binds
// its remote secret to the request context. Anything else is answered with
// 401 and a redirect to the login route.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, status := m.authService.Resolve(c.Request.Context(), BearerToken(c))
		if status.State != model.SessionAuthenticated || sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponseWithData("unauthorized", status))
			return
		}

		c.Set(ContextSession, sess)
		c.Set(ContextAdminEmail, sess.Email)
		c.Request = c.Request.WithContext(repository.WithSessionSecret(c.Request.Context(), sess.Secret))
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentSession returns the session set by Authenticate.
func CurrentSession(c *gin.Context) *model.AdminSession {
	if v, ok := c.Get(ContextSession); ok {
		if sess, ok := v.(*model.AdminSession); ok {
			return sess
		}
	}
	return nil
}
