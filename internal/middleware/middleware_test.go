package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
)

type fakeAuth struct {
	sessions map[string]*model.AdminSession
}

func (f *fakeAuth) Login(context.Context, model.LoginRequest) (*model.TokenResponse, error) {
	return nil, nil
}

func (f *fakeAuth) Resolve(_ context.Context, bearer string) (*model.AdminSession, model.SessionStatus) {
	if sess, ok := f.sessions[bearer]; ok {
		return sess, model.SessionStatus{State: model.SessionAuthenticated, Email: sess.Email}
	}
	return nil, model.SessionStatus{State: model.SessionUnauthenticated, Redirect: model.LoginRoute}
}

func (f *fakeAuth) Logout(context.Context, *model.AdminSession) error {
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthMiddleware(&fakeAuth{sessions: map[string]*model.AdminSession{
		"good": {ID: "s1", Email: "admin@example.com", Secret: "remote-secret"},
	}})

	r := gin.New()
	r.GET("/protected", auth.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email":  c.GetString(ContextAdminEmail),
			"secret": repository.SessionSecret(c.Request.Context()),
			"sid":    CurrentSession(c).ID,
		})
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"email":"admin@example.com","secret":"remote-secret","sid":"s1"}`, w.Body.String())
	})

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic good",
		"unknown token":  "Bearer bad",
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"redirect":"/login"`)
			assert.Contains(t, w.Body.String(), `"state":"unauthenticated"`)
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig("https://console.example.com")))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://console.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(SizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewClientRateLimiter(2, time.Minute).RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(nopLogger()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}

func TestCustomValidators(t *testing.T) {
	RegisterValidators()

	r := gin.New()
	r.POST("/services", func(c *gin.Context) {
		var form model.ServiceForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})
	r.PUT("/status", func(c *gin.Context) {
		var req model.UpdateProviderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	send := func(method, path, body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, send(http.MethodPost, "/services", `{"name":"A","service":"a","icon":"spa","color":"#a1b2c3"}`))
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/services", `{"name":"A","service":"a","icon":"spa","color":"red"}`))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/services", `{"name":"A","service":"a","icon":"spa","color":"a1b2c3"}`))
	assert.Equal(t, http.StatusOK, send(http.MethodPut, "/status", `{"status":"approved"}`))
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPut, "/status", `{"status":"archived"}`))
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
