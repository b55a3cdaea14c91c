package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/internal/email"
	"github.com/jwalitptl/marketplace-admin/internal/handler"
	accountHandler "github.com/jwalitptl/marketplace-admin/internal/handler/account"
	appointmentHandler "github.com/jwalitptl/marketplace-admin/internal/handler/appointment"
	authHandler "github.com/jwalitptl/marketplace-admin/internal/handler/auth"
	catalogHandler "github.com/jwalitptl/marketplace-admin/internal/handler/catalog"
	dashboardHandler "github.com/jwalitptl/marketplace-admin/internal/handler/dashboard"
	patientHandler "github.com/jwalitptl/marketplace-admin/internal/handler/patient"
	providerHandler "github.com/jwalitptl/marketplace-admin/internal/handler/provider"
	"github.com/jwalitptl/marketplace-admin/internal/middleware"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository/repotest"
	"github.com/jwalitptl/marketplace-admin/internal/service/account"
	"github.com/jwalitptl/marketplace-admin/internal/service/appointment"
	"github.com/jwalitptl/marketplace-admin/internal/service/auth"
	"github.com/jwalitptl/marketplace-admin/internal/service/catalog"
	"github.com/jwalitptl/marketplace-admin/internal/service/patient"
	"github.com/jwalitptl/marketplace-admin/internal/service/provider"
	"github.com/jwalitptl/marketplace-admin/internal/service/stats"
	"github.com/jwalitptl/marketplace-admin/internal/session"
	token "github.com/jwalitptl/marketplace-admin/pkg/auth"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
	"github.com/jwalitptl/marketplace-admin/pkg/logger"
	"github.com/jwalitptl/marketplace-admin/pkg/messaging"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

const adminEmail = "admin@example.com"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	m := metrics.NewNop()

	store := repotest.NewDocumentStore()
	store.Seed("providers", model.Document{"$id": "p1", "name": "Sara Khan", "status": "pending"})
	store.Seed("patients", model.Document{"$id": "u1", "name": "Bilal"})

	accounts := &repotest.AccountGateway{
		Password:   "secret-pass",
		Session:    &model.RemoteSession{ID: "remote-1", UserID: "u-admin", Secret: "s3cr3t"},
		HasSession: true,
		Account:    &model.Account{ID: "u-admin", Email: adminEmail},
	}
	sessions, err := session.NewMemoryStore("router-test-key", m)
	require.NoError(t, err)
	jwt, err := token.NewJWTService("router-test-secret", "marketplace-admin", time.Hour)
	require.NoError(t, err)

	authSvc := auth.NewService(adminEmail, accounts, sessions, jwt, m, log)
	tracker := event.NewEventTrackerMiddleware(
		event.NewPublisher(messaging.NewLogBroker(log), "admin.events", m), nil, log)

	r := NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		Handlers{
			Auth:        authHandler.NewHandler(authSvc, middleware.NewClientRateLimiter(5, time.Minute).RateLimit()),
			Account:     accountHandler.NewHandler(account.NewService(accounts, log)),
			Dashboard:   dashboardHandler.NewHandler(stats.NewService(store, &repotest.FileStore{}, stats.Config{Collections: stats.Collections{Providers: "providers", Appointments: "appointments", Patients: "patients"}, Bucket: "files", PageSize: 100, ListLimit: 500}, m, log)),
			Provider:    providerHandler.NewHandler(provider.NewService(store, "providers", 500, email.NewLogService(log), m, log)),
			Patient:     patientHandler.NewHandler(patient.NewService(store, "patients", 500, m, log)),
			Appointment: appointmentHandler.NewHandler(appointment.NewService(store, "appointments", 500, m, log)),
			Catalog:     catalogHandler.NewHandler(catalog.NewService(store, "services", 500, []string{"healing"}, m, log)),
			Health:      handler.NewHandler(prometheus.NewRegistry(), nil),
		},
		tracker,
		RouterConfig{
			Timeout:    5 * time.Second,
			Registerer: prometheus.NewRegistry(),
			Logger:     log,
		},
	)
	r.Setup()
	return r.Engine()
}

func request(r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := request(r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"admin@example.com","password":"secret-pass"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data model.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func TestUnknownRouteIsJSON(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"not found"}`, w.Body.String())
}

func TestLiveness(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodGet, "/api/v1/health/live", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.0", w.Header().Get("X-API-Version"))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodGet, "/api/v1/providers", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)

	w = request(r, http.MethodGet, "/api/v1/providers", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginThenBrowse(t *testing.T) {
	r := newTestRouter(t)
	accessToken := login(t, r)

	w := request(r, http.MethodGet, "/api/v1/providers", "", accessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Sara Khan")

	w = request(r, http.MethodGet, "/api/v1/dashboard/stats", "", accessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(r, http.MethodPost, "/api/v1/providers/p1/approve", "", accessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(r, http.MethodPost, "/api/v1/auth/logout", "", accessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(r, http.MethodGet, "/api/v1/providers", "", accessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsOtherAccounts(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"someone@example.com","password":"secret-pass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
