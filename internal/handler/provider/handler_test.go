package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/internal/email"
	"github.com/jwalitptl/marketplace-admin/internal/middleware"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository/repotest"
	"github.com/jwalitptl/marketplace-admin/internal/service/provider"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
	"github.com/jwalitptl/marketplace-admin/pkg/logger"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

type recordingEvents struct {
	events []*event.Event
}

func (r *recordingEvents) Emit(_ context.Context, e *event.Event) error {
	r.events = append(r.events, e)
	return nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T) (*gin.Engine, *repotest.DocumentStore, *recordingEvents) {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()

	store := repotest.NewDocumentStore()
	store.Seed("providers",
		model.Document{"$id": "p1", "name": "Sara Khan", "email": "sara@example.com", "status": "pending"},
		model.Document{"$id": "p2", "name": "Ali Raza", "email": "ali@example.com", "status": "approved"},
	)
	svc := provider.NewService(store, "providers", 500, email.NewLogService(logger.Nop()), metrics.NewNop(), logger.Nop())

	events := &recordingEvents{}
	tracker := event.NewEventTrackerMiddleware(events, map[string][]string{"PROVIDER": {"status"}}, logger.Nop())

	r := gin.New()
	NewHandler(svc).RegisterRoutesWithEvents(r.Group("/api/v1"), tracker)
	return r, store, events
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestListProvidersWithFilter(t *testing.T) {
	r, _, _ := setup(t)

	code, env := do(t, r, http.MethodGet, "/api/v1/providers?status=pending", "")
	require.Equal(t, http.StatusOK, code)

	var snap struct {
		Items []model.ServiceProvider `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "p1", snap.Items[0].ID)

	code, _ = do(t, r, http.MethodGet, "/api/v1/providers?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListFailureReturnsStaleItems(t *testing.T) {
	r, store, _ := setup(t)
	code, _ := do(t, r, http.MethodGet, "/api/v1/providers", "")
	require.Equal(t, http.StatusOK, code)

	store.Errors["list"] = errors.Upstream("Server Error", nil)
	code, env := do(t, r, http.MethodGet, "/api/v1/providers", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Server Error", env.Message)

	var snap struct {
		Items []model.ServiceProvider `json:"items"`
		Error string                  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, "Server Error", snap.Error)
}

func TestApproveEmitsEvent(t *testing.T) {
	r, store, events := setup(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/providers/p1/approve", "")
	require.Equal(t, http.StatusOK, code, env.Message)

	var change provider.StatusChange
	require.NoError(t, json.Unmarshal(env.Data, &change))
	assert.Equal(t, model.ProviderStatusPending, change.From)
	assert.Equal(t, model.ProviderStatusApproved, change.To)
	assert.Len(t, store.CallsOf("update"), 1)

	require.Len(t, events.events, 1)
	e := events.events[0]
	assert.Equal(t, event.EventType("PROVIDER_APPROVE"), e.Type)
	assert.Equal(t, "p1", e.EntityID)
	assert.Contains(t, e.Changes, "status")
}

func TestSameStatusIsConflict(t *testing.T) {
	r, store, events := setup(t)

	code, _ := do(t, r, http.MethodPost, "/api/v1/providers/p2/approve", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Empty(t, store.CallsOf("update"))
	assert.Empty(t, events.events)
}

func TestUpdateStatusValidatesBody(t *testing.T) {
	r, _, _ := setup(t)

	code, _ := do(t, r, http.MethodPut, "/api/v1/providers/p1/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := do(t, r, http.MethodPut, "/api/v1/providers/p1/status", `{"status":"Rejected"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
}

func TestGetUnknownProvider(t *testing.T) {
	r, _, _ := setup(t)

	code, env := do(t, r, http.MethodGet, "/api/v1/providers/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", env.Status)
}
