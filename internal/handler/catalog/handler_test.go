package catalog

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

	"github.com/jwalitptl/marketplace-admin/internal/middleware"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository/repotest"
	"github.com/jwalitptl/marketplace-admin/internal/service/catalog"
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

func setup(t *testing.T) (*gin.Engine, *repotest.DocumentStore, *recordingEvents) {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()

	store := repotest.NewDocumentStore()
	store.Seed("services", model.Document{
		"$id": "s1", "name": "Nursing", "service": "nursing",
		"icon": "medical_services", "color": "0xFF112233", "bgColor": "0xFFFFFFFF",
	})
	svc := catalog.NewService(store, "services", 500, []string{"medical_services", "healing"}, metrics.NewNop(), logger.Nop())

	events := &recordingEvents{}
	tracker := event.NewEventTrackerMiddleware(events, map[string][]string{"SERVICE": {"name", "color", "bgColor"}}, logger.Nop())

	r := gin.New()
	NewHandler(svc).RegisterRoutesWithEvents(r.Group("/api/v1"), tracker)
	return r, store, events
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateService(t *testing.T) {
	r, store, events := setup(t)

	w := send(r, http.MethodPost, "/api/v1/services",
		`{"name":"Physio","service":"physiotherapy","icon":"healing","color":"#aa00ff"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data model.Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "0xFFAA00FF", resp.Data.Color)
	assert.Equal(t, "0xFFFFFFFF", resp.Data.BgColor)

	calls := store.CallsOf("create")
	require.Len(t, calls, 1)
	require.Len(t, events.events, 1)
	assert.Equal(t, resp.Data.ID, events.events[0].EntityID)
}

func TestCreateServiceRejectsBadInput(t *testing.T) {
	r, store, events := setup(t)

	w := send(r, http.MethodPost, "/api/v1/services",
		`{"name":"Physio","service":"physiotherapy","icon":"healing","color":"red"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "color")

	w = send(r, http.MethodPost, "/api/v1/services",
		`{"name":"Physio","service":"physiotherapy","icon":"rocket"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, store.CallsOf("create"))
	assert.Empty(t, events.events)
}

func TestFormUsesWebColors(t *testing.T) {
	r, _, _ := setup(t)

	w := send(r, http.MethodGet, "/api/v1/services/s1/form", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data model.ServiceForm `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "#112233", resp.Data.Color)
	assert.Equal(t, "#FFFFFF", resp.Data.BgColor)
}

func TestUpdateRecordsChanges(t *testing.T) {
	r, _, events := setup(t)

	w := send(r, http.MethodPut, "/api/v1/services/s1",
		`{"name":"Home Nursing","service":"nursing","icon":"medical_services","color":"#112233","bgColor":"#FFFFFF"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, events.events, 1)
	assert.Contains(t, events.events[0].Changes, "name")
}

func TestDeleteUnknownService(t *testing.T) {
	r, _, events := setup(t)

	w := send(r, http.MethodDelete, "/api/v1/services/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, events.events)
}
