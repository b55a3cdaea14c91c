package event

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/pkg/logger"
)

type recordingService struct {
	events []*Event
}

func (s *recordingService) Emit(_ context.Context, e *Event) error {
	s.events = append(s.events, e)
	return nil
}

type provider struct {
	ID     string `json:"$id"`
	Status string `json:"status"`
}

func newTrackedEngine(svc EventService, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tracker := NewEventTrackerMiddleware(svc, map[string][]string{"provider": {"status"}}, logger.Nop())
	r.POST("/providers/:id/approve", tracker.TrackEvent("provider", "approve"), handler)
	return r
}

func TestTrackEventEmitsChanges(t *testing.T) {
	svc := &recordingService{}
	r := newTrackedEngine(svc, func(c *gin.Context) {
		Record(c, provider{ID: "p1", Status: "pending"}, provider{ID: "p1", Status: "approved"})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/providers/p1/approve", nil))

	require.Len(t, svc.events, 1)
	e := svc.events[0]
	assert.Equal(t, EventType("PROVIDER_APPROVE"), e.Type)
	assert.Equal(t, "p1", e.EntityID)
	assert.Equal(t, map[string]interface{}{"old": "pending", "new": "approved"}, e.Changes["status"])
}

func TestTrackEventSkipsFailedRequests(t *testing.T) {
	svc := &recordingService{}
	r := newTrackedEngine(svc, func(c *gin.Context) {
		Record(c, nil, provider{ID: "p1"})
		c.Status(http.StatusBadGateway)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/providers/p1/approve", nil))
	assert.Empty(t, svc.events)
}

func TestExtractFieldsFromMap(t *testing.T) {
	e := &DefaultFieldExtractor{}
	got := e.ExtractFields(map[string]interface{}{"status": "approved", "name": "x"}, []string{"status"})
	assert.Equal(t, map[string]interface{}{"status": "approved"}, got)
}
