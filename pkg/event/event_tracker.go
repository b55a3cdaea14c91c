package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const contextKey = "eventCtx"

type EventTrackerMiddleware struct {
	eventService EventService
	extractor    FieldExtractor
	fields       map[string][]string
	logger       *zerolog.Logger
}

// NewEventTrackerMiddleware builds the tracker. fields lists, per resource,
// the attributes compared between OldData and NewData.
func NewEventTrackerMiddleware(eventSvc EventService, fields map[string][]string, logger *zerolog.Logger) *EventTrackerMiddleware {
	return &EventTrackerMiddleware{
		eventService: eventSvc,
		extractor:    &DefaultFieldExtractor{},
		fields:       fields,
		logger:       logger,
	}
}

func (m *EventTrackerMiddleware) TrackEvent(entityType, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventCtx := &EventContext{
			Resource:  entityType,
			Operation: action,
			EntityID:  c.Param("id"),
		}
		c.Set(contextKey, eventCtx)

		c.Next()

		if eventCtx.NewData == nil || c.Writer.Status() >= 400 {
			return
		}

		event := &Event{
			ID:         uuid.New(),
			Type:       EventType(fmt.Sprintf("%s_%s", strings.ToUpper(entityType), strings.ToUpper(action))),
			Resource:   entityType,
			Operation:  action,
			EntityID:   eventCtx.EntityID,
			RequestID:  c.GetString("request_id"),
			Actor:      c.GetString("admin_email"),
			Payload:    eventCtx.NewData,
			Additional: eventCtx.Additional,
			OccurredAt: time.Now().UTC(),
		}
		if eventCtx.OldData != nil {
			event.Changes = m.extractor.ExtractChanges(eventCtx.OldData, eventCtx.NewData, m.fields[entityType])
		}

		// Audit delivery never fails the request.
		if err := m.eventService.Emit(c.Request.Context(), event); err != nil {
			m.logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("failed to emit event")
		}
	}
}

// Current returns the event context set by TrackEvent, if any.
func Current(c *gin.Context) *EventContext {
	if v, ok := c.Get(contextKey); ok {
		if eventCtx, ok := v.(*EventContext); ok {
			return eventCtx
		}
	}
	return nil
}

// Record stores the before/after state of the entity touched by the request.
func Record(c *gin.Context, oldData, newData interface{}) {
	if eventCtx := Current(c); eventCtx != nil {
		eventCtx.OldData = oldData
		eventCtx.NewData = newData
	}
}
