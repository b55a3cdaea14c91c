package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

// EventContext is attached to the gin context by TrackEvent. Handlers fill
// OldData/NewData; nothing is published when NewData stays nil.
type EventContext struct {
	Resource   string
	Operation  string
	EntityID   string
	OldData    interface{}
	NewData    interface{}
	Additional map[string]interface{}
}

type Event struct {
	ID         uuid.UUID              `json:"id"`
	Type       EventType              `json:"type"`
	Resource   string                 `json:"resource"`
	Operation  string                 `json:"operation"`
	EntityID   string                 `json:"entity_id,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	Actor      string                 `json:"actor,omitempty"`
	Payload    interface{}            `json:"payload"`
	Changes    map[string]interface{} `json:"changes,omitempty"`
	Additional map[string]interface{} `json:"additional,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type EventService interface {
	Emit(ctx context.Context, event *Event) error
}

type FieldExtractor interface {
	ExtractFields(obj interface{}, fields []string) map[string]interface{}
	ExtractChanges(old, new interface{}, fields []string) map[string]interface{}
}
