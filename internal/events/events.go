package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskRequestEvent asks the task system to create a background task. The
// event ID doubles as the task ID downstream, so emitters can hand it to
// callers as a polling handle immediately.
type TaskRequestEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type names the task type that should be created
	Type string `json:"type"`

	// Payload carries the task-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskRequestEvent creates an event of the given type with the payload
// serialized to JSON.
func NewTaskRequestEvent(eventType string, payload interface{}) (*TaskRequestEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &TaskRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *TaskRequestEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler processes events. A handler that does not recognize an
// event's type should ignore it and return nil.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

// EventEmitter publishes events to whatever handlers are registered,
// without the emitting side knowing who they are.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error
}
