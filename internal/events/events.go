package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the micro-case service.
const (
	// TypeAttemptRecorded is emitted after an attempt header is stored.
	TypeAttemptRecorded = "attempt.recorded"
	// TypeCaseViewed is emitted after a case graph is served.
	TypeCaseViewed = "case.viewed"
	// TypeScoreDiscrepancy is emitted when an audited attempt disagrees
	// with the case's options.
	TypeScoreDiscrepancy = "attempt.score_discrepancy"
)

// Event is a notification that something happened in the service.
// Handlers decode the payload according to Type.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// AttemptRecorded is the payload of TypeAttemptRecorded.
type AttemptRecorded struct {
	AttemptID    uuid.UUID `json:"attempt_id"`
	CaseID       uuid.UUID `json:"case_id"`
	Status       string    `json:"status"`
	ScoreTotal   int       `json:"score_total"`
	StepCount    int       `json:"step_count"`
	DroppedSteps int       `json:"dropped_steps"`
	Warning      string    `json:"warning,omitempty"`
}

// CaseViewed is the payload of TypeCaseViewed.
type CaseViewed struct {
	CaseID    uuid.UUID `json:"case_id"`
	Published bool      `json:"published"`
	NodeCount int       `json:"node_count"`
}

// ScoreDiscrepancy is the payload of TypeScoreDiscrepancy.
type ScoreDiscrepancy struct {
	AttemptID       uuid.UUID `json:"attempt_id"`
	CaseID          uuid.UUID `json:"case_id"`
	ReportedTotal   int       `json:"reported_total"`
	RecomputedTotal int       `json:"recomputed_total"`
	Discrepancies   int       `json:"discrepancies"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
