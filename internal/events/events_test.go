package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := AttemptRecorded{
		AttemptID:    uuid.New(),
		CaseID:       uuid.New(),
		Status:       "completed",
		ScoreTotal:   2,
		StepCount:    2,
		DroppedSteps: 1,
		Warning:      "steps_failed",
	}

	event, err := NewEvent(TypeAttemptRecorded, payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeAttemptRecorded, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded AttemptRecorded
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventUnencodablePayload(t *testing.T) {
	_, err := NewEvent(TypeCaseViewed, make(chan int))
	assert.Error(t, err)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestEventHandler(t *testing.T) {
	handler := &MockEventHandler{}

	event, err := NewEvent(TypeCaseViewed, CaseViewed{CaseID: uuid.New()})
	require.NoError(t, err)

	assert.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Equal(t, 1, handler.HandledCount)
	assert.Equal(t, event, handler.LastEvent)

	expectedErr := errors.New("handler error")
	handler.HandlerError = expectedErr
	assert.Equal(t, expectedErr, handler.HandleEvent(context.Background(), event))
	assert.Equal(t, 2, handler.HandledCount)
}
