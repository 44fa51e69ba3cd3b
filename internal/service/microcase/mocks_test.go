package microcase

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/events"
	"github.com/phrazzld/microcase-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCaseStore mocks the store.CaseStore interface
type MockCaseStore struct {
	mock.Mock
}

func (m *MockCaseStore) ListCases(ctx context.Context, filter store.CaseFilter) ([]domain.CaseSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CaseSummary), args.Error(1)
}

func (m *MockCaseStore) GetCase(ctx context.Context, id uuid.UUID) (*domain.MicroCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MicroCase), args.Error(1)
}

func (m *MockCaseStore) ListNodes(ctx context.Context, caseID uuid.UUID) ([]domain.Node, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Node), args.Error(1)
}

func (m *MockCaseStore) ListOptions(ctx context.Context, nodeIDs []uuid.UUID) ([]domain.Option, error) {
	args := m.Called(ctx, nodeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Option), args.Error(1)
}

// MockAttemptStore mocks the store.AttemptStore interface
type MockAttemptStore struct {
	mock.Mock
}

func (m *MockAttemptStore) CreateAttempt(ctx context.Context, attempt *domain.Attempt) (uuid.UUID, error) {
	args := m.Called(ctx, attempt)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAttemptStore) CreateSteps(ctx context.Context, attemptID uuid.UUID, steps []domain.AttemptStep) error {
	args := m.Called(ctx, attemptID, steps)
	return args.Error(0)
}

func (m *MockAttemptStore) ListAttemptsByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.AttemptSummary, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttemptSummary), args.Error(1)
}

func (m *MockAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return m
}

// recordingEmitter keeps every emitted event
type recordingEmitter struct {
	events []*events.Event
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) types() []string {
	types := make([]string, len(e.events))
	for i, ev := range e.events {
		types[i] = ev.Type
	}
	return types
}
