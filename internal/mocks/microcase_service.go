package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/domain/casegraph"
	"github.com/phrazzld/microcase-api/internal/service/microcase"
)

// MockMicroCaseService implements microcase.Service for handler tests.
// Each call is recorded; unset functions return zero values.
type MockMicroCaseService struct {
	ListCasesFn      func(ctx context.Context, caller domain.Caller, status string) ([]domain.CaseSummary, error)
	GetCaseFn        func(ctx context.Context, caller domain.Caller, caseID uuid.UUID) (*casegraph.Graph, error)
	ValidateCaseFn   func(ctx context.Context, caller domain.Caller, caseID uuid.UUID) (*microcase.ValidationReport, error)
	SubmitAttemptFn  func(ctx context.Context, caller domain.Caller, sub microcase.Submission) (microcase.RecordResult, error)
	ListMyAttemptsFn func(ctx context.Context, caller domain.Caller, limit int) ([]domain.AttemptSummary, error)

	// Calls lists the names of the invoked methods, in order
	Calls []string
	// LastCaller is the caller passed to the most recent call
	LastCaller domain.Caller
	// LastSubmission is the submission passed to the most recent SubmitAttempt
	LastSubmission *microcase.Submission
}

// Ensure MockMicroCaseService implements microcase.Service
var _ microcase.Service = (*MockMicroCaseService)(nil)

func (m *MockMicroCaseService) record(name string, caller domain.Caller) {
	m.Calls = append(m.Calls, name)
	m.LastCaller = caller
}

// ListCases implements microcase.Service
func (m *MockMicroCaseService) ListCases(
	ctx context.Context,
	caller domain.Caller,
	status string,
) ([]domain.CaseSummary, error) {
	m.record("ListCases", caller)
	if m.ListCasesFn != nil {
		return m.ListCasesFn(ctx, caller, status)
	}
	return []domain.CaseSummary{}, nil
}

// GetCase implements microcase.Service
func (m *MockMicroCaseService) GetCase(
	ctx context.Context,
	caller domain.Caller,
	caseID uuid.UUID,
) (*casegraph.Graph, error) {
	m.record("GetCase", caller)
	if m.GetCaseFn != nil {
		return m.GetCaseFn(ctx, caller, caseID)
	}
	return nil, microcase.ErrCaseNotFound
}

// ValidateCase implements microcase.Service
func (m *MockMicroCaseService) ValidateCase(
	ctx context.Context,
	caller domain.Caller,
	caseID uuid.UUID,
) (*microcase.ValidationReport, error) {
	m.record("ValidateCase", caller)
	if m.ValidateCaseFn != nil {
		return m.ValidateCaseFn(ctx, caller, caseID)
	}
	return &microcase.ValidationReport{CaseID: caseID, Valid: true, Issues: []casegraph.Issue{}}, nil
}

// SubmitAttempt implements microcase.Service
func (m *MockMicroCaseService) SubmitAttempt(
	ctx context.Context,
	caller domain.Caller,
	sub microcase.Submission,
) (microcase.RecordResult, error) {
	m.record("SubmitAttempt", caller)
	m.LastSubmission = &sub
	if m.SubmitAttemptFn != nil {
		return m.SubmitAttemptFn(ctx, caller, sub)
	}
	return microcase.RecordResult{AttemptID: uuid.New(), Outcome: microcase.Recorded}, nil
}

// ListMyAttempts implements microcase.Service
func (m *MockMicroCaseService) ListMyAttempts(
	ctx context.Context,
	caller domain.Caller,
	limit int,
) ([]domain.AttemptSummary, error) {
	m.record("ListMyAttempts", caller)
	if m.ListMyAttemptsFn != nil {
		return m.ListMyAttemptsFn(ctx, caller, limit)
	}
	return []domain.AttemptSummary{}, nil
}
