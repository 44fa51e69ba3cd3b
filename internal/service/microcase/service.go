package microcase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/domain/casegraph"
	"github.com/phrazzld/microcase-api/internal/events"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/store"
)

// Submission is an attempt as sent by a learner's client.
type Submission struct {
	CaseID          uuid.UUID
	Completed       bool
	Status          string
	ScoreTotal      *int
	DurationSeconds *int
	AttemptRole     *string
	Steps           []casegraph.StepInput
}

// ValidationReport is the result of checking a case graph for authoring mistakes.
type ValidationReport struct {
	CaseID uuid.UUID
	Valid  bool
	Issues []casegraph.Issue
}

// Service is the micro-case boundary used by the HTTP layer.
type Service interface {
	// ListCases returns the cases the caller may see. A status of
	// "published" restricts the listing to published cases; any other
	// value also includes the caller's own drafts.
	ListCases(ctx context.Context, caller domain.Caller, status string) ([]domain.CaseSummary, error)

	// GetCase returns the full graph of a case.
	//
	// Returns:
	//   - ErrCaseNotFound when no case has the ID; no node is read in that case
	//   - ErrForbidden when the case is a draft the caller does not own
	GetCase(ctx context.Context, caller domain.Caller, caseID uuid.UUID) (*casegraph.Graph, error)

	// ValidateCase runs the authoring checks on a case. Only the author may
	// validate; anonymous callers get ErrUnauthenticated.
	ValidateCase(ctx context.Context, caller domain.Caller, caseID uuid.UUID) (*ValidationReport, error)

	// SubmitAttempt scores and records a new attempt for the caller.
	// Anonymous callers get ErrUnauthenticated and nothing is stored.
	SubmitAttempt(ctx context.Context, caller domain.Caller, sub Submission) (RecordResult, error)

	// ListMyAttempts returns the caller's attempts, newest first.
	ListMyAttempts(ctx context.Context, caller domain.Caller, limit int) ([]domain.AttemptSummary, error)
}

// Options tunes optional service behavior.
type Options struct {
	// Audit compares submitted deltas with the case's options after the
	// attempt is stored and logs any disagreement.
	Audit bool
	// Emitter receives service events. Nil disables events.
	Emitter events.EventEmitter
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Ensure microcaseService implements Service
var _ Service = (*microcaseService)(nil)

type microcaseService struct {
	cases    store.CaseStore
	attempts store.AttemptStore
	loader   *Loader
	recorder *Recorder
	opts     Options
	logger   *slog.Logger
}

// NewService creates the micro-case service over the given stores. db, when
// non-nil, wraps each step batch in a transaction.
func NewService(
	cases store.CaseStore,
	attempts store.AttemptStore,
	db store.TxBeginner,
	opts Options,
	logger *slog.Logger,
) Service {
	if cases == nil {
		panic("cases cannot be nil")
	}
	if attempts == nil {
		panic("attempts cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &microcaseService{
		cases:    cases,
		attempts: attempts,
		loader:   NewLoader(cases, logger),
		recorder: NewRecorder(attempts, db, logger),
		opts:     opts,
		logger:   logger.With(slog.String("component", "microcase_service")),
	}
}

// ListCases implements Service.ListCases.
func (s *microcaseService) ListCases(
	ctx context.Context,
	caller domain.Caller,
	status string,
) ([]domain.CaseSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	visibility := ListVisibility(caller, status)
	cases, err := s.cases.ListCases(ctx, store.CaseFilter{
		Visibility: visibility,
		Limit:      store.DefaultCaseListLimit,
	})
	if err != nil {
		log.Error("failed to list cases", slog.String("error", err.Error()))
		return nil, NewServiceError("list_cases", "failed to list cases", err)
	}

	log.Debug("listed cases",
		slog.Int("count", len(cases)),
		slog.Bool("with_drafts", len(visibility) > 1))
	return cases, nil
}

// GetCase implements Service.GetCase.
func (s *microcaseService) GetCase(
	ctx context.Context,
	caller domain.Caller,
	caseID uuid.UUID,
) (*casegraph.Graph, error) {
	g, err := s.loader.LoadCaseFor(ctx, caller, caseID)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeCaseViewed, events.CaseViewed{
		CaseID:    caseID,
		Published: g.Case.IsPublished,
		NodeCount: len(g.Nodes),
	})
	return g, nil
}

// ValidateCase implements Service.ValidateCase.
func (s *microcaseService) ValidateCase(
	ctx context.Context,
	caller domain.Caller,
	caseID uuid.UUID,
) (*ValidationReport, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	g, err := s.loader.Load(ctx, caseID, func(c *domain.MicroCase) error {
		if !caller.Is(c.CreatedBy) {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	issues := casegraph.Validate(g)
	return &ValidationReport{
		CaseID: caseID,
		Valid:  !casegraph.HasErrors(issues),
		Issues: issues,
	}, nil
}

// SubmitAttempt implements Service.SubmitAttempt.
// Input checks happen before any store call.
func (s *microcaseService) SubmitAttempt(
	ctx context.Context,
	caller domain.Caller,
	sub Submission,
) (RecordResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	userID, err := CanSubmitAttempt(caller)
	if err != nil {
		log.Debug("anonymous attempt submission refused")
		return RecordResult{}, err
	}
	if sub.CaseID == uuid.Nil {
		return RecordResult{}, invalidPayload(domain.ErrEmptyAttemptCaseID)
	}

	status, err := casegraph.ResolveStatus(sub.Completed, sub.Status)
	if err != nil {
		return RecordResult{}, invalidPayload(err)
	}

	scored := casegraph.Score(sub.Steps)
	for i := range scored.Steps {
		if err := scored.Steps[i].Validate(); err != nil {
			return RecordResult{}, invalidPayload(fmt.Errorf("step %d: %w", i, err))
		}
	}
	total := scored.Total(sub.ScoreTotal)

	attempt, err := domain.NewAttempt(sub.CaseID, userID, status, total, sub.DurationSeconds, s.opts.Now())
	if err != nil {
		return RecordResult{}, invalidPayload(err)
	}
	attempt.AttemptRole = sub.AttemptRole

	if scored.Dropped > 0 {
		log.Debug("dropped steps without a node",
			slog.String("case_id", sub.CaseID.String()),
			slog.Int("dropped", scored.Dropped))
	}

	result, err := s.recorder.RecordAttempt(ctx, attempt, scored.Steps)
	if err != nil {
		return RecordResult{}, err
	}

	s.emit(ctx, events.TypeAttemptRecorded, events.AttemptRecorded{
		AttemptID:    result.AttemptID,
		CaseID:       sub.CaseID,
		Status:       string(status),
		ScoreTotal:   total,
		StepCount:    len(scored.Steps),
		DroppedSteps: scored.Dropped,
		Warning:      result.Warning,
	})

	if s.opts.Audit {
		s.audit(ctx, result.AttemptID, sub.CaseID, total, scored.Steps)
	}

	return result, nil
}

// ListMyAttempts implements Service.ListMyAttempts.
func (s *microcaseService) ListMyAttempts(
	ctx context.Context,
	caller domain.Caller,
	limit int,
) ([]domain.AttemptSummary, error) {
	userID, err := CanSubmitAttempt(caller)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > store.DefaultAttemptListLimit {
		limit = store.DefaultAttemptListLimit
	}

	attempts, err := s.attempts.ListAttemptsByUser(ctx, userID, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list attempts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_attempts", "failed to list attempts", err)
	}
	return attempts, nil
}

// audit recomputes the recorded steps against the case's options and logs
// any disagreement. Stored values are left as submitted.
func (s *microcaseService) audit(
	ctx context.Context,
	attemptID, caseID uuid.UUID,
	reported int,
	steps []domain.AttemptStep,
) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("attempt_id", attemptID.String()),
		slog.String("case_id", caseID.String()))

	g, err := s.loader.LoadCase(ctx, caseID)
	if err != nil {
		log.Warn("score audit skipped", slog.String("error", err.Error()))
		return
	}

	audit := casegraph.Rescore(g, steps)
	if audit.Clean() && audit.RecomputedTotal == reported {
		return
	}

	log.Warn("submitted score disagrees with case options",
		slog.Int("reported_total", reported),
		slog.Int("recomputed_total", audit.RecomputedTotal),
		slog.Int("discrepancies", len(audit.Discrepancies)))

	s.emit(ctx, events.TypeScoreDiscrepancy, events.ScoreDiscrepancy{
		AttemptID:       attemptID,
		CaseID:          caseID,
		ReportedTotal:   reported,
		RecomputedTotal: audit.RecomputedTotal,
		Discrepancies:   len(audit.Discrepancies),
	})
}

func (s *microcaseService) emit(ctx context.Context, eventType string, payload any) {
	if s.opts.Emitter == nil {
		return
	}
	event, err := events.NewEvent(eventType, payload)
	if err == nil {
		err = s.opts.Emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

// unconfiguredService answers every call with ErrNotConfigured.
type unconfiguredService struct{}

// Ensure unconfiguredService implements Service
var _ Service = unconfiguredService{}

// NewUnconfiguredService returns a Service for a server started without a
// database. Every operation fails with ErrNotConfigured.
func NewUnconfiguredService() Service {
	return unconfiguredService{}
}

func (unconfiguredService) ListCases(context.Context, domain.Caller, string) ([]domain.CaseSummary, error) {
	return nil, ErrNotConfigured
}

func (unconfiguredService) GetCase(context.Context, domain.Caller, uuid.UUID) (*casegraph.Graph, error) {
	return nil, ErrNotConfigured
}

func (unconfiguredService) ValidateCase(context.Context, domain.Caller, uuid.UUID) (*ValidationReport, error) {
	return nil, ErrNotConfigured
}

func (unconfiguredService) SubmitAttempt(context.Context, domain.Caller, Submission) (RecordResult, error) {
	return RecordResult{}, ErrNotConfigured
}

func (unconfiguredService) ListMyAttempts(context.Context, domain.Caller, int) ([]domain.AttemptSummary, error) {
	return nil, ErrNotConfigured
}

// IsNotConfigured reports whether err stems from a service without a store.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
