package microcase

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/store"
)

// Outcome describes how much of a submission was persisted.
type Outcome string

const (
	// Recorded means the header and every step were stored.
	Recorded Outcome = "recorded"
	// RecordedWithWarning means the header was stored but its steps were not.
	RecordedWithWarning Outcome = "recorded_with_warning"
)

// WarningStepsFailed is the warning reported when the step batch was lost.
const WarningStepsFailed = "steps_failed"

// RecordResult is the result of a submission that stored at least its header.
// A submission that stored nothing is reported as an error instead.
type RecordResult struct {
	AttemptID uuid.UUID
	Outcome   Outcome
	Warning   string
}

// Recorder persists attempt headers and their steps.
type Recorder struct {
	attempts store.AttemptStore
	db       store.TxBeginner
	logger   *slog.Logger
}

// NewRecorder creates a Recorder. When db is non-nil the step batch is
// written inside its own transaction.
func NewRecorder(attempts store.AttemptStore, db store.TxBeginner, logger *slog.Logger) *Recorder {
	if attempts == nil {
		panic("attempts cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		attempts: attempts,
		db:       db,
		logger:   logger.With(slog.String("component", "attempt_recorder")),
	}
}

// RecordAttempt inserts the header, then the steps as a separate batch.
// A failed header insert fails the whole call and nothing is stored. A
// failed step batch keeps the header and reports RecordedWithWarning.
func (r *Recorder) RecordAttempt(
	ctx context.Context,
	attempt *domain.Attempt,
	steps []domain.AttemptStep,
) (RecordResult, error) {
	log := logger.FromContextOrDefault(ctx, r.logger).With(
		slog.String("case_id", attempt.CaseID.String()),
		slog.String("user_id", attempt.UserID.String()))

	id, err := r.attempts.CreateAttempt(ctx, attempt)
	if err != nil {
		if errors.Is(err, store.ErrNoGeneratedID) {
			log.Error("attempt header stored without identifier")
			return RecordResult{}, NewServiceError("record_attempt", "no attempt identifier", ErrInsertFailed)
		}
		log.Error("failed to insert attempt header", slog.String("error", err.Error()))
		return RecordResult{}, NewServiceError("record_attempt", "failed to insert attempt", err)
	}
	if id == uuid.Nil {
		log.Error("attempt header stored without identifier")
		return RecordResult{}, NewServiceError("record_attempt", "no attempt identifier", ErrInsertFailed)
	}

	log = log.With(slog.String("attempt_id", id.String()))

	if len(steps) == 0 {
		log.Info("attempt recorded without steps")
		return RecordResult{AttemptID: id, Outcome: Recorded}, nil
	}

	if err := r.insertSteps(ctx, id, steps); err != nil {
		log.Warn("attempt steps lost, header kept",
			slog.String("error", err.Error()),
			slog.Int("step_count", len(steps)))
		return RecordResult{
			AttemptID: id,
			Outcome:   RecordedWithWarning,
			Warning:   WarningStepsFailed,
		}, nil
	}

	log.Info("attempt recorded", slog.Int("step_count", len(steps)))
	return RecordResult{AttemptID: id, Outcome: Recorded}, nil
}

func (r *Recorder) insertSteps(ctx context.Context, attemptID uuid.UUID, steps []domain.AttemptStep) error {
	if r.db == nil {
		return r.attempts.CreateSteps(ctx, attemptID, steps)
	}
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return r.attempts.WithTx(tx).CreateSteps(ctx, attemptID, steps)
	})
}
