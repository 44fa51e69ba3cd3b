package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// AttemptStatus represents the lifecycle state of an attempt
type AttemptStatus string

// Possible attempt status values
const (
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusCompleted  AttemptStatus = "completed"
)

// Common validation errors for Attempt and AttemptStep
var (
	ErrEmptyAttemptCaseID   = errors.New("attempt case ID cannot be empty")
	ErrEmptyAttemptUserID   = errors.New("attempt user ID cannot be empty")
	ErrNegativeDuration     = errors.New("attempt duration cannot be negative")
	ErrCompletedAtMismatch  = errors.New("completed_at must be set iff the attempt is completed")
	ErrEmptyStepNodeID      = errors.New("step node ID cannot be empty")
	ErrNegativeStepElapsed  = errors.New("step elapsed time cannot be negative")
	ErrAttemptAlreadyClosed = errors.New("attempt is already completed")
	ErrScoreOutOfRange      = errors.New("score does not fit a 32-bit integer")
	ErrDurationOutOfRange   = errors.New("attempt duration does not fit a 32-bit integer")
)

// Scores and durations are stored in 32-bit integer columns.
const (
	MinStoredInt = math.MinInt32
	MaxStoredInt = math.MaxInt32
)

// FitsStoredInt reports whether v can be written to a 32-bit column.
func FitsStoredInt(v int) bool {
	return v >= MinStoredInt && v <= MaxStoredInt
}

// Attempt is one learner's play-through of a case. Its ID is assigned by
// the store when the header is inserted.
type Attempt struct {
	ID              uuid.UUID     `json:"id"`
	CaseID          uuid.UUID     `json:"case_id"`
	UserID          uuid.UUID     `json:"user_id"`
	ScoreTotal      int           `json:"score_total"`
	DurationSeconds *int          `json:"duration_seconds"`
	Status          AttemptStatus `json:"status"`
	AttemptRole     *string       `json:"attempt_role"`
	StartedAt       time.Time     `json:"started_at"`
	CompletedAt     *time.Time    `json:"completed_at"`
}

// NewAttempt creates an attempt header in the given status. A completed
// attempt has its completion time stamped with now.
// Returns an error if validation fails.
func NewAttempt(
	caseID, userID uuid.UUID,
	status AttemptStatus,
	scoreTotal int,
	durationSeconds *int,
	now time.Time,
) (*Attempt, error) {
	attempt := &Attempt{
		CaseID:          caseID,
		UserID:          userID,
		ScoreTotal:      scoreTotal,
		DurationSeconds: durationSeconds,
		Status:          AttemptStatusInProgress,
		StartedAt:       now.UTC(),
	}
	switch status {
	case AttemptStatusInProgress:
	case AttemptStatusCompleted:
		if err := attempt.Complete(now); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidAttemptStatus
	}

	if err := attempt.Validate(); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Validate checks if the Attempt has valid data.
func (a *Attempt) Validate() error {
	if a.CaseID == uuid.Nil {
		return ErrEmptyAttemptCaseID
	}
	if a.UserID == uuid.Nil {
		return ErrEmptyAttemptUserID
	}
	if !IsValidAttemptStatus(a.Status) {
		return ErrInvalidAttemptStatus
	}
	if !FitsStoredInt(a.ScoreTotal) {
		return ErrScoreOutOfRange
	}
	if a.DurationSeconds != nil && *a.DurationSeconds < 0 {
		return ErrNegativeDuration
	}
	if a.DurationSeconds != nil && *a.DurationSeconds > MaxStoredInt {
		return ErrDurationOutOfRange
	}
	if (a.Status == AttemptStatusCompleted) != (a.CompletedAt != nil) {
		return ErrCompletedAtMismatch
	}
	return nil
}

// Complete transitions an in-progress attempt to completed.
// Completing an already completed attempt returns ErrAttemptAlreadyClosed
// and leaves the original completion time untouched.
func (a *Attempt) Complete(at time.Time) error {
	if a.Status == AttemptStatusCompleted {
		return ErrAttemptAlreadyClosed
	}
	completedAt := at.UTC()
	a.Status = AttemptStatusCompleted
	a.CompletedAt = &completedAt
	return nil
}

// IsValidAttemptStatus checks if the given status is a known attempt status.
func IsValidAttemptStatus(status AttemptStatus) bool {
	return status == AttemptStatusInProgress || status == AttemptStatusCompleted
}

// AttemptStep is one recorded node visit. Steps are append-only and keep
// their insertion order.
type AttemptStep struct {
	ID           uuid.UUID  `json:"id"`
	AttemptID    uuid.UUID  `json:"attempt_id"`
	NodeID       uuid.UUID  `json:"node_id"`
	OptionID     *uuid.UUID `json:"option_id"`
	OutcomeLabel *string    `json:"outcome_label"`
	ScoreDelta   int        `json:"score_delta"`
	ElapsedMs    *int64     `json:"elapsed_ms"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Validate checks the step before it is attached to an attempt.
func (s *AttemptStep) Validate() error {
	if s.NodeID == uuid.Nil {
		return ErrEmptyStepNodeID
	}
	if s.ElapsedMs != nil && *s.ElapsedMs < 0 {
		return ErrNegativeStepElapsed
	}
	if !FitsStoredInt(s.ScoreDelta) {
		return ErrScoreOutOfRange
	}
	return nil
}

// AttemptSummary is an attempt as shown in a learner's history.
type AttemptSummary struct {
	Attempt
	CaseTitle string `json:"case_title"`
	CaseSlug  string `json:"case_slug"`
}
