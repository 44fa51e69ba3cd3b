package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
)

// DefaultAttemptListLimit caps an attempt history listing when no limit is given.
const DefaultAttemptListLimit = 50

// AttemptStore defines the interface for recording attempts and their steps.
// Version: 1.0
type AttemptStore interface {
	// CreateAttempt inserts an attempt header and returns the identifier
	// the store generated for it. Returns ErrNoGeneratedID if the insert
	// produced no identifier.
	CreateAttempt(ctx context.Context, attempt *domain.Attempt) (uuid.UUID, error)

	// CreateSteps appends steps to an attempt, keeping their order. Large
	// step lists may be written in several statements; callers wanting
	// all-or-nothing behavior run it inside a transaction.
	CreateSteps(ctx context.Context, attemptID uuid.UUID, steps []domain.AttemptStep) error

	// ListAttemptsByUser returns the user's attempts with their case title
	// and slug, most recently started first.
	ListAttemptsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AttemptSummary, error)

	// WithTx returns a new AttemptStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttemptStore
}
