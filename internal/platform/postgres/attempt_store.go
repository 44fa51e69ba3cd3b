package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/store"
)

const (
	// stepColumnCount is the number of bound parameters per step row.
	stepColumnCount = 6
	// stepBatchSize keeps one INSERT under Postgres' 65535 bind parameter limit.
	stepBatchSize = 1000
)

// PostgresAttemptStore implements the store.AttemptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the AttemptStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// CreateAttempt implements store.AttemptStore.CreateAttempt
// It validates the attempt, inserts the header row and returns the generated ID.
// Returns store.ErrInvalidEntity if the case does not exist (foreign key violation).
func (s *PostgresAttemptStore) CreateAttempt(
	ctx context.Context,
	attempt *domain.Attempt,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("case_id", attempt.CaseID.String()))
		return uuid.Nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO micro_case_attempts (
			case_id, user_id, score_total, duration_seconds, status,
			attempt_role, started_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id uuid.NullUUID
	err := s.db.QueryRowContext(
		ctx,
		query,
		attempt.CaseID,
		attempt.UserID,
		attempt.ScoreTotal,
		attempt.DurationSeconds,
		string(attempt.Status),
		attempt.AttemptRole,
		attempt.StartedAt,
		attempt.CompletedAt,
	).Scan(&id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("attempt references a missing case",
				slog.String("case_id", attempt.CaseID.String()))
			return uuid.Nil, fmt.Errorf("%w: case with ID %s not found",
				store.ErrInvalidEntity, attempt.CaseID)
		}
		log.Error("failed to insert attempt",
			slog.String("error", err.Error()),
			slog.String("case_id", attempt.CaseID.String()),
			slog.String("user_id", attempt.UserID.String()))
		return uuid.Nil, store.NewStoreError("attempt", "insert", "insert failed", MapError(err))
	}

	if !id.Valid || id.UUID == uuid.Nil {
		log.Error("attempt insert returned no identifier",
			slog.String("case_id", attempt.CaseID.String()))
		return uuid.Nil, store.ErrNoGeneratedID
	}

	attempt.ID = id.UUID
	log.Info("attempt created",
		slog.String("attempt_id", id.UUID.String()),
		slog.String("case_id", attempt.CaseID.String()),
		slog.String("status", string(attempt.Status)))
	return id.UUID, nil
}

// CreateSteps implements store.AttemptStore.CreateSteps
// Steps are written in multi-row INSERTs of at most stepBatchSize rows; the
// seq column preserves their order across batches.
func (s *PostgresAttemptStore) CreateSteps(
	ctx context.Context,
	attemptID uuid.UUID,
	steps []domain.AttemptStep,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(steps) == 0 {
		return nil
	}

	for i := range steps {
		if err := steps[i].Validate(); err != nil {
			log.Warn("step validation failed during create",
				slog.String("error", err.Error()),
				slog.String("attempt_id", attemptID.String()),
				slog.Int("index", i))
			return fmt.Errorf("%w: step %d: %v", store.ErrInvalidEntity, i, err)
		}
	}

	for start := 0; start < len(steps); start += stepBatchSize {
		end := min(start+stepBatchSize, len(steps))
		if err := s.insertSteps(ctx, attemptID, steps[start:end]); err != nil {
			log.Error("failed to insert attempt steps",
				slog.String("error", err.Error()),
				slog.String("attempt_id", attemptID.String()),
				slog.Int("offset", start),
				slog.Int("count", len(steps)))
			return store.NewStoreError("attempt_step", "insert", "batch insert failed", MapError(err))
		}
	}

	log.Debug("attempt steps created",
		slog.String("attempt_id", attemptID.String()),
		slog.Int("count", len(steps)))
	return nil
}

func (s *PostgresAttemptStore) insertSteps(
	ctx context.Context,
	attemptID uuid.UUID,
	batch []domain.AttemptStep,
) error {
	values := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*stepColumnCount)
	for i := range batch {
		step := batch[i]
		base := i * stepColumnCount
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args,
			attemptID,
			step.NodeID,
			nullUUID(step.OptionID),
			step.OutcomeLabel,
			step.ScoreDelta,
			step.ElapsedMs,
		)
	}

	query := `
		INSERT INTO micro_case_attempt_steps (
			attempt_id, node_id, option_id, outcome_label, score_delta, elapsed_ms
		)
		VALUES ` + strings.Join(values, ", ")

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// ListAttemptsByUser implements store.AttemptStore.ListAttemptsByUser.
func (s *PostgresAttemptStore) ListAttemptsByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.AttemptSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = store.DefaultAttemptListLimit
	}

	query := `
		SELECT a.id, a.case_id, a.user_id, a.score_total, a.duration_seconds,
			a.status, a.attempt_role, a.started_at, a.completed_at,
			c.title, c.slug
		FROM micro_case_attempts a
		JOIN micro_cases c ON c.id = a.case_id
		WHERE a.user_id = $1
		ORDER BY a.started_at DESC, a.id
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list attempts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("attempt", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	summaries := []domain.AttemptSummary{}
	for rows.Next() {
		var (
			a         domain.AttemptSummary
			duration  sql.NullInt32
			status    string
			role      sql.NullString
			completed sql.NullTime
		)
		if err := rows.Scan(
			&a.ID,
			&a.CaseID,
			&a.UserID,
			&a.ScoreTotal,
			&duration,
			&status,
			&role,
			&a.StartedAt,
			&completed,
			&a.CaseTitle,
			&a.CaseSlug,
		); err != nil {
			log.Error("failed to scan attempt row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("attempt", "list", "scan failed", err)
		}
		a.Status = domain.AttemptStatus(status)
		if duration.Valid {
			d := int(duration.Int32)
			a.DurationSeconds = &d
		}
		if role.Valid {
			a.AttemptRole = &role.String
		}
		if completed.Valid {
			a.CompletedAt = &completed.Time
		}
		summaries = append(summaries, a)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating attempt rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("attempt", "list", "iteration failed", MapError(err))
	}

	return summaries, nil
}

// WithTx implements store.AttemptStore.WithTx
// It returns a new AttemptStore instance that uses the provided transaction.
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{
		db:     tx,
		logger: s.logger,
	}
}
