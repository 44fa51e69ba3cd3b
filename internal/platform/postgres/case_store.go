package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/store"
)

// PostgresCaseStore implements the store.CaseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCaseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCaseStore creates a new PostgreSQL implementation of the CaseStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCaseStore(db store.DBTX, logger *slog.Logger) *PostgresCaseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCaseStore{
		db:     db,
		logger: logger.With(slog.String("component", "case_store")),
	}
}

// Ensure PostgresCaseStore implements store.CaseStore interface
var _ store.CaseStore = (*PostgresCaseStore)(nil)

const caseColumns = `id, slug, title, summary, estimated_minutes, difficulty,
		recommended_roles, recommended_units, is_published, created_by,
		start_node_id, created_at, updated_at`

// ListCases implements store.CaseStore.ListCases.
// Each visibility branch is a disjoint predicate: published rows, or
// unpublished rows authored by one user. An empty visibility list returns
// no rows without touching the database.
func (s *PostgresCaseStore) ListCases(
	ctx context.Context,
	filter store.CaseFilter,
) ([]domain.CaseSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(filter.Visibility) == 0 {
		return []domain.CaseSummary{}, nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultCaseListLimit
	}

	var (
		branches []string
		args     []any
	)
	for _, v := range filter.Visibility {
		switch v := v.(type) {
		case store.Published:
			branches = append(branches, "is_published = true")
		case store.OwnedBy:
			args = append(args, v.UserID)
			branches = append(branches,
				fmt.Sprintf("(is_published = false AND created_by = $%d)", len(args)))
		default:
			return nil, fmt.Errorf("%w: unsupported visibility %T", store.ErrInvalidEntity, v)
		}
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s, node_count
		FROM micro_cases_overview
		WHERE %s
		ORDER BY updated_at DESC, id
		LIMIT $%d
	`, caseColumns, strings.Join(branches, " OR "), len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list micro cases",
			slog.String("error", err.Error()),
			slog.Int("branches", len(branches)))
		return nil, store.NewStoreError("micro_case", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	summaries := []domain.CaseSummary{}
	for rows.Next() {
		var summary domain.CaseSummary
		if err := scanCase(rows, &summary.MicroCase, &summary.NodeCount); err != nil {
			log.Error("failed to scan micro case row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("micro_case", "list", "scan failed", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating micro case rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("micro_case", "list", "iteration failed", MapError(err))
	}

	log.Debug("listed micro cases", slog.Int("count", len(summaries)))
	return summaries, nil
}

// GetCase implements store.CaseStore.GetCase.
// Returns store.ErrCaseNotFound if the case does not exist.
func (s *PostgresCaseStore) GetCase(ctx context.Context, id uuid.UUID) (*domain.MicroCase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving micro case by ID", slog.String("case_id", id.String()))

	query := `SELECT ` + caseColumns + ` FROM micro_cases WHERE id = $1`

	var c domain.MicroCase
	if err := scanCase(s.db.QueryRowContext(ctx, query, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("micro case not found", slog.String("case_id", id.String()))
			return nil, store.ErrCaseNotFound
		}
		log.Error("failed to get micro case",
			slog.String("error", err.Error()),
			slog.String("case_id", id.String()))
		return nil, store.NewStoreError("micro_case", "get", "query failed", MapError(err))
	}

	return &c, nil
}

// ListNodes implements store.CaseStore.ListNodes.
func (s *PostgresCaseStore) ListNodes(ctx context.Context, caseID uuid.UUID) ([]domain.Node, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, case_id, kind, body_md, media_url, order_index, is_terminal,
			auto_advance_to, metadata
		FROM micro_case_nodes
		WHERE case_id = $1
		ORDER BY order_index, created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, caseID)
	if err != nil {
		log.Error("failed to list nodes",
			slog.String("error", err.Error()),
			slog.String("case_id", caseID.String()))
		return nil, store.NewStoreError("micro_case_node", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	nodes := []domain.Node{}
	for rows.Next() {
		var (
			n           domain.Node
			kind        string
			mediaURL    sql.NullString
			autoAdvance uuid.NullUUID
			metadata    []byte
		)
		if err := rows.Scan(
			&n.ID,
			&n.CaseID,
			&kind,
			&n.BodyMD,
			&mediaURL,
			&n.OrderIndex,
			&n.IsTerminal,
			&autoAdvance,
			&metadata,
		); err != nil {
			log.Error("failed to scan node row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("micro_case_node", "list", "scan failed", err)
		}
		n.Kind = domain.NodeKind(kind)
		if mediaURL.Valid {
			n.MediaURL = &mediaURL.String
		}
		n.AutoAdvanceTo = uuidPtr(autoAdvance)
		if len(metadata) == 0 {
			metadata = []byte("{}")
		}
		n.Metadata = metadata
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating node rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("micro_case_node", "list", "iteration failed", MapError(err))
	}

	log.Debug("listed nodes",
		slog.String("case_id", caseID.String()),
		slog.Int("count", len(nodes)))
	return nodes, nil
}

// ListOptions implements store.CaseStore.ListOptions.
func (s *PostgresCaseStore) ListOptions(
	ctx context.Context,
	nodeIDs []uuid.UUID,
) ([]domain.Option, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(nodeIDs) == 0 {
		return []domain.Option{}, nil
	}

	query := `
		SELECT id, node_id, label, next_node_id, feedback_md, score_delta,
			is_critical, created_at
		FROM micro_case_options
		WHERE node_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, uuidArrayLiteral(nodeIDs))
	if err != nil {
		log.Error("failed to list options",
			slog.String("error", err.Error()),
			slog.Int("node_count", len(nodeIDs)))
		return nil, store.NewStoreError("micro_case_option", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	options := []domain.Option{}
	for rows.Next() {
		var (
			o        domain.Option
			next     uuid.NullUUID
			feedback sql.NullString
		)
		if err := rows.Scan(
			&o.ID,
			&o.NodeID,
			&o.Label,
			&next,
			&feedback,
			&o.ScoreDelta,
			&o.IsCritical,
			&o.CreatedAt,
		); err != nil {
			log.Error("failed to scan option row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("micro_case_option", "list", "scan failed", err)
		}
		o.NextNodeID = uuidPtr(next)
		if feedback.Valid {
			o.FeedbackMD = &feedback.String
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating option rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("micro_case_option", "list", "iteration failed", MapError(err))
	}

	return options, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCase reads the caseColumns projection into c, followed by any extra
// destinations.
func scanCase(row rowScanner, c *domain.MicroCase, extra ...any) error {
	var (
		minutes sql.NullInt32
		start   uuid.NullUUID
	)
	dest := []any{
		&c.ID,
		&c.Slug,
		&c.Title,
		&c.Summary,
		&minutes,
		&c.Difficulty,
		typeMap.SQLScanner(&c.RecommendedRoles),
		typeMap.SQLScanner(&c.RecommendedUnits),
		&c.IsPublished,
		&c.CreatedBy,
		&start,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	if minutes.Valid {
		m := int(minutes.Int32)
		c.EstimatedMinutes = &m
	}
	c.StartNodeID = uuidPtr(start)
	if c.RecommendedRoles == nil {
		c.RecommendedRoles = []string{}
	}
	if c.RecommendedUnits == nil {
		c.RecommendedUnits = []string{}
	}
	return nil
}
