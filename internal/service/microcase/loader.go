package microcase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/domain/casegraph"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/store"
)

// Gate decides whether a loaded case row may be expanded into its graph.
// It runs after the case is found and before any node is read.
type Gate func(c *domain.MicroCase) error

// Loader reads a case with its nodes and options and assembles the graph.
type Loader struct {
	cases  store.CaseStore
	logger *slog.Logger
}

// NewLoader creates a Loader reading from the given case store.
func NewLoader(cases store.CaseStore, logger *slog.Logger) *Loader {
	if cases == nil {
		panic("cases cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		cases:  cases,
		logger: logger.With(slog.String("component", "case_loader")),
	}
}

// LoadCase loads the full graph of a case without any access check.
func (l *Loader) LoadCase(ctx context.Context, caseID uuid.UUID) (*casegraph.Graph, error) {
	return l.Load(ctx, caseID, nil)
}

// LoadCaseFor loads a case on behalf of a caller, refusing drafts the
// caller does not own with ErrForbidden.
func (l *Loader) LoadCaseFor(
	ctx context.Context,
	caller domain.Caller,
	caseID uuid.UUID,
) (*casegraph.Graph, error) {
	return l.Load(ctx, caseID, func(c *domain.MicroCase) error {
		if !CanViewCase(caller, c) {
			return ErrForbidden
		}
		return nil
	})
}

// Load fetches the case row, applies gate, then reads nodes and their
// options. A missing case returns ErrCaseNotFound before any node query.
// Options are only queried when the case has nodes.
func (l *Loader) Load(ctx context.Context, caseID uuid.UUID, gate Gate) (*casegraph.Graph, error) {
	log := logger.FromContextOrDefault(ctx, l.logger).With(slog.String("case_id", caseID.String()))

	c, err := l.cases.GetCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, store.ErrCaseNotFound) {
			log.Debug("case not found")
			return nil, ErrCaseNotFound
		}
		log.Error("failed to load case", slog.String("error", err.Error()))
		return nil, NewServiceError("load_case", "failed to read case", err)
	}

	if gate != nil {
		if err := gate(c); err != nil {
			log.Debug("case load refused", slog.String("reason", err.Error()))
			return nil, err
		}
	}

	nodes, err := l.cases.ListNodes(ctx, caseID)
	if err != nil {
		log.Error("failed to load nodes", slog.String("error", err.Error()))
		return nil, NewServiceError("load_case", "failed to read nodes", err)
	}

	var options []domain.Option
	if len(nodes) > 0 {
		nodeIDs := make([]uuid.UUID, len(nodes))
		for i, n := range nodes {
			nodeIDs[i] = n.ID
		}
		options, err = l.cases.ListOptions(ctx, nodeIDs)
		if err != nil {
			log.Error("failed to load options", slog.String("error", err.Error()))
			return nil, NewServiceError("load_case", "failed to read options", err)
		}
	}

	g := casegraph.Build(*c, nodes, options)
	if g.StartNodeMissing {
		log.Warn("case start node is not among its nodes")
	}

	log.Debug("case graph loaded",
		slog.Int("node_count", len(g.Nodes)),
		slog.Int("option_count", g.OptionCount()))
	return g, nil
}
