package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
)

// DefaultCaseListLimit caps a case listing when no limit is given.
const DefaultCaseListLimit = 50

// Visibility selects which cases a listing may return. Each value is
// evaluated as its own disjoint branch of the query.
type Visibility interface {
	visibility()
}

// Published selects cases with the publication flag set.
type Published struct{}

// OwnedBy selects draft cases authored by the given user.
type OwnedBy struct {
	UserID uuid.UUID
}

func (Published) visibility() {}
func (OwnedBy) visibility()   {}

// CaseFilter describes a case listing.
type CaseFilter struct {
	// Visibility branches are combined with OR. An empty list selects nothing.
	Visibility []Visibility
	// Limit caps the number of rows; zero means DefaultCaseListLimit.
	Limit int
}

// CaseStore defines the interface for reading micro cases and their graphs.
// Version: 1.0
type CaseStore interface {
	// ListCases returns case summaries matching the filter, most recently
	// updated first. Returns an empty slice if nothing matches.
	ListCases(ctx context.Context, filter CaseFilter) ([]domain.CaseSummary, error)

	// GetCase retrieves a case row by its ID.
	// Returns ErrCaseNotFound if the case does not exist.
	GetCase(ctx context.Context, id uuid.UUID) (*domain.MicroCase, error)

	// ListNodes returns the nodes of a case ordered by their order index.
	ListNodes(ctx context.Context, caseID uuid.UUID) ([]domain.Node, error)

	// ListOptions returns the options owned by any of the given nodes,
	// in creation order. Returns an empty slice for an empty node set
	// without querying.
	ListOptions(ctx context.Context, nodeIDs []uuid.UUID) ([]domain.Option, error)
}
