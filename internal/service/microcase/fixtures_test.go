package microcase

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/domain/casegraph"
)

// c1 is a case with start node N1 (decision: O1→N2 +2, O2→N3 -1) and a
// terminal node N2. N3 does not exist.
type c1 struct {
	author uuid.UUID
	c      domain.MicroCase
	n1, n2 domain.Node
	o1, o2 domain.Option
	n3     uuid.UUID
}

func newC1(published bool) c1 {
	f := c1{author: uuid.New(), n3: uuid.New()}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	caseID := uuid.New()
	f.n1 = domain.Node{ID: uuid.New(), CaseID: caseID, Kind: domain.NodeKindDecision, OrderIndex: 0}
	f.n2 = domain.Node{ID: uuid.New(), CaseID: caseID, Kind: domain.NodeKindOutcome, OrderIndex: 1, IsTerminal: true}
	f.o1 = domain.Option{ID: uuid.New(), NodeID: f.n1.ID, Label: "Give aspirin", NextNodeID: &f.n2.ID, ScoreDelta: 2, CreatedAt: now}
	f.o2 = domain.Option{ID: uuid.New(), NodeID: f.n1.ID, Label: "Discharge", NextNodeID: &f.n3, ScoreDelta: -1, CreatedAt: now.Add(time.Second)}

	start := f.n1.ID
	f.c = domain.MicroCase{
		ID:          caseID,
		Slug:        "c1",
		Title:       "Chest pain",
		IsPublished: published,
		CreatedBy:   f.author,
		StartNodeID: &start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return f
}

func (f c1) nodes() []domain.Node {
	return []domain.Node{f.n1, f.n2}
}

func (f c1) nodeIDs() []uuid.UUID {
	return []uuid.UUID{f.n1.ID, f.n2.ID}
}

func (f c1) options() []domain.Option {
	return []domain.Option{f.o1, f.o2}
}

func (f c1) playthrough() []casegraph.StepInput {
	return []casegraph.StepInput{
		{NodeID: &f.n1.ID, OptionID: &f.o1.ID, ScoreDelta: intPtr(2)},
		{NodeID: &f.n2.ID, ScoreDelta: intPtr(0)},
	}
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
