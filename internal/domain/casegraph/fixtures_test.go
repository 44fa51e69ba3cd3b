package casegraph

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
)

// scenario is the C1 case: start node N1 offers O1 (to N2, +2) and O2
// (to N3, -1). N2 is terminal. N3 is never authored, so O2 dangles.
type scenario struct {
	caseID     uuid.UUID
	author     uuid.UUID
	n1, n2, n3 uuid.UUID
	o1, o2     uuid.UUID
	microCase  domain.MicroCase
	nodes      []domain.Node
	options    []domain.Option
}

func newScenario() scenario {
	s := scenario{
		caseID: uuid.New(),
		author: uuid.New(),
		n1:     uuid.New(),
		n2:     uuid.New(),
		n3:     uuid.New(),
		o1:     uuid.New(),
		o2:     uuid.New(),
	}

	s.microCase = domain.MicroCase{
		ID:          s.caseID,
		Slug:        "c1",
		Title:       "Bronchiolitis triage",
		IsPublished: true,
		CreatedBy:   s.author,
		StartNodeID: uuidPtr(s.n1),
	}
	s.nodes = []domain.Node{
		{ID: s.n1, CaseID: s.caseID, Kind: domain.NodeKindDecision, OrderIndex: 0},
		{ID: s.n2, CaseID: s.caseID, Kind: domain.NodeKindOutcome, OrderIndex: 1, IsTerminal: true},
	}
	now := time.Now()
	s.options = []domain.Option{
		{ID: s.o1, NodeID: s.n1, Label: "Give oxygen", NextNodeID: uuidPtr(s.n2), ScoreDelta: 2, CreatedAt: now},
		{ID: s.o2, NodeID: s.n1, Label: "Discharge", NextNodeID: uuidPtr(s.n3), ScoreDelta: -1, CreatedAt: now.Add(time.Second)},
	}
	return s
}

func (s scenario) graph() *Graph {
	return Build(s.microCase, s.nodes, s.options)
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
