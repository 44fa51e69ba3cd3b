package casegraph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescore(t *testing.T) {
	t.Parallel()

	s := newScenario()
	g := s.graph()
	foreignOpt := uuid.New()

	tests := []struct {
		name          string
		steps         []domain.AttemptStep
		wantClean     bool
		wantKinds     []DiscrepancyKind
		wantReported  int
		wantRecompute int
	}{
		{
			name: "scenario matches",
			steps: []domain.AttemptStep{
				{NodeID: s.n1, OptionID: uuidPtr(s.o1), ScoreDelta: 2},
				{NodeID: s.n2},
			},
			wantClean:     true,
			wantReported:  2,
			wantRecompute: 2,
		},
		{
			name:          "inflated delta",
			steps:         []domain.AttemptStep{{NodeID: s.n1, OptionID: uuidPtr(s.o2), ScoreDelta: 5}},
			wantKinds:     []DiscrepancyKind{DiscrepancyDeltaMismatch},
			wantReported:  5,
			wantRecompute: -1,
		},
		{
			name:         "unknown node",
			steps:        []domain.AttemptStep{{NodeID: uuid.New(), ScoreDelta: 1}},
			wantKinds:    []DiscrepancyKind{DiscrepancyUnknownNode},
			wantReported: 1,
		},
		{
			name:         "option of another node",
			steps:        []domain.AttemptStep{{NodeID: s.n2, OptionID: uuidPtr(s.o1), ScoreDelta: 2}},
			wantKinds:    []DiscrepancyKind{DiscrepancyOptionNotOnNode},
			wantReported: 2,
		},
		{
			name:         "unknown option",
			steps:        []domain.AttemptStep{{NodeID: s.n1, OptionID: &foreignOpt}},
			wantKinds:    []DiscrepancyKind{DiscrepancyUnknownOption},
			wantReported: 0,
		},
		{
			name: "step after a dangling choice",
			steps: []domain.AttemptStep{
				{NodeID: s.n1, OptionID: uuidPtr(s.o2), ScoreDelta: -1},
				{NodeID: s.n2},
			},
			wantKinds:     []DiscrepancyKind{DiscrepancyPathBreak},
			wantReported:  -1,
			wantRecompute: -1,
		},
		{
			name: "step off the chosen edge",
			steps: []domain.AttemptStep{
				{NodeID: s.n1, OptionID: uuidPtr(s.o1), ScoreDelta: 2},
				{NodeID: s.n1, OptionID: uuidPtr(s.o1), ScoreDelta: 2},
			},
			wantKinds:     []DiscrepancyKind{DiscrepancyPathBreak},
			wantReported:  4,
			wantRecompute: 4,
		},
		{
			name: "step after the terminal node",
			steps: []domain.AttemptStep{
				{NodeID: s.n1, OptionID: uuidPtr(s.o1), ScoreDelta: 2},
				{NodeID: s.n2},
				{NodeID: s.n1},
			},
			wantKinds:     []DiscrepancyKind{DiscrepancyPathBreak},
			wantReported:  2,
			wantRecompute: 2,
		},
		{
			name: "unresolvable step is not also a path break",
			steps: []domain.AttemptStep{
				{NodeID: s.n1, OptionID: &foreignOpt},
				{NodeID: s.n2},
			},
			wantKinds: []DiscrepancyKind{DiscrepancyUnknownOption},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := append([]domain.AttemptStep(nil), tc.steps...)
			audit := Rescore(g, tc.steps)

			assert.Equal(t, tc.wantClean, audit.Clean())
			assert.Equal(t, tc.wantReported, audit.ReportedTotal)
			assert.Equal(t, tc.wantRecompute, audit.RecomputedTotal)
			require.Len(t, audit.Discrepancies, len(tc.wantKinds))
			for i, kind := range tc.wantKinds {
				assert.Equal(t, kind, audit.Discrepancies[i].Kind)
			}
			assert.Equal(t, before, tc.steps, "rescoring never modifies the reported steps")
		})
	}
}

func TestRescorePathBreakTarget(t *testing.T) {
	t.Parallel()

	s := newScenario()
	audit := Rescore(s.graph(), []domain.AttemptStep{
		{NodeID: s.n1, OptionID: uuidPtr(s.o1), ScoreDelta: 2},
		{NodeID: s.n1, OptionID: uuidPtr(s.o2), ScoreDelta: -1},
	})

	require.Len(t, audit.Discrepancies, 1)
	d := audit.Discrepancies[0]
	assert.Equal(t, 1, d.StepIndex)
	require.NotNil(t, d.ExpectedNodeID)
	assert.Equal(t, s.n2, *d.ExpectedNodeID)

	ended := Rescore(s.graph(), []domain.AttemptStep{
		{NodeID: s.n1, OptionID: uuidPtr(s.o2), ScoreDelta: -1},
		{NodeID: s.n2},
	})
	require.Len(t, ended.Discrepancies, 1)
	assert.Nil(t, ended.Discrepancies[0].ExpectedNodeID, "a dangling target ends play")
}
