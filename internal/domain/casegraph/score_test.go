package casegraph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Scenario(t *testing.T) {
	t.Parallel()

	s := newScenario()
	scored := Score([]StepInput{
		{NodeID: uuidPtr(s.n1), OptionID: uuidPtr(s.o1), ScoreDelta: intPtr(2)},
		{NodeID: uuidPtr(s.n2), ScoreDelta: intPtr(0)},
	})

	assert.Equal(t, 2, scored.TotalScore)
	assert.Equal(t, 2, scored.Total(nil))
	assert.Zero(t, scored.Dropped)
	require.Len(t, scored.Steps, 2)
	assert.Equal(t, s.n1, scored.Steps[0].NodeID)
	assert.Equal(t, uuidPtr(s.o1), scored.Steps[0].OptionID)
	assert.Equal(t, s.n2, scored.Steps[1].NodeID)
	assert.Nil(t, scored.Steps[1].OptionID)
}

func TestScore(t *testing.T) {
	t.Parallel()

	node := uuid.New()
	elapsed := int64(1500)

	tests := []struct {
		name        string
		steps       []StepInput
		wantTotal   int
		wantKept    int
		wantDropped int
	}{
		{name: "no steps", steps: nil},
		{
			name: "step without node is dropped",
			steps: []StepInput{
				{NodeID: uuidPtr(node), ScoreDelta: intPtr(3)},
				{ScoreDelta: intPtr(10)},
			},
			wantTotal:   3,
			wantKept:    1,
			wantDropped: 1,
		},
		{
			name:        "nil uuid counts as missing",
			steps:       []StepInput{{NodeID: uuidPtr(uuid.Nil), ScoreDelta: intPtr(4)}},
			wantDropped: 1,
		},
		{
			name:      "missing delta defaults to zero",
			steps:     []StepInput{{NodeID: uuidPtr(node), ElapsedMs: &elapsed}},
			wantKept:  1,
			wantTotal: 0,
		},
		{
			name: "negative deltas are summed as reported",
			steps: []StepInput{
				{NodeID: uuidPtr(node), ScoreDelta: intPtr(-2)},
				{NodeID: uuidPtr(node), ScoreDelta: intPtr(5)},
			},
			wantTotal: 3,
			wantKept:  2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scored := Score(tc.steps)
			assert.Equal(t, tc.wantTotal, scored.TotalScore)
			assert.Len(t, scored.Steps, tc.wantKept)
			assert.Equal(t, tc.wantDropped, scored.Dropped)
			assert.NotNil(t, scored.Steps)
		})
	}
}

func TestScored_TotalPrefersDeclared(t *testing.T) {
	t.Parallel()

	scored := Score([]StepInput{{NodeID: uuidPtr(uuid.New()), ScoreDelta: intPtr(2)}})

	assert.Equal(t, 7, scored.Total(intPtr(7)))
	assert.Equal(t, 0, scored.Total(intPtr(0)))
	assert.Equal(t, 2, scored.Total(nil))
}

func TestResolveStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		completed bool
		declared  string
		want      domain.AttemptStatus
		wantErr   bool
	}{
		{name: "default", want: domain.AttemptStatusInProgress},
		{name: "completed flag wins", completed: true, declared: "in_progress", want: domain.AttemptStatusCompleted},
		{name: "declared in progress", declared: "in_progress", want: domain.AttemptStatusInProgress},
		{name: "declared completed", declared: "completed", want: domain.AttemptStatusCompleted},
		{name: "unknown status", declared: "abandoned", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveStatus(tc.completed, tc.declared)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
