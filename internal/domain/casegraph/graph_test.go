package casegraph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("groups options by node in given order", func(t *testing.T) {
		s := newScenario()
		g := s.graph()

		require.Len(t, g.Nodes, 2)
		assert.Equal(t, s.n1, g.Nodes[0].ID)
		assert.Equal(t, s.n2, g.Nodes[1].ID)

		require.Len(t, g.Nodes[0].Options, 2)
		assert.Equal(t, s.o1, g.Nodes[0].Options[0].ID)
		assert.Equal(t, s.o2, g.Nodes[0].Options[1].ID)
		assert.NotNil(t, g.Nodes[1].Options, "nodes without options carry an empty list")
		assert.Empty(t, g.Nodes[1].Options)
		assert.False(t, g.StartNodeMissing)
		assert.Equal(t, 2, g.OptionCount())
	})

	t.Run("ignores options of nodes outside the set", func(t *testing.T) {
		s := newScenario()
		stray := domain.Option{ID: uuid.New(), NodeID: uuid.New(), Label: "stray"}
		g := Build(s.microCase, s.nodes, append(s.options, stray))

		assert.Equal(t, 2, g.OptionCount())
	})

	t.Run("flags missing start node", func(t *testing.T) {
		s := newScenario()
		s.microCase.StartNodeID = nil
		g := s.graph()

		assert.True(t, g.StartNodeMissing)
		_, ok := g.StartNode()
		assert.False(t, ok)
	})

	t.Run("flags start node outside the case", func(t *testing.T) {
		s := newScenario()
		s.microCase.StartNodeID = uuidPtr(uuid.New())
		g := s.graph()

		assert.True(t, g.StartNodeMissing)
	})

	t.Run("empty case", func(t *testing.T) {
		s := newScenario()
		g := Build(s.microCase, nil, nil)

		assert.Empty(t, g.Nodes)
		assert.True(t, g.StartNodeMissing)
	})
}

func TestGraphLookups(t *testing.T) {
	t.Parallel()

	s := newScenario()
	g := s.graph()

	start, ok := g.StartNode()
	require.True(t, ok)
	assert.Equal(t, s.n1, start.ID)

	opt, ok := g.Option(s.n1, s.o2)
	require.True(t, ok)
	assert.Equal(t, -1, opt.ScoreDelta)

	_, ok = g.Option(s.n2, s.o1)
	assert.False(t, ok, "option is looked up on its own node only")

	_, ok = g.Node(s.n3)
	assert.False(t, ok)
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	s := newScenario()
	first := s.graph()
	second := s.graph()

	assert.Equal(t, first, second)
}
