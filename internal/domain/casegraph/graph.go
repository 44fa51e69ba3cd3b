package casegraph

import (
	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
)

// NodeWithOptions is a node together with the options offered on it,
// in creation order.
type NodeWithOptions struct {
	domain.Node
	Options []domain.Option `json:"options"`
}

// Graph is the in-memory form of one case: its nodes in display order,
// each carrying its options. Edges are plain identifier references and
// may form cycles.
type Graph struct {
	Case  domain.MicroCase
	Nodes []NodeWithOptions

	// StartNodeMissing is set when the case names no start node or names
	// one that is not among its nodes. It is reported, never fatal.
	StartNodeMissing bool

	index map[uuid.UUID]int
}

// Build assembles a graph from a case and its rows. Nodes keep the order
// they are given in; options are grouped by node keeping their relative
// order. Options whose node is not in the set are ignored.
func Build(c domain.MicroCase, nodes []domain.Node, options []domain.Option) *Graph {
	g := &Graph{
		Case:  c,
		Nodes: make([]NodeWithOptions, len(nodes)),
		index: make(map[uuid.UUID]int, len(nodes)),
	}

	for i, n := range nodes {
		g.Nodes[i] = NodeWithOptions{Node: n, Options: []domain.Option{}}
		g.index[n.ID] = i
	}

	for _, o := range options {
		i, ok := g.index[o.NodeID]
		if !ok {
			continue
		}
		g.Nodes[i].Options = append(g.Nodes[i].Options, o)
	}

	if c.StartNodeID == nil {
		g.StartNodeMissing = true
	} else if _, ok := g.index[*c.StartNodeID]; !ok {
		g.StartNodeMissing = true
	}

	return g
}

// Node looks up a node by ID.
func (g *Graph) Node(id uuid.UUID) (*NodeWithOptions, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// HasNode reports whether the graph contains the node.
func (g *Graph) HasNode(id uuid.UUID) bool {
	_, ok := g.index[id]
	return ok
}

// StartNode returns the case's designated start node when it exists.
func (g *Graph) StartNode() (*NodeWithOptions, bool) {
	if g.StartNodeMissing {
		return nil, false
	}
	return g.Node(*g.Case.StartNodeID)
}

// Option looks up an option offered on the given node.
func (g *Graph) Option(nodeID, optionID uuid.UUID) (*domain.Option, bool) {
	n, ok := g.Node(nodeID)
	if !ok {
		return nil, false
	}
	for i := range n.Options {
		if n.Options[i].ID == optionID {
			return &n.Options[i], true
		}
	}
	return nil, false
}

// findOption searches every node for the option.
func (g *Graph) findOption(optionID uuid.UUID) (*domain.Option, bool) {
	for i := range g.Nodes {
		for j := range g.Nodes[i].Options {
			if g.Nodes[i].Options[j].ID == optionID {
				return &g.Nodes[i].Options[j], true
			}
		}
	}
	return nil, false
}

// OptionCount returns the total number of options in the graph.
func (g *Graph) OptionCount() int {
	total := 0
	for _, n := range g.Nodes {
		total += len(n.Options)
	}
	return total
}
