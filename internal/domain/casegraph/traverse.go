package casegraph

import (
	"errors"

	"github.com/google/uuid"
)

// Common traversal errors
var (
	ErrUnknownNode   = errors.New("node is not part of the case")
	ErrUnknownOption = errors.New("option is not offered on the node")
)

// Transition is the outcome of choosing an option (or advancing) at a node.
type Transition struct {
	From uuid.UUID
	// To is the next node, nil when the play-through ends here.
	To *uuid.UUID
	// Dangling is set when a target was named but is not in the case.
	// Such a target ends the play-through instead of failing it.
	Dangling bool
}

// End reports whether the transition finishes the play-through.
func (t Transition) End() bool {
	return t.To == nil
}

// Next computes where play continues after the given node. The chosen
// option's target wins, then the node's auto-advance target; with
// neither, play ends. A dangling target is treated as terminal.
// Next inspects a single edge and never walks the graph, so cycles are
// harmless here.
func (g *Graph) Next(nodeID uuid.UUID, optionID *uuid.UUID) (Transition, error) {
	node, ok := g.Node(nodeID)
	if !ok {
		return Transition{}, ErrUnknownNode
	}

	t := Transition{From: nodeID}

	var target *uuid.UUID
	if optionID != nil {
		opt, ok := g.Option(nodeID, *optionID)
		if !ok {
			return Transition{}, ErrUnknownOption
		}
		target = opt.NextNodeID
	}
	if target == nil && !node.IsTerminal {
		target = node.AutoAdvanceTo
	}

	if target == nil {
		return t, nil
	}
	if !g.HasNode(*target) {
		t.Dangling = true
		return t, nil
	}

	next := *target
	t.To = &next
	return t, nil
}
