package casegraph

import (
	"fmt"

	"github.com/google/uuid"
)

// Severity grades an authoring issue.
type Severity string

// Possible severities
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode identifies the kind of authoring issue.
type IssueCode string

// Possible issue codes
const (
	IssueMissingStartNode    IssueCode = "missing_start_node"
	IssueUnknownStartNode    IssueCode = "unknown_start_node"
	IssueForeignNode         IssueCode = "foreign_node"
	IssueDeadEnd             IssueCode = "dead_end"
	IssueDanglingOption      IssueCode = "dangling_option_target"
	IssueDanglingAutoAdvance IssueCode = "dangling_auto_advance"
	IssueTerminalWithExits   IssueCode = "terminal_with_exits"
	IssueUnreachableNode     IssueCode = "unreachable_node"
)

// Issue is one finding of the authoring validation pass.
type Issue struct {
	Code     IssueCode  `json:"code"`
	Severity Severity   `json:"severity"`
	NodeID   *uuid.UUID `json:"node_id,omitempty"`
	OptionID *uuid.UUID `json:"option_id,omitempty"`
	Message  string     `json:"message"`
}

// HasErrors reports whether any issue is an error rather than a warning.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks a graph against the authoring invariants and returns
// every violation found, in node display order. It never fails on a
// malformed graph; malformation is what it reports.
func Validate(g *Graph) []Issue {
	issues := []Issue{}

	if g.Case.StartNodeID == nil {
		issues = append(issues, Issue{
			Code:     IssueMissingStartNode,
			Severity: SeverityError,
			Message:  "case has no start node",
		})
	} else if !g.HasNode(*g.Case.StartNodeID) {
		start := *g.Case.StartNodeID
		issues = append(issues, Issue{
			Code:     IssueUnknownStartNode,
			Severity: SeverityError,
			NodeID:   &start,
			Message:  "start node is not among the case's nodes",
		})
	}

	for i := range g.Nodes {
		node := &g.Nodes[i]
		nodeID := node.ID

		if node.CaseID != g.Case.ID {
			issues = append(issues, Issue{
				Code:     IssueForeignNode,
				Severity: SeverityError,
				NodeID:   &nodeID,
				Message:  fmt.Sprintf("node belongs to case %s", node.CaseID),
			})
		}

		if !node.IsTerminal && node.AutoAdvanceTo == nil && len(node.Options) == 0 {
			issues = append(issues, Issue{
				Code:     IssueDeadEnd,
				Severity: SeverityError,
				NodeID:   &nodeID,
				Message:  "non-terminal node has no options and no auto-advance target",
			})
		}

		if node.AutoAdvanceTo != nil && !g.HasNode(*node.AutoAdvanceTo) {
			issues = append(issues, Issue{
				Code:     IssueDanglingAutoAdvance,
				Severity: SeverityError,
				NodeID:   &nodeID,
				Message:  "auto-advance target is not a node of this case",
			})
		}

		for j := range node.Options {
			opt := &node.Options[j]
			optionID := opt.ID
			if opt.NextNodeID == nil {
				continue
			}
			if !g.HasNode(*opt.NextNodeID) {
				issues = append(issues, Issue{
					Code:     IssueDanglingOption,
					Severity: SeverityError,
					NodeID:   &nodeID,
					OptionID: &optionID,
					Message:  "option target is not a node of this case",
				})
			} else if node.IsTerminal {
				issues = append(issues, Issue{
					Code:     IssueTerminalWithExits,
					Severity: SeverityWarning,
					NodeID:   &nodeID,
					OptionID: &optionID,
					Message:  "terminal node offers an option that leads elsewhere",
				})
			}
		}
	}

	if start, ok := g.StartNode(); ok {
		reached := g.reachableFrom(start.ID)
		for i := range g.Nodes {
			if reached[g.Nodes[i].ID] {
				continue
			}
			nodeID := g.Nodes[i].ID
			issues = append(issues, Issue{
				Code:     IssueUnreachableNode,
				Severity: SeverityWarning,
				NodeID:   &nodeID,
				Message:  "node cannot be reached from the start node",
			})
		}
	}

	return issues
}

// reachableFrom walks every edge breadth-first. Visited nodes are never
// re-queued, so cycles terminate.
func (g *Graph) reachableFrom(start uuid.UUID) map[uuid.UUID]bool {
	seen := map[uuid.UUID]bool{start: true}
	queue := []uuid.UUID{start}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		node, ok := g.Node(id)
		if !ok {
			continue
		}

		targets := make([]*uuid.UUID, 0, len(node.Options)+1)
		targets = append(targets, node.AutoAdvanceTo)
		for j := range node.Options {
			targets = append(targets, node.Options[j].NextNodeID)
		}

		for _, t := range targets {
			if t == nil || seen[*t] || !g.HasNode(*t) {
				continue
			}
			seen[*t] = true
			queue = append(queue, *t)
		}
	}

	return seen
}
