package casegraph

import (
	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
)

// DiscrepancyKind names how a reported step disagrees with the case.
type DiscrepancyKind string

// Possible discrepancy kinds
const (
	DiscrepancyUnknownNode     DiscrepancyKind = "unknown_node"
	DiscrepancyUnknownOption   DiscrepancyKind = "unknown_option"
	DiscrepancyOptionNotOnNode DiscrepancyKind = "option_not_on_node"
	DiscrepancyDeltaMismatch   DiscrepancyKind = "delta_mismatch"
	DiscrepancyPathBreak       DiscrepancyKind = "path_break"
)

// Discrepancy is one step whose reported data differs from the case.
type Discrepancy struct {
	StepIndex int             `json:"step_index"`
	Kind      DiscrepancyKind `json:"kind"`
	NodeID    uuid.UUID       `json:"node_id"`
	OptionID  *uuid.UUID      `json:"option_id,omitempty"`
	Reported  int             `json:"reported"`
	Expected  int             `json:"expected"`
	// ExpectedNodeID is where play should have continued, for a path
	// break. Nil when play should have ended.
	ExpectedNodeID *uuid.UUID `json:"expected_node_id,omitempty"`
}

// Audit compares reported scoring with what the case's options award.
type Audit struct {
	ReportedTotal   int           `json:"reported_total"`
	RecomputedTotal int           `json:"recomputed_total"`
	Discrepancies   []Discrepancy `json:"discrepancies"`
}

// Clean reports whether the reported steps match the case exactly.
func (a Audit) Clean() bool {
	return len(a.Discrepancies) == 0 && a.ReportedTotal == a.RecomputedTotal
}

// Rescore recomputes each step's delta from the authoritative options.
// A step without an option is expected to carry a zero delta. Steps on
// unknown nodes or options contribute nothing to the recomputed total.
// Each step must also sit where the previous step's choice leads; a step
// following one that ended play is a path break too. The steps themselves
// are not modified.
func Rescore(g *Graph, steps []domain.AttemptStep) Audit {
	a := Audit{Discrepancies: []Discrepancy{}}

	for i, step := range steps {
		a.ReportedTotal += step.ScoreDelta

		if i > 0 {
			if d, broken := pathBreak(g, steps[i-1], step); broken {
				d.StepIndex = i
				a.Discrepancies = append(a.Discrepancies, d)
			}
		}

		if !g.HasNode(step.NodeID) {
			a.Discrepancies = append(a.Discrepancies, Discrepancy{
				StepIndex: i,
				Kind:      DiscrepancyUnknownNode,
				NodeID:    step.NodeID,
				OptionID:  step.OptionID,
				Reported:  step.ScoreDelta,
			})
			continue
		}

		expected := 0
		if step.OptionID != nil {
			opt, ok := g.Option(step.NodeID, *step.OptionID)
			if !ok {
				kind := DiscrepancyUnknownOption
				if _, elsewhere := g.findOption(*step.OptionID); elsewhere {
					kind = DiscrepancyOptionNotOnNode
				}
				a.Discrepancies = append(a.Discrepancies, Discrepancy{
					StepIndex: i,
					Kind:      kind,
					NodeID:    step.NodeID,
					OptionID:  step.OptionID,
					Reported:  step.ScoreDelta,
				})
				continue
			}
			expected = opt.ScoreDelta
		}

		a.RecomputedTotal += expected
		if expected != step.ScoreDelta {
			a.Discrepancies = append(a.Discrepancies, Discrepancy{
				StepIndex: i,
				Kind:      DiscrepancyDeltaMismatch,
				NodeID:    step.NodeID,
				OptionID:  step.OptionID,
				Reported:  step.ScoreDelta,
				Expected:  expected,
			})
		}
	}

	return a
}

// pathBreak checks that cur is where prev's choice leads. A prev step the
// graph cannot resolve is already reported on its own and is skipped.
func pathBreak(g *Graph, prev, cur domain.AttemptStep) (Discrepancy, bool) {
	t, err := g.Next(prev.NodeID, prev.OptionID)
	if err != nil {
		return Discrepancy{}, false
	}
	if !t.End() && *t.To == cur.NodeID {
		return Discrepancy{}, false
	}
	return Discrepancy{
		Kind:           DiscrepancyPathBreak,
		NodeID:         cur.NodeID,
		OptionID:       cur.OptionID,
		Reported:       cur.ScoreDelta,
		ExpectedNodeID: t.To,
	}, true
}
