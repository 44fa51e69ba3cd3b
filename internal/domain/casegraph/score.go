package casegraph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
)

// ErrInvalidStatus is returned when a declared attempt status is unknown.
var ErrInvalidStatus = errors.New("invalid declared attempt status")

// StepInput is a step as reported by the client. Every field is optional;
// steps without a node are dropped when scoring.
type StepInput struct {
	NodeID       *uuid.UUID
	OptionID     *uuid.UUID
	OutcomeLabel *string
	ScoreDelta   *int
	ElapsedMs    *int64
}

// Scored is the normalized result of scoring a submitted step sequence.
type Scored struct {
	// TotalScore is the sum of the reported deltas of the kept steps.
	TotalScore int
	// Steps are the kept steps, in submission order.
	Steps []domain.AttemptStep
	// Dropped counts the steps discarded for lacking a node.
	Dropped int
}

// Score normalizes a client-assembled step sequence. Deltas are taken as
// reported and are not checked against the case's options; see Rescore
// for that comparison.
func Score(steps []StepInput) Scored {
	s := Scored{Steps: make([]domain.AttemptStep, 0, len(steps))}

	for _, in := range steps {
		if in.NodeID == nil || *in.NodeID == uuid.Nil {
			s.Dropped++
			continue
		}

		delta := 0
		if in.ScoreDelta != nil {
			delta = *in.ScoreDelta
		}

		s.Steps = append(s.Steps, domain.AttemptStep{
			NodeID:       *in.NodeID,
			OptionID:     in.OptionID,
			OutcomeLabel: in.OutcomeLabel,
			ScoreDelta:   delta,
			ElapsedMs:    in.ElapsedMs,
		})
		s.TotalScore += delta
	}

	return s
}

// Total returns the score to store on the attempt: the client-declared
// total when one was sent, otherwise the sum of the kept steps.
func (s Scored) Total(declared *int) int {
	if declared != nil {
		return *declared
	}
	return s.TotalScore
}

// ResolveStatus decides the status of a new attempt. A completed flag or a
// declared "completed" status completes the attempt; otherwise the declared
// status is kept, defaulting to in_progress.
func ResolveStatus(completed bool, declared string) (domain.AttemptStatus, error) {
	if completed {
		return domain.AttemptStatusCompleted, nil
	}
	if declared == "" {
		return domain.AttemptStatusInProgress, nil
	}

	status := domain.AttemptStatus(declared)
	if !domain.IsValidAttemptStatus(status) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, declared)
	}
	return status, nil
}
