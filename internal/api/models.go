package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/domain/casegraph"
	"github.com/phrazzld/microcase-api/internal/service/microcase"
)

// StepRequest is one visited node as reported by the player.
type StepRequest struct {
	NodeID       *string `json:"nodeId"`
	OptionID     *string `json:"optionId"`
	OutcomeLabel *string `json:"outcomeLabel"`
	ScoreDelta   *int    `json:"scoreDelta"   validate:"omitempty,min=-2147483648,max=2147483647"`
	ElapsedMs    *int64  `json:"elapsedMs"    validate:"omitempty,gte=0"`
}

// SubmitAttemptRequest defines the payload for recording an attempt.
// Steps must be present, though it may be empty.
type SubmitAttemptRequest struct {
	CaseID          string        `json:"caseId"          validate:"required"`
	Steps           []StepRequest `json:"steps"           validate:"required,dive"`
	Completed       bool          `json:"completed"`
	Status          string        `json:"status"          validate:"omitempty,oneof=in_progress completed"`
	ScoreTotal      *int          `json:"scoreTotal"      validate:"omitempty,min=-2147483648,max=2147483647"`
	DurationSeconds *int          `json:"durationSeconds" validate:"omitempty,gte=0,max=2147483647"`
	AttemptRole     *string       `json:"attemptRole"     validate:"omitempty,max=64"`
	// ParticipantRole is the name older players send for AttemptRole.
	ParticipantRole *string `json:"participantRole" validate:"omitempty,max=64"`
}

// ToSubmission parses identifiers and returns the service input.
// Empty identifiers count as absent; malformed ones are an error.
func (req SubmitAttemptRequest) ToSubmission() (microcase.Submission, error) {
	caseID, err := uuid.Parse(strings.TrimSpace(req.CaseID))
	if err != nil {
		return microcase.Submission{}, fmt.Errorf("caseId is not a UUID")
	}

	steps := make([]casegraph.StepInput, len(req.Steps))
	for i, s := range req.Steps {
		nodeID, err := optionalUUID(s.NodeID)
		if err != nil {
			return microcase.Submission{}, fmt.Errorf("steps[%d].nodeId is not a UUID", i)
		}
		optionID, err := optionalUUID(s.OptionID)
		if err != nil {
			return microcase.Submission{}, fmt.Errorf("steps[%d].optionId is not a UUID", i)
		}
		steps[i] = casegraph.StepInput{
			NodeID:       nodeID,
			OptionID:     optionID,
			OutcomeLabel: s.OutcomeLabel,
			ScoreDelta:   s.ScoreDelta,
			ElapsedMs:    s.ElapsedMs,
		}
	}

	role := req.AttemptRole
	if role == nil || *role == "" {
		role = req.ParticipantRole
	}
	if role != nil && *role == "" {
		role = nil
	}

	return microcase.Submission{
		CaseID:          caseID,
		Completed:       req.Completed,
		Status:          req.Status,
		ScoreTotal:      req.ScoreTotal,
		DurationSeconds: req.DurationSeconds,
		AttemptRole:     role,
		Steps:           steps,
	}, nil
}

func optionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CaseSummaryResponse is one row of a case listing.
type CaseSummaryResponse struct {
	ID               uuid.UUID `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	Summary          string    `json:"summary"`
	EstimatedMinutes *int      `json:"estimated_minutes"`
	Difficulty       string    `json:"difficulty"`
	RecommendedRoles []string  `json:"recommended_roles"`
	RecommendedUnits []string  `json:"recommended_units"`
	IsPublished      bool      `json:"is_published"`
	UpdatedAt        time.Time `json:"updated_at"`
	NodeCount        int       `json:"node_count"`
}

// OptionResponse is an option as shown to the player.
type OptionResponse struct {
	ID         uuid.UUID  `json:"id"`
	NodeID     uuid.UUID  `json:"node_id"`
	Label      string     `json:"label"`
	NextNodeID *uuid.UUID `json:"next_node_id"`
	FeedbackMD *string    `json:"feedback_md"`
	ScoreDelta int        `json:"score_delta"`
	IsCritical bool       `json:"is_critical"`
}

// NodeResponse is a node with its options.
type NodeResponse struct {
	ID            uuid.UUID        `json:"id"`
	CaseID        uuid.UUID        `json:"case_id"`
	Kind          domain.NodeKind  `json:"kind"`
	BodyMD        string           `json:"body_md"`
	MediaURL      *string          `json:"media_url"`
	OrderIndex    int              `json:"order_index"`
	IsTerminal    bool             `json:"is_terminal"`
	AutoAdvanceTo *uuid.UUID       `json:"auto_advance_to"`
	Metadata      json.RawMessage  `json:"metadata"`
	Options       []OptionResponse `json:"options"`
}

// CaseResponse is a full case graph.
type CaseResponse struct {
	ID               uuid.UUID      `json:"id"`
	Slug             string         `json:"slug"`
	Title            string         `json:"title"`
	Summary          string         `json:"summary"`
	EstimatedMinutes *int           `json:"estimated_minutes"`
	Difficulty       string         `json:"difficulty"`
	RecommendedRoles []string       `json:"recommended_roles"`
	RecommendedUnits []string       `json:"recommended_units"`
	IsPublished      bool           `json:"is_published"`
	StartNodeID      *uuid.UUID     `json:"start_node_id"`
	Nodes            []NodeResponse `json:"nodes"`
}

// AttemptSummaryResponse is one entry of a learner's attempt history.
type AttemptSummaryResponse struct {
	ID              uuid.UUID  `json:"id"`
	CaseID          uuid.UUID  `json:"case_id"`
	CaseTitle       string     `json:"case_title"`
	CaseSlug        string     `json:"case_slug"`
	ScoreTotal      int        `json:"score_total"`
	DurationSeconds *int       `json:"duration_seconds"`
	Status          string     `json:"status"`
	AttemptRole     *string    `json:"attempt_role"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// ListCasesResponse is the body of a successful case listing.
type ListCasesResponse struct {
	OK    bool                  `json:"ok"`
	Cases []CaseSummaryResponse `json:"cases"`
}

// GetCaseResponse is the body of a successful case fetch.
type GetCaseResponse struct {
	OK   bool         `json:"ok"`
	Case CaseResponse `json:"case"`
}

// ValidateCaseResponse is the body of a case validation.
type ValidateCaseResponse struct {
	OK     bool              `json:"ok"`
	CaseID uuid.UUID         `json:"case_id"`
	Valid  bool              `json:"valid"`
	Issues []casegraph.Issue `json:"issues"`
}

// SubmitAttemptResponse is the body of a recorded attempt. Warning is set
// when the steps could not be stored.
type SubmitAttemptResponse struct {
	OK        bool      `json:"ok"`
	AttemptID uuid.UUID `json:"attempt_id"`
	Warning   string    `json:"warning,omitempty"`
}

// ListAttemptsResponse is the body of the attempt history.
type ListAttemptsResponse struct {
	OK       bool                     `json:"ok"`
	Attempts []AttemptSummaryResponse `json:"attempts"`
}

func caseSummariesToResponse(cases []domain.CaseSummary) []CaseSummaryResponse {
	out := make([]CaseSummaryResponse, len(cases))
	for i, c := range cases {
		out[i] = CaseSummaryResponse{
			ID:               c.ID,
			Slug:             c.Slug,
			Title:            c.Title,
			Summary:          c.Summary,
			EstimatedMinutes: c.EstimatedMinutes,
			Difficulty:       c.Difficulty,
			RecommendedRoles: nonNilStrings(c.RecommendedRoles),
			RecommendedUnits: nonNilStrings(c.RecommendedUnits),
			IsPublished:      c.IsPublished,
			UpdatedAt:        c.UpdatedAt,
			NodeCount:        c.NodeCount,
		}
	}
	return out
}

func graphToResponse(g *casegraph.Graph) CaseResponse {
	nodes := make([]NodeResponse, len(g.Nodes))
	for i, n := range g.Nodes {
		options := make([]OptionResponse, len(n.Options))
		for j, o := range n.Options {
			options[j] = OptionResponse{
				ID:         o.ID,
				NodeID:     o.NodeID,
				Label:      o.Label,
				NextNodeID: o.NextNodeID,
				FeedbackMD: o.FeedbackMD,
				ScoreDelta: o.ScoreDelta,
				IsCritical: o.IsCritical,
			}
		}

		metadata := n.Metadata
		if len(metadata) == 0 {
			metadata = json.RawMessage(`{}`)
		}
		nodes[i] = NodeResponse{
			ID:            n.ID,
			CaseID:        n.CaseID,
			Kind:          n.Kind,
			BodyMD:        n.BodyMD,
			MediaURL:      n.MediaURL,
			OrderIndex:    n.OrderIndex,
			IsTerminal:    n.IsTerminal,
			AutoAdvanceTo: n.AutoAdvanceTo,
			Metadata:      metadata,
			Options:       options,
		}
	}

	c := g.Case
	return CaseResponse{
		ID:               c.ID,
		Slug:             c.Slug,
		Title:            c.Title,
		Summary:          c.Summary,
		EstimatedMinutes: c.EstimatedMinutes,
		Difficulty:       c.Difficulty,
		RecommendedRoles: nonNilStrings(c.RecommendedRoles),
		RecommendedUnits: nonNilStrings(c.RecommendedUnits),
		IsPublished:      c.IsPublished,
		StartNodeID:      c.StartNodeID,
		Nodes:            nodes,
	}
}

func attemptsToResponse(attempts []domain.AttemptSummary) []AttemptSummaryResponse {
	out := make([]AttemptSummaryResponse, len(attempts))
	for i, a := range attempts {
		out[i] = AttemptSummaryResponse{
			ID:              a.ID,
			CaseID:          a.CaseID,
			CaseTitle:       a.CaseTitle,
			CaseSlug:        a.CaseSlug,
			ScoreTotal:      a.ScoreTotal,
			DurationSeconds: a.DurationSeconds,
			Status:          string(a.Status),
			AttemptRole:     a.AttemptRole,
			StartedAt:       a.StartedAt,
			CompletedAt:     a.CompletedAt,
		}
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
