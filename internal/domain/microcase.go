package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// NodeKind classifies what a node presents to the learner.
type NodeKind string

// Possible node kinds
const (
	NodeKindInfo     NodeKind = "info"
	NodeKindDecision NodeKind = "decision"
	NodeKindOutcome  NodeKind = "outcome"
)

// Common validation errors for cases, nodes and options
var (
	ErrEmptyCaseID     = errors.New("case ID cannot be empty")
	ErrEmptyCaseSlug   = errors.New("case slug cannot be empty")
	ErrEmptyCaseTitle  = errors.New("case title cannot be empty")
	ErrEmptyCaseAuthor = errors.New("case author cannot be empty")
	ErrEmptyNodeID     = errors.New("node ID cannot be empty")
	ErrEmptyOptionID   = errors.New("option ID cannot be empty")
	ErrEmptyOptionNode = errors.New("option node ID cannot be empty")
	ErrEmptyOptionText = errors.New("option label cannot be empty")
)

// MicroCase is a branching clinical scenario. Drafts are visible only to
// their author; published cases are visible to everyone.
type MicroCase struct {
	ID               uuid.UUID  `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Summary          string     `json:"summary"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Difficulty       string     `json:"difficulty"`
	RecommendedRoles []string   `json:"recommended_roles"`
	RecommendedUnits []string   `json:"recommended_units"`
	IsPublished      bool       `json:"is_published"`
	CreatedBy        uuid.UUID  `json:"created_by"`
	StartNodeID      *uuid.UUID `json:"start_node_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Validate checks that the case carries the fields every stored case has.
func (c *MicroCase) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCaseID
	}
	if c.Slug == "" {
		return ErrEmptyCaseSlug
	}
	if c.Title == "" {
		return ErrEmptyCaseTitle
	}
	if c.CreatedBy == uuid.Nil {
		return ErrEmptyCaseAuthor
	}
	return nil
}

// IsOwnedBy reports whether the given user authored the case.
func (c *MicroCase) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && c.CreatedBy == userID
}

// CaseSummary is a listing row: the case plus figures derived from its nodes.
type CaseSummary struct {
	MicroCase
	NodeCount int `json:"node_count"`
}

// Node is one screen of a case. OrderIndex is presentational only;
// traversal follows option targets and AutoAdvanceTo.
type Node struct {
	ID            uuid.UUID       `json:"id"`
	CaseID        uuid.UUID       `json:"case_id"`
	Kind          NodeKind        `json:"kind"`
	BodyMD        string          `json:"body_md"`
	MediaURL      *string         `json:"media_url"`
	OrderIndex    int             `json:"order_index"`
	IsTerminal    bool            `json:"is_terminal"`
	AutoAdvanceTo *uuid.UUID      `json:"auto_advance_to"`
	Metadata      json.RawMessage `json:"metadata"`
}

// Validate checks the node's identity and kind.
func (n *Node) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNodeID
	}
	if n.CaseID == uuid.Nil {
		return ErrEmptyCaseID
	}
	if !IsValidNodeKind(n.Kind) {
		return ErrInvalidNodeKind
	}
	return nil
}

// IsValidNodeKind checks if the given kind is one of the known node kinds.
func IsValidNodeKind(kind NodeKind) bool {
	switch kind {
	case NodeKindInfo, NodeKindDecision, NodeKindOutcome:
		return true
	default:
		return false
	}
}

// Option is a choice offered at a node. NextNodeID references a node by
// identifier only, so the graph it forms may contain cycles.
type Option struct {
	ID         uuid.UUID  `json:"id"`
	NodeID     uuid.UUID  `json:"node_id"`
	Label      string     `json:"label"`
	NextNodeID *uuid.UUID `json:"next_node_id"`
	FeedbackMD *string    `json:"feedback_md"`
	ScoreDelta int        `json:"score_delta"`
	IsCritical bool       `json:"is_critical"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Validate checks the option's identity and label.
func (o *Option) Validate() error {
	if o.ID == uuid.Nil {
		return ErrEmptyOptionID
	}
	if o.NodeID == uuid.Nil {
		return ErrEmptyOptionNode
	}
	if o.Label == "" {
		return ErrEmptyOptionText
	}
	return nil
}
