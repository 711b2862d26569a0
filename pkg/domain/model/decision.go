package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// DecisionID is a UUID-based identifier for a council decision
type DecisionID string

// NewDecisionID generates a new time-ordered DecisionID
func NewDecisionID() DecisionID {
	return DecisionID(uuid.Must(uuid.NewV7()).String())
}

// DeepReasoning is the verbatim output of the cross-expert reasoning pass
type DeepReasoning struct {
	ModelID string
	Text    string
}

// Synthesis is the verbatim CEO Decision Sheet produced by the synthesis role
type Synthesis struct {
	ModelID string
	Text    string
}

// DebatePosition is one agent's stance in a detected disagreement
type DebatePosition struct {
	AgentName string
	Stance    string
}

// Debate records a detected disagreement between experts on one decision axis.
// Detection is heuristic; the absence of a debate record asserts nothing.
type Debate struct {
	Topic     string
	Positions []DebatePosition
}

// TopSource is one entry of the transparency block, ranked by how many agents
// retrieved the same title
type TopSource struct {
	Title      string
	Category   types.Category
	Confidence int
	CitedBy    int
}

// Transparency enumerates which sources contributed to a decision
type Transparency struct {
	TotalSources    int
	PerAgentSources map[string]int
	TopSources      []TopSource
}

// Warning records a degraded pipeline stage. Warnings are advisory; the
// decision artifact is still meaningful.
type Warning struct {
	Stage   types.Stage
	Agent   string
	Message string
}

// CouncilDecision is the single artifact of a consult call. DeepReasoning,
// Debates and FinalSynthesis are only present for multi-agent strategies.
type CouncilDecision struct {
	ID             DecisionID
	Question       string
	Strategy       types.Strategy
	ExpertAnalyses []*AgentAnalysis
	DeepReasoning  *DeepReasoning
	Debates        []Debate
	FinalSynthesis *Synthesis
	Transparency   Transparency
	Warnings       []Warning
	CreatedAt      time.Time
}

// Warn appends a warning to the decision
func (d *CouncilDecision) Warn(stage types.Stage, agent, message string) {
	d.Warnings = append(d.Warnings, Warning{Stage: stage, Agent: agent, Message: message})
}
