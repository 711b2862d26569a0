package model

import (
	"time"

	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// ConsultLog is the audit record persisted after each consult call. It holds
// bookkeeping only, never analysis text.
type ConsultLog struct {
	ID           DecisionID
	Question     string
	Strategy     types.Strategy
	AgentCount   int
	SourceCount  int
	WarningCount int
	Duration     time.Duration
	CreatedAt    time.Time
}

// NewConsultLog derives the audit record from a finished decision
func NewConsultLog(d *CouncilDecision, duration time.Duration) *ConsultLog {
	return &ConsultLog{
		ID:           d.ID,
		Question:     d.Question,
		Strategy:     d.Strategy,
		AgentCount:   len(d.ExpertAnalyses),
		SourceCount:  d.Transparency.TotalSources,
		WarningCount: len(d.Warnings),
		Duration:     duration,
		CreatedAt:    d.CreatedAt,
	}
}
