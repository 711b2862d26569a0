package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// AgentSpec is the static definition of one expert agent. The four canonical
// specs are loaded from configuration at startup and immutable afterwards.
type AgentSpec struct {
	Name      string            `toml:"name"`
	Title     string            `toml:"title"`
	Expertise string            `toml:"expertise"`
	Domain    types.AgentDomain `toml:"domain"`
}

// Validate checks the agent spec
func (s *AgentSpec) Validate() error {
	if s.Name == "" {
		return goerr.New("agent name is required")
	}
	if s.Title == "" {
		return goerr.New("agent title is required", goerr.V("name", s.Name))
	}
	if !s.Domain.IsValid() {
		return goerr.New("invalid agent domain",
			goerr.V("name", s.Name), goerr.V("domain", s.Domain))
	}
	return nil
}

// Category returns the dataset category this agent retrieves evidence from
func (s *AgentSpec) Category() types.Category {
	return s.Domain.Category()
}

// AgentIdentity is the attribution block attached to an analysis
type AgentIdentity struct {
	Name      string
	Title     string
	Expertise string
	Category  types.Category
}

// Identity returns the identity block for this spec
func (s *AgentSpec) Identity() AgentIdentity {
	return AgentIdentity{
		Name:      s.Name,
		Title:     s.Title,
		Expertise: s.Expertise,
		Category:  s.Category(),
	}
}

// AgentAnalysis is the structured output of one expert for one query.
// Text is raw model output and may contain inline [i] citations referring to
// the retrieval ordering in Sources.
type AgentAnalysis struct {
	Agent   AgentIdentity
	Text    string
	Sources *RetrievalResult
	ModelID string
}
