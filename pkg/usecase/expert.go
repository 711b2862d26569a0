// Package usecase implements the strategic council: expert agents, query
// routing, and the consult pipeline that turns a question into a
// CouncilDecision.
package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/prompt"
	"github.com/diar-analytics/majlis/pkg/service/retrieval"
)

// ModelBinding pairs an LLM client with the identifier it was configured
// with, so decision artifacts can attribute text to a concrete model.
type ModelBinding struct {
	Client  gollem.LLMClient
	ModelID string
}

// Bound reports whether the role has a usable client
func (b ModelBinding) Bound() bool {
	return b.Client != nil
}

// Expert is one runnable domain expert: an immutable spec plus the model and
// retrieval handles it analyzes with.
type Expert struct {
	spec      *model.AgentSpec
	binding   ModelBinding
	retriever retrieval.Service
	topK      int
}

// NewExpert builds an expert from its spec. The model binding is mandatory:
// an expert without a model cannot produce an analysis.
func NewExpert(spec *model.AgentSpec, binding ModelBinding, retriever retrieval.Service, topK int) (*Expert, error) {
	if spec == nil {
		return nil, goerr.New("agent spec is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid agent spec")
	}
	if !binding.Bound() {
		return nil, goerr.New("expert has no model binding", goerr.V("agent", spec.Name))
	}
	if retriever == nil {
		return nil, goerr.New("retrieval service is required", goerr.V("agent", spec.Name))
	}
	if topK <= 0 {
		return nil, goerr.New("topK must be positive", goerr.V("topK", topK))
	}

	return &Expert{
		spec:      spec,
		binding:   binding,
		retriever: retriever,
		topK:      topK,
	}, nil
}

// Spec returns the immutable agent spec
func (e *Expert) Spec() *model.AgentSpec {
	return e.spec
}

// Analyze retrieves evidence from the expert's own category and runs one
// model call over it. Retrieval is per-agent on purpose: each expert sees
// evidence through its own domain lens, numbered for its own citations.
func (e *Expert) Analyze(ctx context.Context, question string) (*model.AgentAnalysis, error) {
	category := e.spec.Category()
	sources, err := e.retriever.Retrieve(ctx, question, &category, e.topK)
	if err != nil {
		return nil, goerr.Wrap(err, "evidence retrieval failed", goerr.V("agent", e.spec.Name))
	}

	systemPrompt, err := prompt.ExpertSystem(e.spec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build expert system prompt", goerr.V("agent", e.spec.Name))
	}

	session, err := e.binding.Client.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create expert session", goerr.V("agent", e.spec.Name))
	}

	query := prompt.ExpertQuery(retrieval.BuildContext(sources), question)
	resp, err := session.GenerateContent(ctx, gollem.Text(query))
	if err != nil {
		return nil, goerr.Wrap(err, "expert generation failed", goerr.V("agent", e.spec.Name))
	}
	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if text == "" {
		return nil, goerr.New("expert returned empty analysis", goerr.V("agent", e.spec.Name))
	}

	return &model.AgentAnalysis{
		Agent:   e.spec.Identity(),
		Text:    text,
		Sources: sources,
		ModelID: e.binding.ModelID,
	}, nil
}
