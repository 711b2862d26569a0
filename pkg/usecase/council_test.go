package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
	"github.com/diar-analytics/majlis/pkg/repository/memory"
	"github.com/diar-analytics/majlis/pkg/service/retrieval"
	"github.com/diar-analytics/majlis/pkg/usecase"
)

// ---- gollem mocks ----

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

var _ gollem.Session = &mockLLMSession{}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"ok"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &mockLLMSession{generateContentFn: c.generateContentFn}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// textClient always answers with the given text
func textClient(text string) gollem.LLMClient {
	return &mockLLMClient{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return &gollem.Response{Texts: []string{text}}, nil
		},
	}
}

// errClient always fails generation
func errClient(err error) gollem.LLMClient {
	return &mockLLMClient{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return nil, err
		},
	}
}

// stallClient blocks until the call context expires, simulating a model call
// that overruns its timeout
func stallClient() gollem.LLMClient {
	return &mockLLMClient{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
}

// ---- retrieval fixture ----

type hashEmbedder struct {
	dim int
}

func (e *hashEmbedder) Dimension() int { return e.dim }

func (e *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	if strings.TrimSpace(text) == "" {
		return vec, nil
	}
	for _, r := range text {
		vec[int(r)%e.dim]++
	}
	return vec, nil
}

func seededRetriever(t *testing.T) retrieval.Service {
	t.Helper()
	e := &hashEmbedder{dim: 16}
	idx := memory.NewIndex(e.dim)

	seeds := []*model.Dataset{
		{ID: "re-1", Title: "Real Estate Price Index", Description: "quarterly property price index", Category: types.CategoryRealEstate, Confidence: 90, SourceType: types.SourceTypeQatarOpenData},
		{ID: "re-2", Title: "Building Permits Issued", Description: "monthly permits by municipality", Category: types.CategoryRealEstate, Confidence: 85, SourceType: types.SourceTypeQatarOpenData},
		{ID: "to-1", Title: "Hotel Occupancy Rates", Description: "monthly occupancy in Doha hotels", Category: types.CategoryTourism, Confidence: 88, SourceType: types.SourceTypeQatarOpenData},
		{ID: "to-2", Title: "Visitor Arrivals by Country", Description: "inbound tourism statistics", Category: types.CategoryTourism, Confidence: 82, SourceType: types.SourceTypeQatarOpenData},
		{ID: "fi-1", Title: "Quarterly GDP by Sector", Description: "sector GDP breakdown", Category: types.CategoryEconomic, Confidence: 93, SourceType: types.SourceTypeQatarOpenData},
		{ID: "in-1", Title: "Electricity and Water Statistics", Description: "utility production and consumption", Category: types.CategoryInfrastructure, Confidence: 80, SourceType: types.SourceTypeQatarOpenData},
	}
	for _, d := range seeds {
		vec, err := e.Embed(context.Background(), d.Title+" "+d.Description)
		gt.NoError(t, err).Required()
		d.Embedding = vec
	}
	gt.NoError(t, idx.Insert(context.Background(), seeds)).Required()

	svc, err := retrieval.New(idx, e)
	gt.NoError(t, err).Required()
	return svc
}

func agentSpecs() map[types.AgentDomain]*model.AgentSpec {
	return map[types.AgentDomain]*model.AgentSpec{
		types.AgentDomainRealEstate:     {Name: "Rashid", Title: "Chief Real Estate Advisor", Expertise: "Qatari property markets and freehold regulation", Domain: types.AgentDomainRealEstate},
		types.AgentDomainTourism:        {Name: "Layla", Title: "Tourism Strategy Advisor", Expertise: "hospitality demand and visitor economics", Domain: types.AgentDomainTourism},
		types.AgentDomainFinance:        {Name: "Faisal", Title: "Chief Economist", Expertise: "macroeconomics and capital markets", Domain: types.AgentDomainFinance},
		types.AgentDomainInfrastructure: {Name: "Noora", Title: "Infrastructure Advisor", Expertise: "utilities and transport capacity", Domain: types.AgentDomainInfrastructure},
	}
}

const analysisTemplate = `## Key Findings
The data shows a clear trend [1].

## Market Assessment
Conditions are stable.

## Strategic Recommendation
%s

## Risks & Caveats
Provider data lags by one quarter.`

func expertClients(recommendations map[types.AgentDomain]string) map[types.AgentDomain]gollem.LLMClient {
	clients := map[types.AgentDomain]gollem.LLMClient{}
	for domain := range agentSpecs() {
		rec, ok := recommendations[domain]
		if !ok {
			rec = "Maintain the current position."
		}
		clients[domain] = textClient(strings.Replace(analysisTemplate, "%s", rec, 1))
	}
	return clients
}

func newExperts(t *testing.T, retriever retrieval.Service, clients map[types.AgentDomain]gollem.LLMClient) []*usecase.Expert {
	t.Helper()
	var experts []*usecase.Expert
	for _, domain := range types.AllAgentDomains() {
		expert, err := usecase.NewExpert(
			agentSpecs()[domain],
			usecase.ModelBinding{Client: clients[domain], ModelID: "agent-model"},
			retriever, 5,
		)
		gt.NoError(t, err).Required()
		experts = append(experts, expert)
	}
	return experts
}

func newCouncil(t *testing.T, experts []*usecase.Expert, opts ...usecase.CouncilOption) *usecase.Council {
	t.Helper()
	router, err := usecase.NewRouter(experts, usecase.ModelBinding{})
	gt.NoError(t, err).Required()
	council, err := usecase.NewCouncil(router, opts...)
	gt.NoError(t, err).Required()
	return council
}

const (
	tourismQuestion = "What are the hotel occupancy trends in Qatar?"
	broadQuestion   = "What is the current state of the economy and its implications?"
)

// ---- scenarios ----

func TestConsultSingleAgent(t *testing.T) {
	retriever := seededRetriever(t)
	council := newCouncil(t, newExperts(t, retriever, expertClients(nil)),
		usecase.WithDeepReasoning(usecase.ModelBinding{Client: textClient("deep"), ModelID: "deep-model"}),
		usecase.WithSynthesis(usecase.ModelBinding{Client: textClient("sheet"), ModelID: "synth-model"}),
	)

	decision, err := council.Consult(context.Background(), tourismQuestion)
	gt.NoError(t, err).Required()

	gt.Value(t, decision.Strategy).Equal(types.StrategySingleAgent)
	gt.Array(t, decision.ExpertAnalyses).Length(1).Required()
	gt.Value(t, decision.ExpertAnalyses[0].Agent.Name).Equal("Layla")

	// single-agent decisions carry no deep reasoning or synthesis
	gt.Value(t, decision.DeepReasoning).Nil()
	gt.Value(t, decision.FinalSynthesis).Nil()
	gt.Array(t, decision.Debates).Length(0)

	sources := decision.ExpertAnalyses[0].Sources
	gt.Number(t, sources.Len()).LessOrEqual(5)
	gt.Number(t, sources.Len()).Greater(0)
	for _, scored := range sources.Results {
		gt.Value(t, scored.Dataset.Category).Equal(types.CategoryTourism)
	}
}

func TestConsultMultiAgent(t *testing.T) {
	retriever := seededRetriever(t)
	council := newCouncil(t, newExperts(t, retriever, expertClients(nil)),
		usecase.WithDeepReasoning(usecase.ModelBinding{Client: textClient("cross-expert reasoning"), ModelID: "deep-model"}),
		usecase.WithSynthesis(usecase.ModelBinding{Client: textClient("## Executive Summary\nProceed."), ModelID: "synth-model"}),
	)

	decision, err := council.Consult(context.Background(), broadQuestion)
	gt.NoError(t, err).Required()

	gt.Value(t, decision.Strategy).Equal(types.StrategyMultiAgent)
	gt.Array(t, decision.ExpertAnalyses).Length(4).Required()
	gt.Array(t, decision.Warnings).Length(0)

	// analyses keep canonical routing order
	gt.Value(t, decision.ExpertAnalyses[0].Agent.Name).Equal("Rashid")
	gt.Value(t, decision.ExpertAnalyses[1].Agent.Name).Equal("Layla")
	gt.Value(t, decision.ExpertAnalyses[2].Agent.Name).Equal("Faisal")
	gt.Value(t, decision.ExpertAnalyses[3].Agent.Name).Equal("Noora")

	gt.Value(t, decision.DeepReasoning).NotNil()
	gt.Value(t, decision.DeepReasoning.ModelID).Equal("deep-model")
	gt.Value(t, decision.FinalSynthesis).NotNil()
	gt.Value(t, decision.FinalSynthesis.ModelID).Equal("synth-model")

	// transparency reflects the union of retrieved titles
	unique := map[string]bool{}
	for _, analysis := range decision.ExpertAnalyses {
		for _, title := range analysis.Sources.Titles() {
			unique[title] = true
		}
		gt.Value(t, decision.Transparency.PerAgentSources[analysis.Agent.Name]).Equal(analysis.Sources.Len())
	}
	gt.Value(t, decision.Transparency.TotalSources).Equal(len(unique))
	gt.Number(t, len(decision.Transparency.TopSources)).LessOrEqual(5)
}

func TestConsultExpertFailureDegrades(t *testing.T) {
	retriever := seededRetriever(t)
	clients := expertClients(nil)
	clients[types.AgentDomainFinance] = errClient(errors.New("rate limited"))

	council := newCouncil(t, newExperts(t, retriever, clients),
		usecase.WithSynthesis(usecase.ModelBinding{Client: textClient("sheet"), ModelID: "synth-model"}),
	)

	decision, err := council.Consult(context.Background(), broadQuestion)
	gt.NoError(t, err).Required()

	gt.Array(t, decision.ExpertAnalyses).Length(3)
	var expertWarnings []model.Warning
	for _, w := range decision.Warnings {
		if w.Stage == types.StageExpert {
			expertWarnings = append(expertWarnings, w)
		}
	}
	gt.Array(t, expertWarnings).Length(1).Required()
	gt.Value(t, expertWarnings[0].Agent).Equal("Faisal")
	gt.Value(t, decision.FinalSynthesis).NotNil()
}

func TestConsultAllExpertsFailedIsFatal(t *testing.T) {
	retriever := seededRetriever(t)
	clients := map[types.AgentDomain]gollem.LLMClient{}
	for domain := range agentSpecs() {
		clients[domain] = errClient(errors.New("provider down"))
	}

	council := newCouncil(t, newExperts(t, retriever, clients))

	_, err := council.Consult(context.Background(), broadQuestion)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrAllExpertsFailed)).True()
}

func TestConsultDeepReasoningTimeoutDegrades(t *testing.T) {
	retriever := seededRetriever(t)
	council := newCouncil(t, newExperts(t, retriever, expertClients(nil)),
		usecase.WithDeepReasoning(usecase.ModelBinding{Client: stallClient(), ModelID: "deep-model"}),
		usecase.WithDeepReasoningTimeout(20*time.Millisecond),
		usecase.WithSynthesis(usecase.ModelBinding{Client: textClient("sheet"), ModelID: "synth-model"}),
	)

	decision, err := council.Consult(context.Background(), broadQuestion)
	gt.NoError(t, err).Required()

	gt.Value(t, decision.DeepReasoning).Nil()
	found := false
	for _, w := range decision.Warnings {
		if w.Stage == types.StageDeepReasoning {
			found = true
		}
	}
	gt.Bool(t, found).True()

	// synthesis still runs on the degraded evidence
	gt.Value(t, decision.FinalSynthesis).NotNil()
}

func TestConsultSynthesisFailureIsFatal(t *testing.T) {
	retriever := seededRetriever(t)
	council := newCouncil(t, newExperts(t, retriever, expertClients(nil)),
		usecase.WithSynthesis(usecase.ModelBinding{Client: errClient(errors.New("boom")), ModelID: "synth-model"}),
	)

	_, err := council.Consult(context.Background(), broadQuestion)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrSynthesisFailed)).True()
}

func TestConsultUnboundStagesSkipWithWarnings(t *testing.T) {
	retriever := seededRetriever(t)
	council := newCouncil(t, newExperts(t, retriever, expertClients(nil)))

	decision, err := council.Consult(context.Background(), broadQuestion)
	gt.NoError(t, err).Required()

	gt.Value(t, decision.DeepReasoning).Nil()
	gt.Value(t, decision.FinalSynthesis).Nil()

	stages := map[types.Stage]bool{}
	for _, w := range decision.Warnings {
		stages[w.Stage] = true
	}
	gt.Bool(t, stages[types.StageDeepReasoning]).True()
	gt.Bool(t, stages[types.StageSynthesis]).True()
}

func TestConsultDetectsDebate(t *testing.T) {
	retriever := seededRetriever(t)
	clients := expertClients(map[types.AgentDomain]string{
		types.AgentDomainRealEstate: "Expand freehold acquisitions and accelerate the pipeline.",
		types.AgentDomainFinance:    "Pause new commitments and stay cautious until rates settle.",
	})

	council := newCouncil(t, newExperts(t, retriever, clients),
		usecase.WithSynthesis(usecase.ModelBinding{Client: textClient("sheet"), ModelID: "synth-model"}),
	)

	decision, err := council.Consult(context.Background(), broadQuestion)
	gt.NoError(t, err).Required()

	gt.Array(t, decision.Debates).Length(1).Required()
	names := map[string]string{}
	for _, pos := range decision.Debates[0].Positions {
		names[pos.AgentName] = pos.Stance
	}
	gt.Value(t, names["Rashid"]).Equal("proceed")
	gt.Value(t, names["Faisal"]).Equal("hold")
}

func TestConsultFlagsUnresolvedCitations(t *testing.T) {
	retriever := seededRetriever(t)
	clients := expertClients(nil)
	clients[types.AgentDomainTourism] = textClient("Occupancy is rising [1] and [9] says so too.")

	council := newCouncil(t, newExperts(t, retriever, clients))

	decision, err := council.Consult(context.Background(), tourismQuestion)
	gt.NoError(t, err).Required()

	var citation []model.Warning
	for _, w := range decision.Warnings {
		if w.Stage == types.StageCitation {
			citation = append(citation, w)
		}
	}
	gt.Array(t, citation).Length(1).Required()
	gt.Value(t, citation[0].Agent).Equal("Layla")
	gt.Bool(t, strings.Contains(citation[0].Message, "unresolved_citations")).True()
	gt.Bool(t, strings.Contains(citation[0].Message, "9")).True()
}
