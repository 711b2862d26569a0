package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"golang.org/x/sync/errgroup"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/prompt"
	"github.com/diar-analytics/majlis/pkg/domain/types"
	"github.com/diar-analytics/majlis/pkg/utils/async"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

// Stage timeout defaults. Deep reasoning gets an extended budget because the
// model may produce long internal traces before answering.
const (
	DefaultExpertTimeout        = 120 * time.Second
	DefaultDeepReasoningTimeout = 600 * time.Second
	DefaultSynthesisTimeout     = 300 * time.Second
)

// Council runs the consult pipeline: route, parallel expert analyses, and in
// multi-agent mode the deep-reasoning, debate and synthesis stages. It is
// stateless across requests; all mutable state lives in the per-call
// CouncilDecision.
type Council struct {
	router *Router
	deep   ModelBinding
	synth  ModelBinding
	repo   interfaces.Repository

	expertTimeout time.Duration
	deepTimeout   time.Duration
	synthTimeout  time.Duration
}

// CouncilOption is a functional option for the council
type CouncilOption func(*Council)

// WithDeepReasoning binds the model of the deep-reasoning stage
func WithDeepReasoning(binding ModelBinding) CouncilOption {
	return func(c *Council) {
		c.deep = binding
	}
}

// WithSynthesis binds the model of the synthesis stage
func WithSynthesis(binding ModelBinding) CouncilOption {
	return func(c *Council) {
		c.synth = binding
	}
}

// WithRepository binds the metadata store, enabling confidence refresh in the
// transparency block and the consult audit log
func WithRepository(repo interfaces.Repository) CouncilOption {
	return func(c *Council) {
		c.repo = repo
	}
}

// WithExpertTimeout overrides the per-expert call timeout
func WithExpertTimeout(d time.Duration) CouncilOption {
	return func(c *Council) {
		if d > 0 {
			c.expertTimeout = d
		}
	}
}

// WithDeepReasoningTimeout overrides the deep-reasoning call timeout
func WithDeepReasoningTimeout(d time.Duration) CouncilOption {
	return func(c *Council) {
		if d > 0 {
			c.deepTimeout = d
		}
	}
}

// WithSynthesisTimeout overrides the synthesis call timeout
func WithSynthesisTimeout(d time.Duration) CouncilOption {
	return func(c *Council) {
		if d > 0 {
			c.synthTimeout = d
		}
	}
}

// NewCouncil builds the orchestrator. Deep-reasoning and synthesis bindings
// are optional; unbound roles skip their stage with a warning.
func NewCouncil(router *Router, opts ...CouncilOption) (*Council, error) {
	if router == nil {
		return nil, goerr.New("router is required")
	}

	c := &Council{
		router:        router,
		expertTimeout: DefaultExpertTimeout,
		deepTimeout:   DefaultDeepReasoningTimeout,
		synthTimeout:  DefaultSynthesisTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Consult runs one question through the pipeline and returns the decision
// artifact. Stage failures degrade with warnings wherever a meaningful
// artifact remains; only all-experts-failed and multi-agent synthesis
// failure are fatal.
func (c *Council) Consult(ctx context.Context, question string) (*model.CouncilDecision, error) {
	started := time.Now()
	logger := logging.From(ctx)

	route, err := c.router.Route(ctx, question)
	if err != nil {
		return nil, goerr.Wrap(err, "routing failed", goerr.V("question", question))
	}

	decision := &model.CouncilDecision{
		ID:        model.NewDecisionID(),
		Question:  question,
		Strategy:  route.Strategy,
		CreatedAt: started.UTC(),
	}
	logger.Info("consult routed",
		"decision_id", decision.ID,
		"strategy", route.Strategy,
		"experts", len(route.Experts))

	c.runExperts(ctx, decision, route.Experts)
	if len(decision.ExpertAnalyses) == 0 {
		return nil, goerr.Wrap(ErrAllExpertsFailed, "no expert produced an analysis",
			goerr.V("decision_id", decision.ID),
			goerr.V("warnings", decision.Warnings))
	}

	if route.Strategy == types.StrategyMultiAgent {
		c.runDeepReasoning(ctx, decision)
		decision.Debates = DetectDebates(decision.ExpertAnalyses)
		if err := c.runSynthesis(ctx, decision); err != nil {
			return nil, err
		}
	}

	checkCitations(decision)

	var datasets interfaces.DatasetRepository
	if c.repo != nil {
		datasets = c.repo.Datasets()
	}
	decision.Transparency = buildTransparency(ctx, datasets, decision.ExpertAnalyses)

	if c.repo != nil {
		log := model.NewConsultLog(decision, time.Since(started))
		async.Dispatch(ctx, func(ctx context.Context) error {
			return c.repo.ConsultLogs().Put(ctx, log)
		})
	}

	logger.Info("consult finished",
		"decision_id", decision.ID,
		"analyses", len(decision.ExpertAnalyses),
		"warnings", len(decision.Warnings),
		"duration", time.Since(started))
	return decision, nil
}

// runExperts dispatches all selected experts concurrently and collects their
// analyses in routing order. Individual failures become warnings.
func (c *Council) runExperts(ctx context.Context, decision *model.CouncilDecision, experts []*Expert) {
	type outcome struct {
		analysis *model.AgentAnalysis
		err      error
	}
	outcomes := make([]outcome, len(experts))

	var eg errgroup.Group
	for i, expert := range experts {
		eg.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, c.expertTimeout)
			defer cancel()

			analysis, err := expert.Analyze(callCtx, decision.Question)
			outcomes[i] = outcome{analysis: analysis, err: err}
			return nil
		})
	}
	_ = eg.Wait()

	for i, out := range outcomes {
		if out.err != nil {
			name := experts[i].Spec().Name
			logging.From(ctx).Warn("expert analysis failed",
				"agent", name, "error", out.err)
			decision.Warn(types.StageExpert, name, out.err.Error())
			continue
		}
		decision.ExpertAnalyses = append(decision.ExpertAnalyses, out.analysis)
	}
}

// runDeepReasoning executes the cross-expert reasoning pass. Any failure
// degrades: the field stays absent and a warning is recorded.
func (c *Council) runDeepReasoning(ctx context.Context, decision *model.CouncilDecision) {
	if !c.deep.Bound() {
		decision.Warn(types.StageDeepReasoning, "", "deep reasoning model unbound, stage skipped")
		return
	}

	p, err := prompt.DeepReasoning(prompt.DeepReasoningData{
		Question: decision.Question,
		Analyses: decision.ExpertAnalyses,
	})
	if err != nil {
		decision.Warn(types.StageDeepReasoning, "", err.Error())
		return
	}

	text, err := c.generate(ctx, c.deep, "", p, c.deepTimeout)
	if err != nil {
		logging.From(ctx).Warn("deep reasoning degraded", "error", err)
		decision.Warn(types.StageDeepReasoning, "", err.Error())
		return
	}

	decision.DeepReasoning = &model.DeepReasoning{
		ModelID: c.deep.ModelID,
		Text:    text,
	}
}

// runSynthesis produces the CEO Decision Sheet. An unbound synthesis role
// skips the stage with a warning; a failed call is fatal because the
// multi-agent artifact is contractually a decision sheet.
func (c *Council) runSynthesis(ctx context.Context, decision *model.CouncilDecision) error {
	if !c.synth.Bound() {
		decision.Warn(types.StageSynthesis, "", "synthesis model unbound, stage skipped")
		return nil
	}

	var deepText string
	if decision.DeepReasoning != nil {
		deepText = decision.DeepReasoning.Text
	}
	degraded := len(decision.Warnings) > 0

	p, err := prompt.Synthesis(prompt.SynthesisData{
		Question:      decision.Question,
		Analyses:      decision.ExpertAnalyses,
		DeepReasoning: deepText,
		Debates:       decision.Debates,
		Degraded:      degraded,
	})
	if err != nil {
		return goerr.Wrap(ErrSynthesisFailed, "failed to build synthesis prompt",
			goerr.V("decision_id", decision.ID), goerr.V("cause", err.Error()))
	}

	text, err := c.generate(ctx, c.synth, "", p, c.synthTimeout)
	if err != nil {
		return goerr.Wrap(ErrSynthesisFailed, "synthesis call failed",
			goerr.V("decision_id", decision.ID), goerr.V("cause", err.Error()))
	}

	decision.FinalSynthesis = &model.Synthesis{
		ModelID: c.synth.ModelID,
		Text:    text,
	}
	return nil
}

// generate runs one plain text completion against a bound model with the
// given per-call timeout.
func (c *Council) generate(ctx context.Context, binding ModelBinding, systemPrompt, userPrompt string, timeout time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var opts []gollem.SessionOption
	if systemPrompt != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(systemPrompt))
	}
	session, err := binding.Client.NewSession(callCtx, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create session", goerr.V("model", binding.ModelID))
	}

	resp, err := session.GenerateContent(callCtx, gollem.Text(userPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "generation failed", goerr.V("model", binding.ModelID))
	}
	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if text == "" {
		return "", goerr.New("model returned empty content", goerr.V("model", binding.ModelID))
	}
	return text, nil
}
