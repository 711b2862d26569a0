package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/usecase"
)

// Gemini holds configuration for the Gemini LLM clients. The council uses
// four model roles; each gets its own client so model, temperature and token
// budget can differ per role.
type Gemini struct {
	projectID string
	location  string

	agentModel      string
	deepModel       string
	synthesisModel  string
	classifierModel string

	expertTemperature float64
	expertMaxTokens   int
}

// ModelSuite is the set of role-bound LLM clients the council runs on
type ModelSuite struct {
	Agent         usecase.ModelBinding
	DeepReasoning usecase.ModelBinding
	Synthesis     usecase.ModelBinding
	Classifier    usecase.ModelBinding
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("MAJLIS_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("MAJLIS_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "agent-model",
			Usage:       "Model for expert agent analyses and embeddings",
			Value:       "gemini-2.0-flash",
			Sources:     cli.EnvVars("MAJLIS_AGENT_MODEL"),
			Destination: &g.agentModel,
		},
		&cli.StringFlag{
			Name:        "deep-reasoning-model",
			Usage:       "Model for the cross-expert deep reasoning pass",
			Value:       "gemini-2.5-pro",
			Sources:     cli.EnvVars("MAJLIS_DEEP_REASONING_MODEL"),
			Destination: &g.deepModel,
		},
		&cli.StringFlag{
			Name:        "synthesis-model",
			Usage:       "Model for the CEO decision sheet synthesis",
			Value:       "gemini-2.5-pro",
			Sources:     cli.EnvVars("MAJLIS_SYNTHESIS_MODEL"),
			Destination: &g.synthesisModel,
		},
		&cli.StringFlag{
			Name:        "classifier-model",
			Usage:       "Model for the query domain classifier",
			Value:       "gemini-2.0-flash",
			Sources:     cli.EnvVars("MAJLIS_CLASSIFIER_MODEL"),
			Destination: &g.classifierModel,
		},
		&cli.FloatFlag{
			Name:        "expert-temperature",
			Usage:       "Sampling temperature for expert analyses",
			Value:       0.3,
			Sources:     cli.EnvVars("MAJLIS_EXPERT_TEMPERATURE"),
			Destination: &g.expertTemperature,
		},
		&cli.IntFlag{
			Name:        "expert-max-tokens",
			Usage:       "Output token budget for expert analyses",
			Value:       2048,
			Sources:     cli.EnvVars("MAJLIS_EXPERT_MAX_TOKENS"),
			Destination: &g.expertMaxTokens,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("agent_model", g.agentModel),
		slog.String("deep_reasoning_model", g.deepModel),
		slog.String("synthesis_model", g.synthesisModel),
		slog.String("classifier_model", g.classifierModel),
	}
}

// Configured reports whether a Gemini project is set
func (g *Gemini) Configured() bool {
	return g.projectID != ""
}

// Configure creates the role-bound Gemini clients from the configured flags
func (g *Gemini) Configure(ctx context.Context) (*ModelSuite, error) {
	if !g.Configured() {
		return nil, goerr.New("gemini-project is required")
	}

	agent, err := gemini.New(ctx, g.projectID, g.location,
		gemini.WithModel(g.agentModel),
		gemini.WithTemperature(float32(g.expertTemperature)),
		gemini.WithMaxTokens(int32(g.expertMaxTokens)),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create agent model client", goerr.V("model", g.agentModel))
	}

	deep, err := gemini.New(ctx, g.projectID, g.location,
		gemini.WithModel(g.deepModel),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create deep reasoning client", goerr.V("model", g.deepModel))
	}

	synth, err := gemini.New(ctx, g.projectID, g.location,
		gemini.WithModel(g.synthesisModel),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create synthesis client", goerr.V("model", g.synthesisModel))
	}

	classifier, err := gemini.New(ctx, g.projectID, g.location,
		gemini.WithModel(g.classifierModel),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create classifier client", goerr.V("model", g.classifierModel))
	}

	return &ModelSuite{
		Agent:         usecase.ModelBinding{Client: agent, ModelID: g.agentModel},
		DeepReasoning: usecase.ModelBinding{Client: deep, ModelID: g.deepModel},
		Synthesis:     usecase.ModelBinding{Client: synth, ModelID: g.synthesisModel},
		Classifier:    usecase.ModelBinding{Client: classifier, ModelID: g.classifierModel},
	}, nil
}
