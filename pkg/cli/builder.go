package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/cli/config"
	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/service/embedding"
	"github.com/diar-analytics/majlis/pkg/service/retrieval"
	"github.com/diar-analytics/majlis/pkg/usecase"
)

// councilConfig groups the flag sets every council-backed command needs
type councilConfig struct {
	gemini  config.Gemini
	milvus  config.Milvus
	sqlite  config.SQLite
	council config.Council
}

func (c *councilConfig) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, c.gemini.Flags()...)
	flags = append(flags, c.milvus.Flags()...)
	flags = append(flags, c.sqlite.Flags()...)
	flags = append(flags, c.council.Flags()...)
	return flags
}

// build wires the full pipeline from configuration. The returned closer
// releases store connections and must run after the council is done.
func (c *councilConfig) build(ctx context.Context) (*usecase.Council, interfaces.Repository, func(), error) {
	suite, err := c.gemini.Configure(ctx)
	if err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to configure LLM clients")
	}

	index, indexCloser, err := c.milvus.Configure(ctx)
	if err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to configure vector index")
	}

	repo, repoCloser, err := c.sqlite.Configure(ctx)
	if err != nil {
		indexCloser()
		return nil, nil, nil, goerr.Wrap(err, "failed to configure metadata store")
	}
	closer := func() {
		repoCloser()
		indexCloser()
	}

	embedder, err := embedding.New(suite.Agent.Client, c.milvus.Dimension())
	if err != nil {
		closer()
		return nil, nil, nil, goerr.Wrap(err, "failed to create embedding service")
	}

	retriever, err := retrieval.New(index, embedder,
		retrieval.WithOverFetchFactor(c.council.OverFetchFactor()))
	if err != nil {
		closer()
		return nil, nil, nil, goerr.Wrap(err, "failed to create retrieval service")
	}

	specs, err := c.council.LoadAgents()
	if err != nil {
		closer()
		return nil, nil, nil, goerr.Wrap(err, "failed to load council roster")
	}

	experts := make([]*usecase.Expert, 0, len(specs))
	for _, spec := range specs {
		expert, err := usecase.NewExpert(spec, suite.Agent, retriever, c.council.DefaultK())
		if err != nil {
			closer()
			return nil, nil, nil, goerr.Wrap(err, "failed to create expert", goerr.V("agent", spec.Name))
		}
		experts = append(experts, expert)
	}

	router, err := usecase.NewRouter(experts, suite.Classifier)
	if err != nil {
		closer()
		return nil, nil, nil, goerr.Wrap(err, "failed to create router")
	}

	council, err := usecase.NewCouncil(router,
		usecase.WithDeepReasoning(suite.DeepReasoning),
		usecase.WithSynthesis(suite.Synthesis),
		usecase.WithRepository(repo),
		usecase.WithExpertTimeout(c.council.ExpertTimeout()),
		usecase.WithDeepReasoningTimeout(c.council.DeepReasoningTimeout()),
		usecase.WithSynthesisTimeout(c.council.SynthesisTimeout()),
	)
	if err != nil {
		closer()
		return nil, nil, nil, goerr.Wrap(err, "failed to create council")
	}

	return council, repo, closer, nil
}
