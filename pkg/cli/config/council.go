package config

import (
	_ "embed"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

//go:embed council.toml
var defaultAgentsTOML []byte

// Council holds configuration for the council roster and pipeline tuning
type Council struct {
	agentsFile string
	defaultK   int
	overFetch  int

	expertTimeoutSec int
	deepTimeoutSec   int
	synthTimeoutSec  int
}

// Flags returns CLI flags for council configuration
func (c *Council) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "agents-file",
			Usage:       "TOML file defining the council roster (empty uses the built-in roster)",
			Sources:     cli.EnvVars("MAJLIS_AGENTS_FILE"),
			Destination: &c.agentsFile,
		},
		&cli.IntFlag{
			Name:        "default-k",
			Usage:       "Datasets retrieved per expert per question",
			Value:       5,
			Sources:     cli.EnvVars("MAJLIS_DEFAULT_K"),
			Destination: &c.defaultK,
		},
		&cli.IntFlag{
			Name:        "over-fetch-factor",
			Usage:       "Multiple of k fetched from the vector index before de-duplication",
			Value:       3,
			Sources:     cli.EnvVars("MAJLIS_OVER_FETCH_FACTOR"),
			Destination: &c.overFetch,
		},
		&cli.IntFlag{
			Name:        "expert-timeout",
			Usage:       "Per-expert call timeout in seconds",
			Value:       120,
			Sources:     cli.EnvVars("MAJLIS_EXPERT_TIMEOUT"),
			Destination: &c.expertTimeoutSec,
		},
		&cli.IntFlag{
			Name:        "deep-reasoning-timeout",
			Usage:       "Deep reasoning call timeout in seconds",
			Value:       600,
			Sources:     cli.EnvVars("MAJLIS_DEEP_REASONING_TIMEOUT"),
			Destination: &c.deepTimeoutSec,
		},
		&cli.IntFlag{
			Name:        "synthesis-timeout",
			Usage:       "Synthesis call timeout in seconds",
			Value:       300,
			Sources:     cli.EnvVars("MAJLIS_SYNTHESIS_TIMEOUT"),
			Destination: &c.synthTimeoutSec,
		},
	}
}

// LogAttrs returns log attributes for the council configuration
func (c *Council) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("agents_file", c.agentsFile),
		slog.Int("default_k", c.defaultK),
		slog.Int("over_fetch_factor", c.overFetch),
		slog.Int("expert_timeout_sec", c.expertTimeoutSec),
		slog.Int("deep_reasoning_timeout_sec", c.deepTimeoutSec),
		slog.Int("synthesis_timeout_sec", c.synthTimeoutSec),
	}
}

// DefaultK returns the per-expert retrieval count
func (c *Council) DefaultK() int {
	return c.defaultK
}

// OverFetchFactor returns the retrieval over-fetch multiplier
func (c *Council) OverFetchFactor() int {
	return c.overFetch
}

// ExpertTimeout returns the per-expert call timeout
func (c *Council) ExpertTimeout() time.Duration {
	return time.Duration(c.expertTimeoutSec) * time.Second
}

// DeepReasoningTimeout returns the deep reasoning call timeout
func (c *Council) DeepReasoningTimeout() time.Duration {
	return time.Duration(c.deepTimeoutSec) * time.Second
}

// SynthesisTimeout returns the synthesis call timeout
func (c *Council) SynthesisTimeout() time.Duration {
	return time.Duration(c.synthTimeoutSec) * time.Second
}

type agentsFile struct {
	Agents []*model.AgentSpec `toml:"agents"`
}

// LoadAgents parses and validates the council roster: exactly one expert per
// canonical domain.
func (c *Council) LoadAgents() ([]*model.AgentSpec, error) {
	data := defaultAgentsTOML
	if c.agentsFile != "" {
		raw, err := os.ReadFile(c.agentsFile)
		if err != nil {
			return nil, goerr.Wrap(ErrAgentsFileNotFound, err.Error(), goerr.V("path", c.agentsFile))
		}
		data = raw
	}

	var file agentsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidAgentsFile, err.Error(), goerr.V("path", c.agentsFile))
	}

	if len(file.Agents) != len(types.AllAgentDomains()) {
		return nil, goerr.Wrap(ErrInvalidAgentsFile, "roster must have one agent per domain",
			goerr.V("agents", len(file.Agents)),
			goerr.V("domains", len(types.AllAgentDomains())))
	}

	byDomain := map[types.AgentDomain]*model.AgentSpec{}
	names := map[string]bool{}
	for _, spec := range file.Agents {
		if err := spec.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid agent in roster", goerr.V("path", c.agentsFile))
		}
		if names[spec.Name] {
			return nil, goerr.Wrap(ErrInvalidAgentsFile, "duplicate agent name", goerr.V("name", spec.Name))
		}
		names[spec.Name] = true
		if byDomain[spec.Domain] != nil {
			return nil, goerr.Wrap(ErrInvalidAgentsFile, "duplicate agent domain", goerr.V("domain", spec.Domain))
		}
		byDomain[spec.Domain] = spec
	}

	// Roster order follows the canonical domain order regardless of file order
	ordered := make([]*model.AgentSpec, 0, len(byDomain))
	for _, domain := range types.AllAgentDomains() {
		spec, ok := byDomain[domain]
		if !ok {
			return nil, goerr.Wrap(ErrInvalidAgentsFile, "missing agent for domain", goerr.V("domain", domain))
		}
		ordered = append(ordered, spec)
	}
	return ordered, nil
}
