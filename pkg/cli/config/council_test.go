package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/cli/config"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

func TestLoadAgentsDefaultRoster(t *testing.T) {
	var c config.Council

	agents, err := c.LoadAgents()
	gt.NoError(t, err).Required()
	gt.Array(t, agents).Length(4).Required()

	// canonical domain order regardless of file order
	for i, domain := range types.AllAgentDomains() {
		gt.Value(t, agents[i].Domain).Equal(domain)
		gt.String(t, agents[i].Name).NotEqual("")
		gt.String(t, agents[i].Title).NotEqual("")
	}
}

func TestLoadAgentsCustomRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.toml")
	roster := `
[[agents]]
name = "A"
title = "Real Estate"
expertise = "property"
domain = "real_estate"

[[agents]]
name = "B"
title = "Tourism"
expertise = "hotels"
domain = "tourism"

[[agents]]
name = "C"
title = "Finance"
expertise = "macro"
domain = "finance"

[[agents]]
name = "D"
title = "Infrastructure"
expertise = "utilities"
domain = "infrastructure"
`
	gt.NoError(t, os.WriteFile(path, []byte(roster), 0644)).Required()

	var c config.Council
	c.SetAgentsFile(path)

	agents, err := c.LoadAgents()
	gt.NoError(t, err).Required()
	gt.Array(t, agents).Length(4)
	gt.Value(t, agents[0].Name).Equal("A")
}

func TestLoadAgentsValidation(t *testing.T) {
	write := func(t *testing.T, body string) *config.Council {
		t.Helper()
		path := filepath.Join(t.TempDir(), "agents.toml")
		gt.NoError(t, os.WriteFile(path, []byte(body), 0644)).Required()
		var c config.Council
		c.SetAgentsFile(path)
		return &c
	}

	t.Run("missing file", func(t *testing.T) {
		var c config.Council
		c.SetAgentsFile("/no/such/agents.toml")
		_, err := c.LoadAgents()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrAgentsFileNotFound)).True()
	})

	t.Run("wrong agent count", func(t *testing.T) {
		c := write(t, `
[[agents]]
name = "A"
title = "Real Estate"
expertise = "property"
domain = "real_estate"
`)
		_, err := c.LoadAgents()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrInvalidAgentsFile)).True()
	})

	t.Run("duplicate domain", func(t *testing.T) {
		c := write(t, `
[[agents]]
name = "A"
title = "T"
expertise = "x"
domain = "tourism"

[[agents]]
name = "B"
title = "T"
expertise = "x"
domain = "tourism"

[[agents]]
name = "C"
title = "T"
expertise = "x"
domain = "finance"

[[agents]]
name = "D"
title = "T"
expertise = "x"
domain = "infrastructure"
`)
		_, err := c.LoadAgents()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrInvalidAgentsFile)).True()
	})

	t.Run("invalid domain", func(t *testing.T) {
		c := write(t, `
[[agents]]
name = "A"
title = "T"
expertise = "x"
domain = "astrology"

[[agents]]
name = "B"
title = "T"
expertise = "x"
domain = "tourism"

[[agents]]
name = "C"
title = "T"
expertise = "x"
domain = "finance"

[[agents]]
name = "D"
title = "T"
expertise = "x"
domain = "infrastructure"
`)
		_, err := c.LoadAgents()
		gt.Error(t, err)
	})
}
