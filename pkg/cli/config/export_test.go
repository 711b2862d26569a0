package config

// SetAgentsFile overrides the roster path for tests
func (c *Council) SetAgentsFile(path string) {
	c.agentsFile = path
}

// ExpertSampling exposes the expert sampling parameters for tests
func (g *Gemini) ExpertSampling() (float64, int) {
	return g.expertTemperature, g.expertMaxTokens
}
