package usecase

import (
	"strings"

	"github.com/diar-analytics/majlis/pkg/domain/model"
)

// Stance labels for the recommendation-direction axis
const (
	stanceProceed = "proceed"
	stanceHold    = "hold"
)

var (
	proceedMarkers = []string{
		"expand", "invest", "accelerate", "proceed", "increase exposure",
		"acquire", "scale up", "double down", "capitalize",
	}
	holdMarkers = []string{
		"hold off", "delay", "pause", "wait", "caution", "cautious",
		"divest", "reduce exposure", "scale back", "postpone", "defer",
	}
)

// DetectDebates scans expert analyses for contradictory recommendations on
// the same decision axis. Detection is a marker heuristic over the
// recommendation section of each analysis: it only surfaces disagreement it
// can name, and an empty result asserts nothing.
func DetectDebates(analyses []*model.AgentAnalysis) []model.Debate {
	var proceed, hold []model.DebatePosition

	for _, a := range analyses {
		section := recommendationSection(a.Text)
		stance := classifyStance(section)
		pos := model.DebatePosition{AgentName: a.Agent.Name, Stance: stance}
		switch stance {
		case stanceProceed:
			proceed = append(proceed, pos)
		case stanceHold:
			hold = append(hold, pos)
		}
	}

	if len(proceed) == 0 || len(hold) == 0 {
		return nil
	}

	positions := make([]model.DebatePosition, 0, len(proceed)+len(hold))
	positions = append(positions, proceed...)
	positions = append(positions, hold...)
	return []model.Debate{{
		Topic:     "strategic direction",
		Positions: positions,
	}}
}

// recommendationSection extracts the "## Strategic Recommendation" section of
// an analysis, or the whole text when the expert did not follow the section
// layout.
func recommendationSection(text string) string {
	lower := strings.ToLower(text)
	start := strings.Index(lower, "## strategic recommendation")
	if start < 0 {
		return text
	}

	rest := text[start:]
	if end := strings.Index(rest[2:], "\n## "); end >= 0 {
		return rest[:end+2]
	}
	return rest
}

func classifyStance(section string) string {
	s := strings.ToLower(section)

	proceedHits, holdHits := 0, 0
	for _, m := range proceedMarkers {
		if strings.Contains(s, m) {
			proceedHits++
		}
	}
	for _, m := range holdMarkers {
		if strings.Contains(s, m) {
			holdHits++
		}
	}

	switch {
	case proceedHits > holdHits:
		return stanceProceed
	case holdHits > proceedHits:
		return stanceHold
	default:
		return ""
	}
}
