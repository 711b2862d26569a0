package usecase

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/domain/model"
)

func analysisWith(name, recommendation string) *model.AgentAnalysis {
	return &model.AgentAnalysis{
		Agent: model.AgentIdentity{Name: name},
		Text: "## Key Findings\nSome findings.\n\n" +
			"## Strategic Recommendation\n" + recommendation + "\n\n" +
			"## Risks & Caveats\nNone noted.",
	}
}

func TestDetectDebatesOpposingStances(t *testing.T) {
	debates := DetectDebates([]*model.AgentAnalysis{
		analysisWith("Rashid", "Accelerate land acquisition and expand the portfolio."),
		analysisWith("Faisal", "Delay new commitments; remain cautious on leverage."),
		analysisWith("Layla", "Demand is steady."),
	})

	gt.Array(t, debates).Length(1).Required()
	gt.Value(t, debates[0].Topic).Equal("strategic direction")

	stances := map[string]string{}
	for _, pos := range debates[0].Positions {
		stances[pos.AgentName] = pos.Stance
	}
	gt.Value(t, stances["Rashid"]).Equal(stanceProceed)
	gt.Value(t, stances["Faisal"]).Equal(stanceHold)
	_, present := stances["Layla"]
	gt.Bool(t, present).False()
}

func TestDetectDebatesAlignedExperts(t *testing.T) {
	debates := DetectDebates([]*model.AgentAnalysis{
		analysisWith("Rashid", "Expand into hospitality-adjacent assets."),
		analysisWith("Layla", "Invest in additional hotel capacity."),
	})
	gt.Array(t, debates).Length(0)
}

func TestDetectDebatesNoRecommendationSection(t *testing.T) {
	// stance classification falls back to the whole text
	debates := DetectDebates([]*model.AgentAnalysis{
		{Agent: model.AgentIdentity{Name: "Rashid"}, Text: "We should accelerate construction."},
		{Agent: model.AgentIdentity{Name: "Faisal"}, Text: "Better to pause and wait for rate cuts."},
	})
	gt.Array(t, debates).Length(1)
}

func TestDetectDebatesMixedSignalsAreNeutral(t *testing.T) {
	// equal marker counts in one analysis classify as no stance
	debates := DetectDebates([]*model.AgentAnalysis{
		analysisWith("Rashid", "Expand selectively, but pause the riskiest tranche."),
		analysisWith("Faisal", "Defer all new spending."),
	})
	gt.Array(t, debates).Length(0)
}
