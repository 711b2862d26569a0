package usecase

import (
	"context"
	"sort"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

// topSourceLimit caps the ranked source list of the transparency block
const topSourceLimit = 5

// buildTransparency aggregates which sources fed a decision: the union of
// titles across agents, per-agent retrieval counts, and the titles retrieved
// by the most agents. When a metadata repository is bound, confidence values
// are refreshed from it, since the relational store is authoritative for
// categorization confidence.
func buildTransparency(ctx context.Context, datasets interfaces.DatasetRepository, analyses []*model.AgentAnalysis) model.Transparency {
	perAgent := make(map[string]int, len(analyses))
	byTitle := map[string]*model.TopSource{}

	for _, analysis := range analyses {
		perAgent[analysis.Agent.Name] = analysis.Sources.Len()
		if analysis.Sources == nil {
			continue
		}
		for _, scored := range analysis.Sources.Results {
			d := scored.Dataset
			if top, ok := byTitle[d.Title]; ok {
				top.CitedBy++
				continue
			}
			byTitle[d.Title] = &model.TopSource{
				Title:      d.Title,
				Category:   d.Category,
				Confidence: d.Confidence,
				CitedBy:    1,
			}
		}
	}

	top := make([]model.TopSource, 0, len(byTitle))
	for _, src := range byTitle {
		top = append(top, *src)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].CitedBy != top[j].CitedBy {
			return top[i].CitedBy > top[j].CitedBy
		}
		return top[i].Title < top[j].Title
	})
	if len(top) > topSourceLimit {
		top = top[:topSourceLimit]
	}

	if datasets != nil {
		refreshConfidence(ctx, datasets, top)
	}

	return model.Transparency{
		TotalSources:    len(byTitle),
		PerAgentSources: perAgent,
		TopSources:      top,
	}
}

func refreshConfidence(ctx context.Context, datasets interfaces.DatasetRepository, top []model.TopSource) {
	for i := range top {
		row, err := datasets.GetByTitle(ctx, top[i].Title)
		if err != nil {
			logging.From(ctx).Debug("failed to refresh source confidence",
				"title", top[i].Title, "error", err)
			continue
		}
		if row != nil {
			top[i].Confidence = row.Confidence
		}
	}
}
