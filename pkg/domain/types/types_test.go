package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/domain/types"
)

func TestCategoryClosedSet(t *testing.T) {
	gt.Array(t, types.AllCategories()).Length(9)

	for _, c := range types.AllCategories() {
		gt.Bool(t, c.IsValid()).True()
	}

	gt.Bool(t, types.Category("Sports & Leisure").IsValid()).False()

	_, err := types.ParseCategory("Tourism & Hospitality")
	gt.NoError(t, err)

	_, err = types.ParseCategory("tourism")
	gt.Error(t, err)
}

func TestSourceType(t *testing.T) {
	for _, s := range types.AllSourceTypes() {
		gt.Bool(t, s.IsValid()).True()
	}
	gt.Bool(t, types.SourceType("wiki").IsValid()).False()
}

func TestAgentDomainCategories(t *testing.T) {
	gt.Array(t, types.AllAgentDomains()).Length(4)

	gt.Value(t, types.AgentDomainRealEstate.Category()).Equal(types.CategoryRealEstate)
	gt.Value(t, types.AgentDomainTourism.Category()).Equal(types.CategoryTourism)
	gt.Value(t, types.AgentDomainFinance.Category()).Equal(types.CategoryEconomic)
	gt.Value(t, types.AgentDomainInfrastructure.Category()).Equal(types.CategoryInfrastructure)

	for _, d := range types.AllAgentDomains() {
		gt.Bool(t, d.Category().IsValid()).True()
	}
}

func TestStrategy(t *testing.T) {
	gt.Bool(t, types.StrategySingleAgent.IsValid()).True()
	gt.Bool(t, types.StrategyMultiAgent.IsValid()).True()
	gt.Bool(t, types.Strategy("dual").IsValid()).False()
}
