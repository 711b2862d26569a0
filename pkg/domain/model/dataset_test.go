package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

func validDataset(dim int) *model.Dataset {
	return &model.Dataset{
		ID:          "ds-001",
		Title:       "Hotel Occupancy Rates by Month",
		Description: "Monthly occupancy across Doha hotels",
		Category:    types.CategoryTourism,
		Confidence:  90,
		SourceType:  types.SourceTypeQatarOpenData,
		Embedding:   make([]float32, dim),
	}
}

func TestDatasetValidate(t *testing.T) {
	t.Run("valid dataset passes", func(t *testing.T) {
		gt.NoError(t, validDataset(8).Validate(8))
	})

	t.Run("missing ID fails", func(t *testing.T) {
		d := validDataset(8)
		d.ID = ""
		gt.Error(t, d.Validate(8))
	})

	t.Run("category outside closed set fails", func(t *testing.T) {
		d := validDataset(8)
		d.Category = "Sports"
		gt.Error(t, d.Validate(8))
	})

	t.Run("confidence out of range fails", func(t *testing.T) {
		d := validDataset(8)
		d.Confidence = 101
		gt.Error(t, d.Validate(8))

		d.Confidence = -1
		gt.Error(t, d.Validate(8))
	})

	t.Run("dimension mismatch fails", func(t *testing.T) {
		d := validDataset(8)
		gt.Error(t, d.Validate(16))
	})
}

func TestRetrievalResultTitles(t *testing.T) {
	r := &model.RetrievalResult{
		Query: "occupancy",
		Results: []model.ScoredDataset{
			{Dataset: validDataset(4), Similarity: 0.9},
		},
	}
	gt.Array(t, r.Titles()).Equal([]string{"Hotel Occupancy Rates by Month"})
	gt.Value(t, r.Len()).Equal(1)

	var nilResult *model.RetrievalResult
	gt.Value(t, nilResult.Len()).Equal(0)
}

func TestAgentSpecValidate(t *testing.T) {
	spec := &model.AgentSpec{
		Name:      "Dr. Amal Al-Kuwari",
		Title:     "Real Estate Strategy Advisor",
		Expertise: "Qatar property market, GCC ownership regulation",
		Domain:    types.AgentDomainRealEstate,
	}
	gt.NoError(t, spec.Validate())
	gt.Value(t, spec.Category()).Equal(types.CategoryRealEstate)

	identity := spec.Identity()
	gt.Value(t, identity.Name).Equal(spec.Name)
	gt.Value(t, identity.Category).Equal(types.CategoryRealEstate)

	spec.Domain = "maritime"
	gt.Error(t, spec.Validate())
}
