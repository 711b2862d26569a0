package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// DefaultEmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const DefaultEmbeddingDimension = 768

// Dataset describes one retrievable unit of evidence. It is written by the
// ingestion pipeline and read-only to the core afterwards.
type Dataset struct {
	ID          string
	Title       string
	Description string
	Category    types.Category
	Confidence  int // 0-100, trust in the category assignment
	SourceType  types.SourceType
	Embedding   []float32
}

// Validate checks the dataset invariants against the configured embedding dimension
func (d *Dataset) Validate(dim int) error {
	if d.ID == "" {
		return goerr.New("dataset ID is required")
	}
	if d.Title == "" {
		return goerr.New("dataset title is required", goerr.V("id", d.ID))
	}
	if !d.Category.IsValid() {
		return goerr.New("dataset category is not in the closed set",
			goerr.V("id", d.ID), goerr.V("category", d.Category))
	}
	if d.Confidence < 0 || d.Confidence > 100 {
		return goerr.New("dataset confidence must be between 0 and 100",
			goerr.V("id", d.ID), goerr.V("confidence", d.Confidence))
	}
	if !d.SourceType.IsValid() {
		return goerr.New("invalid dataset source type",
			goerr.V("id", d.ID), goerr.V("source_type", d.SourceType))
	}
	if len(d.Embedding) != dim {
		return goerr.New("dataset embedding dimension mismatch",
			goerr.V("id", d.ID), goerr.V("got", len(d.Embedding)), goerr.V("want", dim))
	}
	return nil
}
