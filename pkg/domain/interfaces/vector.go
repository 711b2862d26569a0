package interfaces

import (
	"context"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// VectorHit is one nearest-neighbor match from the vector index. Distance is
// in cosine space, range [0, 2]; smaller is closer.
type VectorHit struct {
	Dataset  *model.Dataset
	Distance float64
}

// VectorIndex is the query-time contract against the vector store. The core
// treats the index as read-only; Insert exists for the ingestion collaborator
// and for tests.
type VectorIndex interface {
	// Search returns up to n nearest datasets to the query vector. When
	// category is non-nil, only datasets of that category are returned.
	Search(ctx context.Context, vector []float32, n int, category *types.Category) ([]*VectorHit, error)

	// Insert adds datasets to the index
	Insert(ctx context.Context, datasets []*model.Dataset) error

	// Count returns the number of indexed datasets
	Count(ctx context.Context) (int64, error)
}
