package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// Index is a brute-force in-memory vector index over cosine distance
type Index struct {
	mu       sync.RWMutex
	datasets map[string]*model.Dataset
	dim      int
}

var _ interfaces.VectorIndex = &Index{}

// NewIndex creates an empty index for vectors of the given dimension
func NewIndex(dim int) *Index {
	return &Index{
		datasets: make(map[string]*model.Dataset),
		dim:      dim,
	}
}

// Insert adds datasets to the index. Existing IDs are overwritten.
func (x *Index) Insert(ctx context.Context, datasets []*model.Dataset) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, d := range datasets {
		if err := d.Validate(x.dim); err != nil {
			return goerr.Wrap(err, "invalid dataset")
		}
		cp := *d
		cp.Embedding = append([]float32(nil), d.Embedding...)
		x.datasets[d.ID] = &cp
	}
	return nil
}

// Count returns the number of indexed datasets
func (x *Index) Count(ctx context.Context) (int64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return int64(len(x.datasets)), nil
}

// Search returns up to n nearest datasets by cosine distance, optionally
// restricted to one category. Results are ordered by distance ascending with
// ID-ascending tie-breaks.
func (x *Index) Search(ctx context.Context, vector []float32, n int, category *types.Category) ([]*interfaces.VectorHit, error) {
	if len(vector) != x.dim {
		return nil, goerr.New("query vector dimension mismatch",
			goerr.V("got", len(vector)), goerr.V("want", x.dim))
	}
	if n <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	hits := make([]*interfaces.VectorHit, 0, len(x.datasets))
	for _, d := range x.datasets {
		if category != nil && d.Category != *category {
			continue
		}
		cp := *d
		hits = append(hits, &interfaces.VectorHit{
			Dataset:  &cp,
			Distance: cosineDistance(vector, d.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Dataset.ID < hits[j].Dataset.ID
	})

	if len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

// cosineDistance returns 1 - cosine similarity, range [0, 2]. A zero-norm
// vector has no direction; distance to it is reported as 1 (orthogonal).
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
