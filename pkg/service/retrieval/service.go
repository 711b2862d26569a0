// Package retrieval implements the evidence retrieval layer over the vector
// index: over-fetch, category filtering, title-level de-duplication, and
// distance-to-similarity conversion.
package retrieval

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
	"github.com/diar-analytics/majlis/pkg/service/embedding"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

// DefaultOverFetchFactor is how many times k the index is asked for, so
// de-duplication still leaves enough results.
const DefaultOverFetchFactor = 3

// Service retrieves the most relevant datasets for a query
type Service interface {
	// Retrieve returns up to k datasets matching the query, optionally
	// restricted to one category. Results are sorted by similarity
	// descending with ID-ascending tie-breaks and contain no duplicate
	// titles. A short result is valid; errors from the index propagate.
	Retrieve(ctx context.Context, query string, category *types.Category, k int) (*model.RetrievalResult, error)
}

// Option is a functional option for the retrieval client
type Option func(*client)

// WithOverFetchFactor overrides the over-fetch multiplier
func WithOverFetchFactor(factor int) Option {
	return func(c *client) {
		if factor > 0 {
			c.overFetch = factor
		}
	}
}

type client struct {
	index     interfaces.VectorIndex
	embedder  embedding.Service
	overFetch int
}

var _ Service = &client{}

// New creates a retrieval service over the given index and embedder
func New(index interfaces.VectorIndex, embedder embedding.Service, opts ...Option) (Service, error) {
	if index == nil {
		return nil, goerr.New("vector index is required")
	}
	if embedder == nil {
		return nil, goerr.New("embedding service is required")
	}

	c := &client{
		index:     index,
		embedder:  embedder,
		overFetch: DefaultOverFetchFactor,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) Retrieve(ctx context.Context, query string, category *types.Category, k int) (*model.RetrievalResult, error) {
	result := &model.RetrievalResult{Query: query}
	if k <= 0 {
		return result, nil
	}

	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query", goerr.V("query", query))
	}

	// A zero-norm vector has no direction; similarity against it is
	// undefined, so the result is empty rather than arbitrary.
	if isZero(vector) {
		logging.From(ctx).Debug("query embedded to zero vector, returning empty result", "query", query)
		return result, nil
	}

	hits, err := c.index.Search(ctx, vector, k*c.overFetch, category)
	if err != nil {
		return nil, goerr.Wrap(err, "vector search failed", goerr.V("query", query))
	}

	// The index already orders by distance; re-sort defensively so the
	// sorted-desc and tie-break guarantees do not depend on the backend.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Dataset.ID < hits[j].Dataset.ID
	})

	seen := make(map[string]bool, k)
	for _, hit := range hits {
		if category != nil && hit.Dataset.Category != *category {
			continue
		}
		if seen[hit.Dataset.Title] {
			continue
		}
		seen[hit.Dataset.Title] = true

		result.Results = append(result.Results, model.ScoredDataset{
			Dataset:    hit.Dataset,
			Similarity: clamp01(1 - hit.Distance),
		})
		if len(result.Results) == k {
			break
		}
	}

	return result, nil
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// clamp01 bounds the converted similarity to [0, 1]; cosine distance ranges
// over [0, 2], so anti-aligned vectors floor at 0.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
