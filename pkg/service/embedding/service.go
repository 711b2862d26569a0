// Package embedding wraps the LLM provider's embedding endpoint behind the
// provider contract of the council. The same service instance must back both
// ingestion-time indexing and query-time retrieval so vectors stay in one
// space.
package embedding

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Service maps a text string to a fixed-dimension dense vector
type Service interface {
	// Embed returns the embedding of text. Deterministic for a given model
	// and input. Empty input returns the zero vector without a provider
	// call; callers treat similarity against it as undefined.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the vector dimension D
	Dimension() int
}

type client struct {
	llmClient gollem.LLMClient
	dim       int
}

var _ Service = &client{}

// New creates an embedding service with the given dimension
func New(llmClient gollem.LLMClient, dim int) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if dim <= 0 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", dim))
	}

	return &client{
		llmClient: llmClient,
		dim:       dim,
	}, nil
}

func (c *client) Dimension() int {
	return c.dim
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return make([]float32, c.dim), nil
	}

	embeddings, err := c.llmClient.GenerateEmbedding(ctx, c.dim, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}
	if len(embeddings[0]) != c.dim {
		return nil, goerr.New("embedding dimension mismatch",
			goerr.V("got", len(embeddings[0])), goerr.V("want", c.dim))
	}

	// Convert float64 to float32
	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}
