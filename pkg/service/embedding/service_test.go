package embedding_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/service/embedding"
)

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
	calls               int
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	c.calls++
	if c.generateEmbeddingFn != nil {
		return c.generateEmbeddingFn(ctx, dimension, input)
	}
	out := make([][]float64, len(input))
	for i := range input {
		v := make([]float64, dimension)
		for j := range v {
			v[j] = float64(len(input[i])) // deterministic per input
		}
		out[i] = v
	}
	return out, nil
}

func TestEmbedConvertsToFloat32(t *testing.T) {
	mock := &mockLLMClient{}
	svc, err := embedding.New(mock, 4)
	gt.NoError(t, err).Required()
	gt.Value(t, svc.Dimension()).Equal(4)

	vec, err := svc.Embed(context.Background(), "occupancy")
	gt.NoError(t, err).Required()
	gt.Array(t, vec).Length(4)
	gt.Value(t, vec[0]).Equal(float32(9))
}

func TestEmbedDeterministic(t *testing.T) {
	mock := &mockLLMClient{}
	svc, err := embedding.New(mock, 4)
	gt.NoError(t, err).Required()

	a, err := svc.Embed(context.Background(), "same input")
	gt.NoError(t, err).Required()
	b, err := svc.Embed(context.Background(), "same input")
	gt.NoError(t, err).Required()
	gt.Array(t, a).Equal(b)
}

func TestEmbedEmptyInputSkipsProvider(t *testing.T) {
	mock := &mockLLMClient{}
	svc, err := embedding.New(mock, 4)
	gt.NoError(t, err).Required()

	vec, err := svc.Embed(context.Background(), "   ")
	gt.NoError(t, err).Required()
	gt.Array(t, vec).Equal(make([]float32, 4))
	gt.Value(t, mock.calls).Equal(0)
}

func TestEmbedDimensionMismatch(t *testing.T) {
	mock := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return [][]float64{{1, 2}}, nil
		},
	}
	svc, err := embedding.New(mock, 4)
	gt.NoError(t, err).Required()

	_, err = svc.Embed(context.Background(), "text")
	gt.Error(t, err)
}

func TestNewValidation(t *testing.T) {
	_, err := embedding.New(nil, 4)
	gt.Error(t, err)

	_, err = embedding.New(&mockLLMClient{}, 0)
	gt.Error(t, err)
}
