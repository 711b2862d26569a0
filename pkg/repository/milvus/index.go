// Package milvus implements the vector index contract on a Milvus collection.
// The collection is written by the ingestion pipeline; query-time traffic is
// read-only and takes no locks.
package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// Config holds the Milvus connection and collection settings
type Config struct {
	Address    string
	Username   string
	Password   string
	Database   string
	Collection string
	Dimension  int
}

// Index is a Milvus-backed vector index over cosine distance
type Index struct {
	client     *milvusclient.Client
	collection string
	dim        int
}

var _ interfaces.VectorIndex = &Index{}

var outputFields = []string{"dataset_id", "title", "description", "category", "confidence", "source_type"}

// New connects to Milvus and ensures the dataset collection exists
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Address == "" {
		return nil, goerr.New("milvus address is required")
	}
	if cfg.Collection == "" {
		return nil, goerr.New("milvus collection name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", cfg.Dimension))
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to milvus", goerr.V("address", cfg.Address))
	}

	x := &Index{
		client:     client,
		collection: cfg.Collection,
		dim:        cfg.Dimension,
	}

	if err := x.ensureCollection(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}

	return x, nil
}

// Close closes the Milvus connection
func (x *Index) Close(ctx context.Context) error {
	return x.client.Close(ctx)
}

func (x *Index) ensureCollection(ctx context.Context) error {
	exists, err := x.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(x.collection))
	if err != nil {
		return goerr.Wrap(err, "failed to check collection existence", goerr.V("collection", x.collection))
	}
	if exists {
		return nil
	}

	schema := entity.NewSchema().
		WithName(x.collection).
		WithDescription("dataset descriptors for the strategic council").
		WithAutoID(true)

	schema.WithField(
		entity.NewField().
			WithName("id").
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true).
			WithIsAutoID(true),
	)
	schema.WithField(
		entity.NewField().
			WithName("embedding").
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(x.dim)),
	)

	varcharFields := []struct {
		name   string
		maxLen int64
	}{
		{"dataset_id", 64},
		{"title", 512},
		{"description", 8192},
		{"category", 64},
		{"source_type", 32},
	}
	for _, f := range varcharFields {
		schema.WithField(
			entity.NewField().
				WithName(f.name).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(f.maxLen),
		)
	}
	schema.WithField(
		entity.NewField().
			WithName("confidence").
			WithDataType(entity.FieldTypeInt64),
	)

	if err := x.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(x.collection, schema)); err != nil {
		return goerr.Wrap(err, "failed to create collection", goerr.V("collection", x.collection))
	}

	idx := index.NewIvfFlatIndex(entity.COSINE, 128)
	createIdxTask, err := x.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(x.collection, "embedding", idx))
	if err != nil {
		return goerr.Wrap(err, "failed to create vector index", goerr.V("collection", x.collection))
	}
	if err := createIdxTask.Await(ctx); err != nil {
		return goerr.Wrap(err, "failed to wait for index creation")
	}

	loadTask, err := x.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(x.collection))
	if err != nil {
		return goerr.Wrap(err, "failed to load collection", goerr.V("collection", x.collection))
	}
	if err := loadTask.Await(ctx); err != nil {
		return goerr.Wrap(err, "failed to wait for collection loading")
	}

	return nil
}

// Insert adds datasets to the collection and flushes so they are immediately
// searchable. Intended for the ingestion collaborator and tests.
func (x *Index) Insert(ctx context.Context, datasets []*model.Dataset) error {
	if len(datasets) == 0 {
		return nil
	}

	embeddings := make([][]float32, len(datasets))
	ids := make([]string, len(datasets))
	titles := make([]string, len(datasets))
	descriptions := make([]string, len(datasets))
	categories := make([]string, len(datasets))
	sourceTypes := make([]string, len(datasets))
	confidences := make([]int64, len(datasets))

	for i, d := range datasets {
		if err := d.Validate(x.dim); err != nil {
			return goerr.Wrap(err, "invalid dataset")
		}
		embeddings[i] = d.Embedding
		ids[i] = d.ID
		titles[i] = d.Title
		descriptions[i] = d.Description
		categories[i] = d.Category.String()
		sourceTypes[i] = d.SourceType.String()
		confidences[i] = int64(d.Confidence)
	}

	columns := []column.Column{
		column.NewColumnFloatVector("embedding", x.dim, embeddings),
		column.NewColumnVarChar("dataset_id", ids),
		column.NewColumnVarChar("title", titles),
		column.NewColumnVarChar("description", descriptions),
		column.NewColumnVarChar("category", categories),
		column.NewColumnVarChar("source_type", sourceTypes),
		column.NewColumnInt64("confidence", confidences),
	}

	if _, err := x.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(x.collection, columns...)); err != nil {
		return goerr.Wrap(err, "failed to insert datasets", goerr.V("collection", x.collection))
	}

	flushTask, err := x.client.Flush(ctx, milvusclient.NewFlushOption(x.collection))
	if err != nil {
		return goerr.Wrap(err, "failed to flush collection", goerr.V("collection", x.collection))
	}
	if err := flushTask.Await(ctx); err != nil {
		return goerr.Wrap(err, "failed to wait for flush")
	}

	return nil
}

// Count returns the number of rows in the collection
func (x *Index) Count(ctx context.Context) (int64, error) {
	stats, err := x.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(x.collection))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get collection stats", goerr.V("collection", x.collection))
	}
	if val, ok := stats["row_count"]; ok {
		count, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, goerr.Wrap(err, "failed to parse row count", goerr.V("row_count", val))
		}
		return count, nil
	}
	return 0, nil
}

// Search performs ANN search over the collection, optionally restricted to
// one category via a Milvus filter expression. With the COSINE metric the
// score is a similarity; it is converted to cosine distance here so all index
// backends report the same scale.
func (x *Index) Search(ctx context.Context, vector []float32, n int, category *types.Category) ([]*interfaces.VectorHit, error) {
	if len(vector) != x.dim {
		return nil, goerr.New("query vector dimension mismatch",
			goerr.V("got", len(vector)), goerr.V("want", x.dim))
	}
	if n <= 0 {
		return nil, nil
	}

	loadTask, err := x.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(x.collection))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load collection", goerr.V("collection", x.collection))
	}
	if err := loadTask.Await(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to wait for collection loading")
	}

	opt := milvusclient.NewSearchOption(x.collection, n, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField("embedding").
		WithSearchParam("nprobe", "16").
		WithOutputFields(outputFields...)
	if category != nil {
		opt = opt.WithFilter(fmt.Sprintf("category == %q", category.String()))
	}

	results, err := x.client.Search(ctx, opt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search collection", goerr.V("collection", x.collection))
	}
	if len(results) == 0 {
		return nil, nil
	}

	hits := make([]*interfaces.VectorHit, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		d := &model.Dataset{}
		for _, field := range results[0].Fields {
			switch col := field.(type) {
			case *column.ColumnVarChar:
				switch col.Name() {
				case "dataset_id":
					d.ID = col.Data()[i]
				case "title":
					d.Title = col.Data()[i]
				case "description":
					d.Description = col.Data()[i]
				case "category":
					d.Category = types.Category(col.Data()[i])
				case "source_type":
					d.SourceType = types.SourceType(col.Data()[i])
				}
			case *column.ColumnInt64:
				if col.Name() == "confidence" {
					d.Confidence = int(col.Data()[i])
				}
			}
		}

		hits = append(hits, &interfaces.VectorHit{
			Dataset:  d,
			Distance: 1 - float64(results[0].Scores[i]),
		})
	}

	return hits, nil
}
