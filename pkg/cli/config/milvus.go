package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/repository/memory"
	"github.com/diar-analytics/majlis/pkg/repository/milvus"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

// Milvus holds configuration for the vector index backend. Without an
// address, the process falls back to the in-memory index, which only makes
// sense for local runs.
type Milvus struct {
	address    string
	username   string
	password   string
	database   string
	collection string
	dimension  int
}

// Flags returns CLI flags for Milvus configuration
func (m *Milvus) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "milvus-addr",
			Usage:       "Milvus server address (empty uses an in-memory index)",
			Sources:     cli.EnvVars("MAJLIS_MILVUS_ADDR"),
			Destination: &m.address,
		},
		&cli.StringFlag{
			Name:        "milvus-user",
			Usage:       "Milvus username",
			Sources:     cli.EnvVars("MAJLIS_MILVUS_USER"),
			Destination: &m.username,
		},
		&cli.StringFlag{
			Name:        "milvus-password",
			Usage:       "Milvus password",
			Sources:     cli.EnvVars("MAJLIS_MILVUS_PASSWORD"),
			Destination: &m.password,
		},
		&cli.StringFlag{
			Name:        "milvus-database",
			Usage:       "Milvus database name",
			Value:       "default",
			Sources:     cli.EnvVars("MAJLIS_MILVUS_DATABASE"),
			Destination: &m.database,
		},
		&cli.StringFlag{
			Name:        "milvus-collection",
			Usage:       "Milvus collection for dataset embeddings",
			Value:       "datasets",
			Sources:     cli.EnvVars("MAJLIS_MILVUS_COLLECTION"),
			Destination: &m.collection,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Dimension of dataset embeddings",
			Value:       768,
			Sources:     cli.EnvVars("MAJLIS_EMBEDDING_DIMENSION"),
			Destination: &m.dimension,
		},
	}
}

// LogAttrs returns log attributes for the Milvus configuration
func (m *Milvus) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("address", m.address),
		slog.String("database", m.database),
		slog.String("collection", m.collection),
		slog.Int("dimension", m.dimension),
	}
}

// Dimension returns the configured embedding dimension
func (m *Milvus) Dimension() int {
	return m.dimension
}

// Configure builds the vector index. Returns a closer that releases the
// Milvus connection; for the in-memory fallback the closer is a no-op.
func (m *Milvus) Configure(ctx context.Context) (interfaces.VectorIndex, func(), error) {
	if m.dimension <= 0 {
		return nil, nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", m.dimension))
	}

	if m.address == "" {
		logging.Default().Warn("milvus-addr not set, using in-memory vector index")
		return memory.NewIndex(m.dimension), func() {}, nil
	}

	index, err := milvus.New(ctx, milvus.Config{
		Address:    m.address,
		Username:   m.username,
		Password:   m.password,
		Database:   m.database,
		Collection: m.collection,
		Dimension:  m.dimension,
	})
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to connect to milvus", goerr.V("address", m.address))
	}

	closer := func() {
		if err := index.Close(context.Background()); err != nil {
			logging.Default().Error("failed to close milvus connection", "error", err)
		}
	}
	return index, closer, nil
}
