package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/repository/memory"
	"github.com/diar-analytics/majlis/pkg/repository/sqlite"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
	"github.com/diar-analytics/majlis/pkg/utils/safe"
)

// SQLite holds configuration for the metadata store
type SQLite struct {
	path string
}

// Flags returns CLI flags for the metadata store
func (s *SQLite) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "SQLite database path for dataset metadata and consult logs (empty uses in-memory store)",
			Sources:     cli.EnvVars("MAJLIS_DB_PATH"),
			Destination: &s.path,
		},
	}
}

// LogAttrs returns log attributes for the store configuration
func (s *SQLite) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("db_path", s.path),
	}
}

// Configure opens the metadata store. Returns a closer for the database
// handle; the in-memory fallback closer is a no-op.
func (s *SQLite) Configure(ctx context.Context) (interfaces.Repository, func(), error) {
	if s.path == "" {
		logging.Default().Warn("db-path not set, using in-memory metadata store")
		return memory.New(), func() {}, nil
	}

	store, err := sqlite.New(s.path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open metadata store", goerr.V("path", s.path))
	}

	closer := func() {
		safe.Close(ctx, store)
	}
	return store, closer, nil
}
