package interfaces

import (
	"context"

	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

// DatasetRepository is the read-only contract against the relational metadata
// store. One row per dataset; schema is owned by the ingestion collaborator.
type DatasetRepository interface {
	// Get retrieves one dataset row by ID. Returns nil when not found.
	Get(ctx context.Context, id string) (*model.Dataset, error)

	// GetByTitle retrieves one dataset row by title. Returns nil when not found.
	GetByTitle(ctx context.Context, title string) (*model.Dataset, error)

	// List retrieves dataset rows ordered by title, paginated
	List(ctx context.Context, limit, offset int) ([]*model.Dataset, error)

	// CountByCategory returns row counts per category
	CountByCategory(ctx context.Context) (map[types.Category]int, error)
}

// ConsultLogRepository persists the audit trail of consult calls
type ConsultLogRepository interface {
	// Put stores one consult log entry
	Put(ctx context.Context, log *model.ConsultLog) error

	// List retrieves entries ordered by CreatedAt descending
	List(ctx context.Context, limit int) ([]*model.ConsultLog, error)
}

// Repository aggregates the metadata store access
type Repository interface {
	Datasets() DatasetRepository
	ConsultLogs() ConsultLogRepository
}
