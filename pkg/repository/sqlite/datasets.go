package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

type datasetRepository struct {
	db *sql.DB
}

var _ interfaces.DatasetRepository = &datasetRepository{}

const datasetColumns = "id, source_name, description, category, categorization_confidence, source_type"

func scanDataset(row interface{ Scan(...any) error }) (*model.Dataset, error) {
	var d model.Dataset
	var category, sourceType string
	if err := row.Scan(&d.ID, &d.Title, &d.Description, &category, &d.Confidence, &sourceType); err != nil {
		return nil, err
	}
	d.Category = types.Category(category)
	d.SourceType = types.SourceType(sourceType)
	return &d, nil
}

func (r *datasetRepository) Get(ctx context.Context, id string) (*model.Dataset, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+datasetColumns+" FROM datasets WHERE id = ?", id)

	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get dataset", goerr.V("id", id))
	}
	return d, nil
}

func (r *datasetRepository) GetByTitle(ctx context.Context, title string) (*model.Dataset, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+datasetColumns+" FROM datasets WHERE source_name = ?", title)

	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get dataset by title", goerr.V("title", title))
	}
	return d, nil
}

func (r *datasetRepository) List(ctx context.Context, limit, offset int) ([]*model.Dataset, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+datasetColumns+" FROM datasets ORDER BY source_name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list datasets")
	}
	defer rows.Close()

	var datasets []*model.Dataset
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan dataset row")
		}
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate dataset rows")
	}
	return datasets, nil
}

func (r *datasetRepository) CountByCategory(ctx context.Context) (map[types.Category]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM datasets GROUP BY category")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count datasets by category")
	}
	defer rows.Close()

	counts := make(map[types.Category]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, goerr.Wrap(err, "failed to scan category count")
		}
		counts[types.Category(category)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate category counts")
	}
	return counts, nil
}
