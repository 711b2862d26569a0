package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

type datasetRepository struct {
	mu       sync.RWMutex
	datasets map[string]*model.Dataset
}

var _ interfaces.DatasetRepository = &datasetRepository{}

func newDatasetRepository() *datasetRepository {
	return &datasetRepository{
		datasets: make(map[string]*model.Dataset),
	}
}

// Seed loads dataset rows into the repository. Test helper; the production
// metadata store is written by the ingestion collaborator.
func (r *datasetRepository) Seed(datasets ...*model.Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range datasets {
		cp := *d
		r.datasets[d.ID] = &cp
	}
}

func (r *datasetRepository) Get(ctx context.Context, id string) (*model.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.datasets[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *datasetRepository) GetByTitle(ctx context.Context, title string) (*model.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.datasets {
		if d.Title == title {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *datasetRepository) List(ctx context.Context, limit, offset int) ([]*model.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.Dataset, 0, len(r.datasets))
	for _, d := range r.datasets {
		cp := *d
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *datasetRepository) CountByCategory(ctx context.Context) (map[types.Category]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[types.Category]int)
	for _, d := range r.datasets {
		counts[d.Category]++
	}
	return counts, nil
}
