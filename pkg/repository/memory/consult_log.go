package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
)

type consultLogRepository struct {
	mu   sync.RWMutex
	logs []*model.ConsultLog
}

var _ interfaces.ConsultLogRepository = &consultLogRepository{}

func newConsultLogRepository() *consultLogRepository {
	return &consultLogRepository{}
}

func (r *consultLogRepository) Put(ctx context.Context, log *model.ConsultLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *log
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *consultLogRepository) List(ctx context.Context, limit int) ([]*model.ConsultLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.ConsultLog, 0, len(r.logs))
	for _, l := range r.logs {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
