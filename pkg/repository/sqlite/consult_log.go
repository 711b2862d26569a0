package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/domain/types"
)

type consultLogRepository struct {
	db *sql.DB
}

var _ interfaces.ConsultLogRepository = &consultLogRepository{}

func (r *consultLogRepository) Put(ctx context.Context, log *model.ConsultLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO consult_logs (id, question, strategy, agent_count, source_count, warning_count, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(log.ID), log.Question, log.Strategy.String(),
		log.AgentCount, log.SourceCount, log.WarningCount,
		log.Duration.Milliseconds(), log.CreatedAt.UTC())
	if err != nil {
		return goerr.Wrap(err, "failed to insert consult log", goerr.V("id", log.ID))
	}
	return nil
}

func (r *consultLogRepository) List(ctx context.Context, limit int) ([]*model.ConsultLog, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question, strategy, agent_count, source_count, warning_count, duration_ms, created_at
		 FROM consult_logs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list consult logs")
	}
	defer rows.Close()

	var logs []*model.ConsultLog
	for rows.Next() {
		var l model.ConsultLog
		var id, strategy string
		var durationMS int64
		var createdAt time.Time
		if err := rows.Scan(&id, &l.Question, &strategy, &l.AgentCount, &l.SourceCount, &l.WarningCount, &durationMS, &createdAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan consult log row")
		}
		l.ID = model.DecisionID(id)
		l.Strategy = types.Strategy(strategy)
		l.Duration = time.Duration(durationMS) * time.Millisecond
		l.CreatedAt = createdAt
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate consult log rows")
	}
	return logs, nil
}
