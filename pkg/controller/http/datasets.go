package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/utils/errutil"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type datasetResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Confidence  int    `json:"confidence"`
	SourceType  string `json:"source_type"`
}

func datasetsHandler(datasets interfaces.DatasetRepository) http.HandlerFunc {
	type response struct {
		Datasets []datasetResponse `json:"datasets"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit := queryInt(r, "limit", defaultListLimit)
		offset := queryInt(r, "offset", 0)

		rows, err := datasets.List(ctx, limit, offset)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to list datasets"), http.StatusInternalServerError)
			return
		}

		resp := response{Datasets: make([]datasetResponse, 0, len(rows))}
		for _, row := range rows {
			resp.Datasets = append(resp.Datasets, datasetResponse{
				ID:          row.ID,
				Title:       row.Title,
				Description: row.Description,
				Category:    row.Category.String(),
				Confidence:  row.Confidence,
				SourceType:  row.SourceType.String(),
			})
		}
		writeJSON(ctx, w, resp)
	}
}

func categoriesHandler(datasets interfaces.DatasetRepository) http.HandlerFunc {
	type response struct {
		Categories map[string]int `json:"categories"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		counts, err := datasets.CountByCategory(ctx)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to count categories"), http.StatusInternalServerError)
			return
		}

		resp := response{Categories: make(map[string]int, len(counts))}
		for category, count := range counts {
			resp.Categories[category.String()] = count
		}
		writeJSON(ctx, w, resp)
	}
}

func consultLogsHandler(logs interfaces.ConsultLogRepository) http.HandlerFunc {
	type logResponse struct {
		ID           string    `json:"decision_id"`
		Question     string    `json:"question"`
		Strategy     string    `json:"strategy"`
		AgentCount   int       `json:"agent_count"`
		SourceCount  int       `json:"source_count"`
		WarningCount int       `json:"warning_count"`
		DurationMS   int64     `json:"duration_ms"`
		CreatedAt    time.Time `json:"created_at"`
	}
	type response struct {
		Consults []logResponse `json:"consults"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit := queryInt(r, "limit", defaultListLimit)

		entries, err := logs.List(ctx, limit)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to list consult logs"), http.StatusInternalServerError)
			return
		}

		resp := response{Consults: make([]logResponse, 0, len(entries))}
		for _, entry := range entries {
			resp.Consults = append(resp.Consults, logResponse{
				ID:           string(entry.ID),
				Question:     entry.Question,
				Strategy:     entry.Strategy.String(),
				AgentCount:   entry.AgentCount,
				SourceCount:  entry.SourceCount,
				WarningCount: entry.WarningCount,
				DurationMS:   entry.Duration.Milliseconds(),
				CreatedAt:    entry.CreatedAt,
			})
		}
		writeJSON(ctx, w, resp)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	if key == "limit" && v > maxListLimit {
		return maxListLimit
	}
	return v
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}
