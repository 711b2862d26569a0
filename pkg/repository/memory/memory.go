// Package memory provides in-memory implementations of the repository and
// vector index contracts. Used by tests and local runs without external
// stores; the same repository test suite runs against every backend.
package memory

import (
	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	datasets    *datasetRepository
	consultLogs *consultLogRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		datasets:    newDatasetRepository(),
		consultLogs: newConsultLogRepository(),
	}
}

// SeedDatasets loads dataset rows, standing in for the ingestion pipeline
func (m *Memory) SeedDatasets(datasets ...*model.Dataset) {
	m.datasets.Seed(datasets...)
}

func (m *Memory) Datasets() interfaces.DatasetRepository {
	return m.datasets
}

func (m *Memory) ConsultLogs() interfaces.ConsultLogRepository {
	return m.consultLogs
}
