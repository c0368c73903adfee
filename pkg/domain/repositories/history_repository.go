package repositories

import "github.com/vsinha/stockrecon/pkg/domain/entities"

// HistoryRepository provides append-only storage for analysis run records
type HistoryRepository interface {
	Append(run entities.AnalysisRun) error
	GetAll() ([]entities.AnalysisRun, error)
	Len() int
	Reset()
}
