package memory

import (
	"fmt"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/domain/repositories"
)

// HistoryRepository provides in-memory analysis run storage
type HistoryRepository struct {
	runs []entities.AnalysisRun
}

// NewHistoryRepository creates a new in-memory history repository
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		runs: []entities.AnalysisRun{},
	}
}

// Verify interface compliance
var _ repositories.HistoryRepository = (*HistoryRepository)(nil)

// Append records a run. Sequence ids must be contiguous.
func (r *HistoryRepository) Append(run entities.AnalysisRun) error {
	if expected := len(r.runs) + 1; run.SequenceID != expected {
		return fmt.Errorf("history out of sequence: expected run %d, got %d", expected, run.SequenceID)
	}
	r.runs = append(r.runs, run)
	return nil
}

// GetAll returns a copy of every recorded run, oldest first
func (r *HistoryRepository) GetAll() ([]entities.AnalysisRun, error) {
	runs := make([]entities.AnalysisRun, len(r.runs))
	copy(runs, r.runs)
	return runs, nil
}

// Len returns the number of recorded runs
func (r *HistoryRepository) Len() int {
	return len(r.runs)
}

// Reset discards all history
func (r *HistoryRepository) Reset() {
	r.runs = []entities.AnalysisRun{}
}
