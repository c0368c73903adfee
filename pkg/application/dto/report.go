package dto

import (
	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

// Report is everything a session exposes after its latest run
type Report struct {
	SessionID string                 `json:"session_id" yaml:"session_id"`
	Stats     entities.SummaryStats  `json:"stats" yaml:"stats"`
	Punch     []ExportRow            `json:"punch" yaml:"punch"`
	Laser     []ExportRow            `json:"laser" yaml:"laser"`
	History   []entities.AnalysisRun `json:"history" yaml:"history"`
}

// NewReport groups a session's latest results by source
func NewReport(sessionID string, results []entities.AllocationResult, history []entities.AnalysisRun) *Report {
	punch, laser := SplitBySource(results)
	return &Report{
		SessionID: sessionID,
		Stats:     entities.NewSummaryStats(results),
		Punch:     NewExportRows(punch),
		Laser:     NewExportRows(laser),
		History:   history,
	}
}
