package entities

import "time"

// SummaryStats aggregates classification counts over one result set
type SummaryStats struct {
	Total             int `json:"total" yaml:"total"`
	CountA            int `json:"count_a" yaml:"count_a"`
	CountC            int `json:"count_c" yaml:"count_c"`
	CountM            int `json:"count_m" yaml:"count_m"`
	CountS            int `json:"count_s" yaml:"count_s"`
	CountBO           int `json:"count_bo" yaml:"count_bo"`
	CountUnclassified int `json:"count_unclassified" yaml:"count_unclassified"`
}

// NewSummaryStats counts classifications over results.
func NewSummaryStats(results []AllocationResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		switch r.Classification {
		case Automatic:
			stats.CountA++
		case External:
			stats.CountC++
		case Manual:
			stats.CountM++
		case Special:
			stats.CountS++
		case Backorder:
			stats.CountBO++
		default:
			stats.CountUnclassified++
		}
	}
	return stats
}

// RunMetadata is caller-supplied context for an analysis run
type RunMetadata struct {
	Project string            `json:"project" yaml:"project"`
	Model   string            `json:"model" yaml:"model"`
	Module  string            `json:"module" yaml:"module"`
	Extra   map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// SourceRefs names the work order files a run consumed
type SourceRefs struct {
	Punch string `json:"punch" yaml:"punch"`
	Laser string `json:"laser" yaml:"laser"`
}

// AnalysisRun is an immutable history record of one completed run
type AnalysisRun struct {
	SequenceID int          `json:"sequence_id" yaml:"sequence_id"`
	RunID      string       `json:"run_id" yaml:"run_id"`
	Timestamp  time.Time    `json:"timestamp" yaml:"timestamp"`
	Stats      SummaryStats `json:"stats" yaml:"stats"`
	Sources    SourceRefs   `json:"sources" yaml:"sources"`
	Metadata   RunMetadata  `json:"metadata" yaml:"metadata"`
}
