package events

import (
	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

const (
	LedgerInitializedEvent = "ledger.initialized"
	LedgerReusedEvent      = "ledger.reused"
	ItemClassifiedEvent    = "item.classified"
	RunCompletedEvent      = "run.completed"
	RunAbortedEvent        = "run.aborted"
	SessionResetEvent      = "session.reset"
)

type LedgerInitialized struct {
	Entries int    `json:"entries"`
	Source  string `json:"source"`
}

type LedgerReused struct {
	Entries         int    `json:"entries"`
	DiscardedRows   int    `json:"discarded_rows"`
	DiscardedSource string `json:"discarded_source"`
}

type ItemClassified struct {
	RunID  string                    `json:"run_id"`
	Index  int                       `json:"index"`
	Result entities.AllocationResult `json:"result"`
}

type RunCompleted struct {
	Run entities.AnalysisRun `json:"run"`
}

type RunAborted struct {
	RunID  string `json:"run_id"`
	Reason string `json:"reason"`
}

type SessionReset struct {
	DiscardedRuns int `json:"discarded_runs"`
}
