// Package session orchestrates analysis runs against one user's ledger.
//
// A Session owns a ledger, the results of its latest run and the history of
// every run since the last reset. It is not safe for concurrent use: the
// Registry serializes runs per session.
package session

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/stockrecon/pkg/application/services/allocation"
	"github.com/vsinha/stockrecon/pkg/application/services/extraction"
	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/domain/repositories"
	"github.com/vsinha/stockrecon/pkg/infrastructure/events"
	"github.com/vsinha/stockrecon/pkg/infrastructure/repositories/memory"
)

// NotAvailable stands in for a work order source that was not supplied
const NotAvailable = "N/A"

// LedgerIngest is a freshly ingested inventory spreadsheet
type LedgerIngest struct {
	Rows   []entities.LedgerRow
	Source string
}

// RunInput carries everything one analysis run consumes
type RunInput struct {
	Punch    []entities.DemandItem
	Laser    []entities.DemandItem
	Ledger   *LedgerIngest
	Sources  entities.SourceRefs
	Metadata entities.RunMetadata
}

// TableInput is RunInput before demand extraction
type TableInput struct {
	Punch    *entities.RawTable
	Laser    *entities.RawTable
	Ledger   *LedgerIngest
	Sources  entities.SourceRefs
	Metadata entities.RunMetadata
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Codes  *allocation.SpecialCodes
	Logger *zap.Logger
	Clock  Clock
	Events events.Store
	NewID  func() string
}

// Session is the analysis state of one user
type Session struct {
	id          string
	ledger      repositories.LedgerRepository
	history     repositories.HistoryRepository
	engine      *allocation.Engine
	extractor   *extraction.Extractor
	lastResults []entities.AllocationResult
	logger      *zap.Logger
	clock       Clock
	events      events.Store
	newID       func() string
}

// New creates an empty session backed by in-memory repositories
func New(id string, opts Options) *Session {
	return NewWithRepositories(id, memory.NewLedgerRepository(), memory.NewHistoryRepository(), opts)
}

// NewWithRepositories creates a session over the given repositories
func NewWithRepositories(id string, ledger repositories.LedgerRepository, history repositories.HistoryRepository, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id))

	codes := allocation.DefaultSpecialCodes
	if opts.Codes != nil {
		codes = *opts.Codes
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Session{
		id:        id,
		ledger:    ledger,
		history:   history,
		engine:    allocation.NewEngine(codes, logger),
		extractor: extraction.NewExtractor(logger),
		logger:    logger,
		clock:     clock,
		events:    opts.Events,
		newID:     newID,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// RunTables extracts demand items from raw work order tables, then runs
func (s *Session) RunTables(ctx context.Context, in TableInput) []entities.AllocationResult {
	return s.Run(ctx, RunInput{
		Punch:    s.extractor.Extract(in.Punch, entities.Punch),
		Laser:    s.extractor.Extract(in.Laser, entities.Laser),
		Ledger:   in.Ledger,
		Sources:  in.Sources,
		Metadata: in.Metadata,
	})
}

// Run evaluates all Punch items, then all Laser items, against the ledger.
// It never fails: without a ledger it logs and returns no results, and item
// faults only degrade the affected item.
func (s *Session) Run(ctx context.Context, in RunInput) []entities.AllocationResult {
	runID := s.newID()
	log := s.logger.With(zap.String("run_id", runID))

	if err := ctx.Err(); err != nil {
		log.Error("analysis run not started", zap.Error(err))
		s.publish(events.RunAbortedEvent, events.RunAborted{RunID: runID, Reason: err.Error()})
		return []entities.AllocationResult{}
	}

	if in.Ledger != nil {
		s.initializeLedger(log, in.Ledger)
	}

	if !s.ledger.HasLedger() {
		log.Error("no inventory ledger loaded, cannot analyze")
		s.publish(events.RunAbortedEvent, events.RunAborted{RunID: runID, Reason: "no ledger"})
		return []entities.AllocationResult{}
	}

	results := make([]entities.AllocationResult, 0, len(in.Punch)+len(in.Laser))
	results = s.allocate(runID, results, in.Punch, entities.Punch)
	results = s.allocate(runID, results, in.Laser, entities.Laser)

	stats := entities.NewSummaryStats(results)
	run := entities.AnalysisRun{
		SequenceID: s.history.Len() + 1,
		RunID:      runID,
		Timestamp:  s.clock.Now(),
		Stats:      stats,
		Sources:    sourceRefs(in.Sources),
		Metadata:   in.Metadata,
	}
	if err := s.history.Append(run); err != nil {
		log.Error("failed to record run history", zap.Error(err))
	}
	s.lastResults = results

	log.Info("analysis run completed",
		zap.Int("sequence", run.SequenceID),
		zap.Int("total", stats.Total),
		zap.Int("a", stats.CountA),
		zap.Int("c", stats.CountC),
		zap.Int("m", stats.CountM),
		zap.Int("s", stats.CountS),
		zap.Int("bo", stats.CountBO),
		zap.Int("unclassified", stats.CountUnclassified),
	)
	s.publish(events.RunCompletedEvent, events.RunCompleted{Run: run})

	return results
}

func (s *Session) allocate(runID string, results []entities.AllocationResult, items []entities.DemandItem, source entities.Source) []entities.AllocationResult {
	for _, item := range items {
		item.Source = source
		result := s.engine.ClassifyAndAllocate(item, s.ledger)
		s.publish(events.ItemClassifiedEvent, events.ItemClassified{RunID: runID, Index: len(results), Result: result})
		results = append(results, result)
	}
	return results
}

func (s *Session) initializeLedger(log *zap.Logger, ingest *LedgerIngest) {
	entries, created := s.ledger.Initialize(ingest.Rows)
	if created {
		log.Info("inventory ledger initialized", zap.Int("entries", len(entries)), zap.String("source", ingest.Source))
		s.publish(events.LedgerInitializedEvent, events.LedgerInitialized{Entries: len(entries), Source: ingest.Source})
		return
	}
	log.Info("using existing inventory ledger", zap.Int("entries", len(entries)), zap.Int("discarded_rows", len(ingest.Rows)))
	s.publish(events.LedgerReusedEvent, events.LedgerReused{
		Entries:         len(entries),
		DiscardedRows:   len(ingest.Rows),
		DiscardedSource: ingest.Source,
	})
}

// Reset wipes the ledger, the last results and the history
func (s *Session) Reset() {
	discarded := s.history.Len()
	s.ledger.Reset()
	s.history.Reset()
	s.lastResults = nil
	s.logger.Warn("session state reset", zap.Int("discarded_runs", discarded))
	s.publish(events.SessionResetEvent, events.SessionReset{DiscardedRuns: discarded})
}

// HasLedger reports whether a ledger has been ingested since the last reset
func (s *Session) HasLedger() bool {
	return s.ledger.HasLedger()
}

// Ledger returns a snapshot of the current ledger
func (s *Session) Ledger() []entities.LedgerEntry {
	return s.ledger.Entries()
}

// LastResults returns a copy of the latest run's results
func (s *Session) LastResults() []entities.AllocationResult {
	out := make([]entities.AllocationResult, len(s.lastResults))
	copy(out, s.lastResults)
	return out
}

// SummaryStats counts classifications over the latest run's results
func (s *Session) SummaryStats() entities.SummaryStats {
	return entities.NewSummaryStats(s.lastResults)
}

// History returns every run recorded since the last reset, oldest first
func (s *Session) History() []entities.AnalysisRun {
	runs, err := s.history.GetAll()
	if err != nil {
		s.logger.Error("failed to read run history", zap.Error(err))
		return []entities.AnalysisRun{}
	}
	return runs
}

func (s *Session) publish(eventType string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(s.id, events.New(eventType, s.id, data, s.clock.Now())); err != nil {
		s.logger.Warn("failed to append audit event", zap.String("event", eventType), zap.Error(err))
	}
}

func sourceRefs(refs entities.SourceRefs) entities.SourceRefs {
	if refs.Punch == "" {
		refs.Punch = NotAvailable
	}
	if refs.Laser == "" {
		refs.Laser = NotAvailable
	}
	return refs
}
