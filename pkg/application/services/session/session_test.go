package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/infrastructure/events"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func newTestSession(t *testing.T) *Session {
	t.Helper()
	n := 0
	return New("test", Options{
		Clock: fixedClock{at: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)},
		NewID: func() string {
			n++
			return fmt.Sprintf("run-%d", n)
		},
	})
}

func ledger(rows ...entities.LedgerRow) *LedgerIngest {
	return &LedgerIngest{Rows: rows, Source: "inventory.csv"}
}

func item(pn string, qty entities.Quantity) entities.DemandItem {
	return entities.DemandItem{PartNumber: entities.PartNumber(pn), QuantityRequested: qty}
}

func TestSession_RunWithoutLedger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := New("test", Options{Logger: zap.New(core)})

	results := s.Run(context.Background(), RunInput{Punch: []entities.DemandItem{item("P1", 1)}})

	if results == nil || len(results) != 0 {
		t.Fatalf("Expected empty non-nil results, got %v", results)
	}
	if s.HasLedger() {
		t.Error("Expected no ledger")
	}
	if len(s.History()) != 0 {
		t.Error("Expected aborted run to leave no history")
	}
	if logs.Len() != 1 {
		t.Errorf("Expected one error diagnostic, got %d", logs.Len())
	}
}

func TestSession_CarriesDecrementsAcrossRuns(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	first := s.Run(ctx, RunInput{
		Punch:  []entities.DemandItem{item("P1", 3)},
		Ledger: ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "5"}),
	})
	if first[0].Classification != entities.Automatic {
		t.Fatalf("Expected A on first run, got %s", first[0].Classification)
	}

	second := s.Run(ctx, RunInput{Punch: []entities.DemandItem{item("P1", 3)}})
	if second[0].Classification != entities.Backorder {
		t.Errorf("Expected BO on second run, got %s", second[0].Classification)
	}
	if second[0].InternalStockAtDecision != 2 {
		t.Errorf("Expected internal stock 2 at decision, got %d", second[0].InternalStockAtDecision)
	}

	entries := s.Ledger()
	if entries[0].InternalStock != 2 {
		t.Errorf("Expected internal stock to stay at 2, got %d", entries[0].InternalStock)
	}
}

func TestSession_SecondIngestIsDiscarded(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	s.Run(ctx, RunInput{
		Punch:  []entities.DemandItem{item("P1", 3)},
		Ledger: ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "5"}),
	})
	results := s.Run(ctx, RunInput{
		Punch:  []entities.DemandItem{item("P1", 1)},
		Ledger: ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "500"}),
	})

	if results[0].InternalStockAtDecision != 2 {
		t.Errorf("Expected existing ledger (2) to be kept, got %d", results[0].InternalStockAtDecision)
	}
}

func TestSession_ResetThenReingest(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	in := RunInput{
		Punch:  []entities.DemandItem{item("P1", 4)},
		Ledger: ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "5", ExternalStock: "1"}),
	}

	s.Run(ctx, in)
	s.Reset()

	if s.HasLedger() || len(s.LastResults()) != 0 || len(s.History()) != 0 {
		t.Fatal("Expected Reset to wipe ledger, results and history")
	}
	if s.SummaryStats() != (entities.SummaryStats{}) {
		t.Errorf("Expected zero stats after reset, got %+v", s.SummaryStats())
	}

	s.Run(ctx, RunInput{Ledger: in.Ledger})
	entries := s.Ledger()
	if len(entries) != 1 || entries[0].InternalStock != 5 || entries[0].ExternalStock != 1 {
		t.Errorf("Expected ledger restored to ingested values, got %+v", entries)
	}
	if history := s.History(); len(history) != 1 || history[0].SequenceID != 1 {
		t.Errorf("Expected history to restart at sequence 1, got %+v", history)
	}
}

func TestSession_PunchBeforeLaser(t *testing.T) {
	s := newTestSession(t)

	laser := item("P1", 4)
	laser.Source = entities.Laser
	punch := item("P1", 3)

	results := s.Run(context.Background(), RunInput{
		Laser:  []entities.DemandItem{laser},
		Punch:  []entities.DemandItem{punch},
		Ledger: ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "5", ExternalStock: "10"}),
	})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Source != entities.Punch || results[1].Source != entities.Laser {
		t.Fatalf("Expected Punch then Laser, got %s then %s", results[0].Source, results[1].Source)
	}
	if results[0].Classification != entities.Automatic {
		t.Errorf("Expected Punch item A, got %s", results[0].Classification)
	}
	if results[1].InternalStockAtDecision != 2 {
		t.Errorf("Expected Laser item to see internal stock 2, got %d", results[1].InternalStockAtDecision)
	}
	if results[1].Classification != entities.Backorder {
		t.Errorf("Expected Laser item BO (internal 2 < 4, internal not zero), got %s", results[1].Classification)
	}
}

func TestSession_ItemsKeepInputOrder(t *testing.T) {
	s := newTestSession(t)

	results := s.Run(context.Background(), RunInput{
		Punch: []entities.DemandItem{item("A", 1), item("B", 1), item("MISSING", 1), item("C", 1)},
		Ledger: ledger(
			entities.LedgerRow{PartNumber: "A", InternalStock: "1"},
			entities.LedgerRow{PartNumber: "B", InternalStock: "1"},
			entities.LedgerRow{PartNumber: "C", InternalStock: "1"},
		),
	})

	expected := []entities.PartNumber{"A", "B", "MISSING", "C"}
	for i, pn := range expected {
		if results[i].PartNumber != pn {
			t.Errorf("Result %d: expected %s, got %s", i, pn, results[i].PartNumber)
		}
	}
	if results[2].Classification != entities.Unclassified {
		t.Error("Expected missing part to be unclassified without aborting the run")
	}
}

func TestSession_HistoryRecord(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	meta := entities.RunMetadata{Project: "PRJ-7", Model: "M2", Module: "Frame"}

	s.Run(ctx, RunInput{
		Punch:    []entities.DemandItem{item("P1", 1), item("10034", 2)},
		Ledger:   ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "1"}, entities.LedgerRow{PartNumber: "10034"}),
		Sources:  entities.SourceRefs{Punch: "punch_0602.pdf"},
		Metadata: meta,
	})
	s.Run(ctx, RunInput{Laser: []entities.DemandItem{item("P1", 1)}})

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history records, got %d", len(history))
	}

	first := history[0]
	if first.SequenceID != 1 || first.RunID != "run-1" {
		t.Errorf("Unexpected identity %d/%s", first.SequenceID, first.RunID)
	}
	if first.Sources.Punch != "punch_0602.pdf" || first.Sources.Laser != NotAvailable {
		t.Errorf("Unexpected sources %+v", first.Sources)
	}
	if first.Metadata.Project != meta.Project || first.Metadata.Module != meta.Module {
		t.Errorf("Expected metadata to be recorded, got %+v", first.Metadata)
	}
	expectedStats := entities.SummaryStats{Total: 2, CountA: 1, CountS: 1}
	if first.Stats != expectedStats {
		t.Errorf("Expected stats %+v, got %+v", expectedStats, first.Stats)
	}

	if history[1].SequenceID != 2 || history[1].Stats.CountBO != 1 {
		t.Errorf("Unexpected second record %+v", history[1])
	}
	if s.SummaryStats().Total != 1 {
		t.Errorf("Expected summary stats to reflect only the latest run, got %+v", s.SummaryStats())
	}
	if len(s.LastResults()) != 1 {
		t.Errorf("Expected last results to be replaced by the latest run")
	}
}

func TestSession_CancelledContext(t *testing.T) {
	s := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := s.Run(ctx, RunInput{
		Punch:  []entities.DemandItem{item("P1", 1)},
		Ledger: ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "1"}),
	})
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
	if s.HasLedger() {
		t.Error("Expected a cancelled run to leave the ledger untouched")
	}
}

func TestSession_RunTables(t *testing.T) {
	s := newTestSession(t)

	results := s.RunTables(context.Background(), TableInput{
		Punch: &entities.RawTable{
			Headers: []string{"Part #", "Qté à Produire"},
			Rows:    [][]string{{"P1", "2.0"}, {"P2", "x"}},
		},
		Laser: &entities.RawTable{
			Headers: []string{"Part Number", "Qte a Produire"},
			Rows:    [][]string{{"P2", "2"}},
		},
		Ledger: ledger(
			entities.LedgerRow{PartNumber: "P1", InternalStock: "2"},
			entities.LedgerRow{PartNumber: "P2", ExternalStock: "2"},
		),
	})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Classification != entities.Automatic {
		t.Errorf("Expected Punch P1 A, got %s", results[0].Classification)
	}
	if results[1].Source != entities.Laser || results[1].Classification != entities.Manual {
		t.Errorf("Expected Laser P2 M, got %s %s", results[1].Source, results[1].Classification)
	}
}

func TestSession_PublishesAuditEvents(t *testing.T) {
	store := events.NewInMemoryStore(nil)
	s := New("audited", Options{Events: store})
	ctx := context.Background()

	s.Run(ctx, RunInput{})
	s.Run(ctx, RunInput{
		Punch:  []entities.DemandItem{item("P1", 1)},
		Ledger: ledger(entities.LedgerRow{PartNumber: "P1", InternalStock: "1"}),
	})
	s.Run(ctx, RunInput{Ledger: ledger()})
	s.Reset()

	stream, _ := store.Read("audited", 0)
	expected := []string{
		events.RunAbortedEvent,
		events.LedgerInitializedEvent,
		events.ItemClassifiedEvent,
		events.RunCompletedEvent,
		events.LedgerReusedEvent,
		events.RunCompletedEvent,
		events.SessionResetEvent,
	}
	if len(stream) != len(expected) {
		t.Fatalf("Expected %d events, got %d", len(expected), len(stream))
	}
	for i, eventType := range expected {
		if stream[i].Type() != eventType {
			t.Errorf("Event %d: expected %s, got %s", i, eventType, stream[i].Type())
		}
	}
}
