package session

import (
	"context"
	"testing"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
	testhelpers "github.com/vsinha/stockrecon/pkg/infrastructure/testing"
)

func TestSession_ShopFloorScenario(t *testing.T) {
	scenario := testhelpers.BuildShopFloorTestData()
	s := newTestSession(t)

	results := s.RunTables(context.Background(), TableInput{
		Punch:   scenario.Punch,
		Laser:   scenario.Laser,
		Ledger:  &LedgerIngest{Rows: scenario.Ledger, Source: "stock.xlsx"},
		Sources: entities.SourceRefs{Punch: "punch.pdf", Laser: "laser.pdf"},
	})

	expected := []struct {
		source         entities.Source
		partNumber     entities.PartNumber
		classification entities.Classification
		deficit        entities.Quantity
	}{
		{entities.Punch, "BRK-100", entities.Automatic, 0},
		{entities.Punch, "PNL-220", entities.External, -3},
		{entities.Punch, "GUS-310", entities.Manual, 0},
		{entities.Punch, "10034", entities.Special, 0},
		{entities.Punch, "NEW-999", entities.Unclassified, 0},
		{entities.Laser, "BRK-100", entities.Backorder, -2},
		{entities.Laser, "HNG-400", entities.Backorder, -2},
		{entities.Laser, "SPC-500", entities.Backorder, -2},
		{entities.Laser, "10089", entities.Manual, 0},
		{entities.Laser, "RIB-600", entities.Automatic, 0},
	}

	if len(results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(results))
	}
	for i, want := range expected {
		got := results[i]
		if got.Source != want.source || got.PartNumber != want.partNumber || got.Classification != want.classification {
			t.Errorf("Result %d: expected %s %s %s, got %s %s %s", i,
				want.source, want.partNumber, want.classification,
				got.Source, got.PartNumber, got.Classification)
		}
		switch {
		case want.deficit == 0 && got.Deficit != nil:
			t.Errorf("Result %d: expected no deficit, got %d", i, *got.Deficit)
		case want.deficit != 0 && (got.Deficit == nil || *got.Deficit != want.deficit):
			t.Errorf("Result %d: expected deficit %d, got %v", i, want.deficit, got.Deficit)
		}
	}

	expectedStats := entities.SummaryStats{Total: 10, CountA: 2, CountC: 1, CountM: 2, CountS: 1, CountBO: 3, CountUnclassified: 1}
	if stats := s.SummaryStats(); stats != expectedStats {
		t.Errorf("Expected stats %+v, got %+v", expectedStats, stats)
	}

	remaining := map[entities.PartNumber][2]entities.Quantity{}
	for _, e := range s.Ledger() {
		if _, seen := remaining[e.PartNumber]; !seen {
			remaining[e.PartNumber] = [2]entities.Quantity{e.InternalStock, e.ExternalStock}
		}
	}
	expectedLedger := map[entities.PartNumber][2]entities.Quantity{
		"BRK-100": {4, 0},
		"PNL-220": {0, 5},
		"GUS-310": {0, 0},
		"HNG-400": {1, 5},
		"SPC-500": {0, 0},
		"10034":   {0, 0},
		"10089":   {50, 50},
		"RIB-600": {0, 0},
	}
	for pn, want := range expectedLedger {
		if got := remaining[pn]; got != want {
			t.Errorf("%s: expected stock %v, got %v", pn, want, got)
		}
	}
	if entries := s.Ledger(); len(entries) != len(scenario.Ledger) {
		t.Errorf("Expected duplicate rows to be kept, got %d entries", len(entries))
	}
}

func TestSession_ShopFloorScenarioTwice(t *testing.T) {
	scenario := testhelpers.BuildShopFloorTestData()
	s := newTestSession(t)
	ctx := context.Background()

	s.RunTables(ctx, TableInput{Punch: scenario.Punch, Ledger: &LedgerIngest{Rows: scenario.Ledger}})
	results := s.Run(ctx, RunInput{Punch: []entities.DemandItem{
		testhelpers.MustCreateDemandItem("BRK-100", 4, entities.Punch),
		testhelpers.MustCreateDemandItem("BRK-100", 1, entities.Punch),
	}})

	if results[0].Classification != entities.Automatic || results[0].InternalStockAtDecision != 4 {
		t.Errorf("Expected A at internal 4, got %s at %d", results[0].Classification, results[0].InternalStockAtDecision)
	}
	if results[1].Classification != entities.Backorder || results[1].InternalStockAtDecision != 0 {
		t.Errorf("Expected BO at internal 0, got %s at %d", results[1].Classification, results[1].InternalStockAtDecision)
	}
	if results[1].Deficit == nil || *results[1].Deficit != -1 {
		t.Errorf("Expected deficit -1, got %v", results[1].Deficit)
	}
}
