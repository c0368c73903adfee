package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/stockrecon/pkg/application/dto"
	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

func sampleReport() *dto.Report {
	deficit := entities.Quantity(-3)
	results := []entities.AllocationResult{
		{
			Source:                  entities.Punch,
			PartNumber:              "P1",
			QuantityRequested:       3,
			FoundInLedger:           true,
			InternalStockAtDecision: 5,
			Classification:          entities.Automatic,
			Reason:                  "internal stock sufficient",
			RawAttributes:           entities.RawAttributes{{Name: "Description", Value: "Plate, 2mm"}},
		},
		{
			Source:                  entities.Laser,
			PartNumber:              "P2",
			QuantityRequested:       3,
			FoundInLedger:           true,
			ExternalStockAtDecision: 1,
			Classification:          entities.Backorder,
			Reason:                  "insufficient stock",
			Deficit:                 &deficit,
		},
	}
	history := []entities.AnalysisRun{{
		SequenceID: 1,
		RunID:      "run-1",
		Timestamp:  time.Date(2025, 6, 2, 9, 15, 0, 0, time.UTC),
		Stats:      entities.NewSummaryStats(results),
		Sources:    entities.SourceRefs{Punch: "punch.csv", Laser: "N/A"},
		Metadata:   entities.RunMetadata{Project: "PRJ-1"},
	}}
	return dto.NewReport("s-1", results, history)
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleReport(), Config{Format: "text", Out: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Total Items: 2", "Backorder (BO): 1", "Punch", "Laser", "insufficient stock", "-3", "09:15:00", "PRJ-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected text output to contain %q", want)
		}
	}
}

func TestGenerate_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleReport(), Config{Format: "json", Out: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var decoded struct {
		SessionID string `json:"session_id"`
		Stats     struct {
			Total int `json:"total"`
		} `json:"stats"`
		Laser []struct {
			Classification string `json:"classification"`
			Deficit        *int64 `json:"deficit"`
		} `json:"laser"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if decoded.SessionID != "s-1" || decoded.Stats.Total != 2 {
		t.Errorf("Unexpected report header %+v", decoded)
	}
	if len(decoded.Laser) != 1 || decoded.Laser[0].Classification != "BO" || *decoded.Laser[0].Deficit != -3 {
		t.Errorf("Unexpected laser rows %+v", decoded.Laser)
	}
}

func TestGenerate_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleReport(), Config{Format: "yaml", Out: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if decoded["session_id"] != "s-1" {
		t.Errorf("Expected session_id s-1, got %v", decoded["session_id"])
	}
}

func TestGenerate_CSVToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleReport(), Config{Format: "csv", Out: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Source" || records[0][8] != "Description" {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[1][0] != "Punch" || records[1][8] != "Plate, 2mm" {
		t.Errorf("Unexpected first row %v", records[1])
	}
	if records[2][0] != "Laser" || records[2][7] != "-3" {
		t.Errorf("Unexpected second row %v", records[2])
	}
}

func TestGenerate_CSVToDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(sampleReport(), Config{Format: "csv", OutputDir: dir, Out: &bytes.Buffer{}}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, name := range []string{"punch_results.csv", "laser_results.csv", "history.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "history.csv"))
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if !strings.Contains(string(data), "punch.csv,N/A,PRJ-1") {
		t.Errorf("Expected history sources and project, got %s", data)
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	if err := Generate(sampleReport(), Config{Format: "xlsx"}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
