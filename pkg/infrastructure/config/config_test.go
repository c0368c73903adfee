package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected 10s shutdown timeout, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Rules.SpecialCode != "10034" {
		t.Errorf("Expected special code 10034, got %s", cfg.Rules.SpecialCode)
	}
	expectedManual := []string{"10089", "10093", "10098", "10016"}
	if !reflect.DeepEqual(cfg.Rules.ManualCodes, expectedManual) {
		t.Errorf("Expected manual codes %v, got %v", expectedManual, cfg.Rules.ManualCodes)
	}
	if cfg.Ledger.InternalStockColumn != "stopaQuantity" {
		t.Errorf("Expected stopaQuantity, got %s", cfg.Ledger.InternalStockColumn)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockrecon.yaml")
	content := `
server:
  http_addr: ":9090"
log:
  level: debug
  encoding: json
rules:
  special_code: "20001"
  manual_codes: ["20002", "20003"]
ledger:
  internal_stock_column: onHand
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPAddr != ":9090" || cfg.Log.Level != "debug" || cfg.Log.Encoding != "json" {
		t.Errorf("Unexpected server/log config %+v %+v", cfg.Server, cfg.Log)
	}
	if cfg.Rules.SpecialCode != "20001" || len(cfg.Rules.ManualCodes) != 2 {
		t.Errorf("Unexpected rules %+v", cfg.Rules)
	}
	if cfg.Ledger.InternalStockColumn != "onHand" || cfg.Ledger.PartNumberColumn != "partNumber" {
		t.Errorf("Expected file value merged over defaults, got %+v", cfg.Ledger)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STOCKRECON_SERVER_HTTP_ADDR", ":7070")
	t.Setenv("STOCKRECON_RULES_SPECIAL_CODE", "555")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPAddr != ":7070" {
		t.Errorf("Expected :7070 from environment, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Rules.SpecialCode != "555" {
		t.Errorf("Expected 555 from environment, got %s", cfg.Rules.SpecialCode)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}
