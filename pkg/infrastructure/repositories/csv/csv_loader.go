package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

// LedgerColumns names the inventory spreadsheet columns for the three ledger fields
type LedgerColumns struct {
	PartNumber    string
	InternalStock string
	ExternalStock string
}

// DefaultLedgerColumns matches the inventory export used on the shop floor
var DefaultLedgerColumns = LedgerColumns{
	PartNumber:    "partNumber",
	InternalStock: "stopaQuantity",
	ExternalStock: "externalQuantity",
}

// Loader handles loading ledger and work order tables from CSV files
type Loader struct {
	columns LedgerColumns
}

// NewLoader creates a new CSV loader
func NewLoader(columns LedgerColumns) *Loader {
	if columns.PartNumber == "" {
		columns.PartNumber = DefaultLedgerColumns.PartNumber
	}
	if columns.InternalStock == "" {
		columns.InternalStock = DefaultLedgerColumns.InternalStock
	}
	if columns.ExternalStock == "" {
		columns.ExternalStock = DefaultLedgerColumns.ExternalStock
	}
	return &Loader{columns: columns}
}

// LoadLedger loads raw ledger rows from a CSV file
func (l *Loader) LoadLedger(filename string) ([]entities.LedgerRow, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadLedger(file)
}

// ReadLedger reads raw ledger rows from CSV data. Stock cells are left as text;
// the ledger store coerces them.
func (l *Loader) ReadLedger(r io.Reader) ([]entities.LedgerRow, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger CSV: %w", err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("ledger CSV must have a header row")
	}

	header := records[0]
	partIdx := columnIndex(header, l.columns.PartNumber)
	internalIdx := columnIndex(header, l.columns.InternalStock)
	externalIdx := columnIndex(header, l.columns.ExternalStock)
	if partIdx < 0 || internalIdx < 0 || externalIdx < 0 {
		return nil, fmt.Errorf("ledger CSV header mismatch. Expected columns: %s, %s, %s, Got: %v",
			l.columns.PartNumber, l.columns.InternalStock, l.columns.ExternalStock, header)
	}

	rows := make([]entities.LedgerRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, entities.LedgerRow{
			PartNumber:    cell(record, partIdx),
			InternalStock: cell(record, internalIdx),
			ExternalStock: cell(record, externalIdx),
		})
	}

	return rows, nil
}

// LoadTable loads a work order table (a CSV export of the PDF table) from a file
func (l *Loader) LoadTable(filename string) (*entities.RawTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadTable(file)
}

// ReadTable reads a header row and data rows from CSV data
func (l *Loader) ReadTable(r io.Reader) (*entities.RawTable, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table CSV: %w", err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("table CSV must have a header row")
	}

	return &entities.RawTable{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}

// Helper functions for parsing CSV records

func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func columnIndex(header []string, name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) == want {
			return i
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
