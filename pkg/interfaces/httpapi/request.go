package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vsinha/stockrecon/pkg/application/services/session"
	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/infrastructure/repositories/csv"
)

// runRequest is the body of POST /v1/sessions/{id}/runs.
// Each work order may be sent as a table or as CSV text; the ledger is only
// read when the session has none yet.
type runRequest struct {
	Punch     *entities.RawTable   `json:"punch"`
	PunchCSV  string               `json:"punch_csv"`
	Laser     *entities.RawTable   `json:"laser"`
	LaserCSV  string               `json:"laser_csv"`
	Ledger    *ledgerBody          `json:"ledger"`
	LedgerCSV string               `json:"ledger_csv"`
	Sources   entities.SourceRefs  `json:"sources"`
	Metadata  entities.RunMetadata `json:"metadata"`
}

type ledgerBody struct {
	Source string         `json:"source"`
	Rows   []ledgerRowDTO `json:"rows"`
}

type ledgerRowDTO struct {
	PartNumber    cellText `json:"part_number"`
	InternalStock cellText `json:"internal_stock"`
	ExternalStock cellText `json:"external_stock"`
}

// cellText accepts a JSON string, number or null as spreadsheet cell text
type cellText string

func (c *cellText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = cellText(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("cell must be a string or number: %w", err)
		}
		*c = cellText(n.String())
	}
	return nil
}

func (b runRequest) tableInput(loader *csv.Loader) (session.TableInput, error) {
	in := session.TableInput{Sources: b.Sources, Metadata: b.Metadata}

	var err error
	if in.Punch, err = pickTable(loader, b.Punch, b.PunchCSV); err != nil {
		return in, fmt.Errorf("punch: %w", err)
	}
	if in.Laser, err = pickTable(loader, b.Laser, b.LaserCSV); err != nil {
		return in, fmt.Errorf("laser: %w", err)
	}

	switch {
	case b.Ledger != nil:
		rows := make([]entities.LedgerRow, len(b.Ledger.Rows))
		for i, row := range b.Ledger.Rows {
			rows[i] = entities.LedgerRow{
				PartNumber:    string(row.PartNumber),
				InternalStock: string(row.InternalStock),
				ExternalStock: string(row.ExternalStock),
			}
		}
		in.Ledger = &session.LedgerIngest{Rows: rows, Source: b.Ledger.Source}
	case b.LedgerCSV != "":
		rows, err := loader.ReadLedger(strings.NewReader(b.LedgerCSV))
		if err != nil {
			return in, fmt.Errorf("ledger: %w", err)
		}
		in.Ledger = &session.LedgerIngest{Rows: rows, Source: "upload"}
	}

	return in, nil
}

func pickTable(loader *csv.Loader, table *entities.RawTable, text string) (*entities.RawTable, error) {
	if table != nil {
		return table, nil
	}
	if text == "" {
		return nil, nil
	}
	return loader.ReadTable(strings.NewReader(text))
}
