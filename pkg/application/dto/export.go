package dto

import (
	"strconv"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

// PriorityColumns lead every export table, ahead of the raw work order columns
var PriorityColumns = []string{
	"Source",
	"Part #",
	"Qty to Produce",
	"Classification",
	"Reason",
	"Internal Stock",
	"External Stock",
	"Deficit",
}

// ExportRow is one allocation result flattened for reports
type ExportRow struct {
	Source            string                 `json:"source" yaml:"source"`
	PartNumber        string                 `json:"part_number" yaml:"part_number"`
	QuantityToProduce int64                  `json:"quantity_to_produce" yaml:"quantity_to_produce"`
	Classification    string                 `json:"classification" yaml:"classification"`
	Reason            string                 `json:"reason" yaml:"reason"`
	InternalStock     int64                  `json:"internal_stock" yaml:"internal_stock"`
	ExternalStock     int64                  `json:"external_stock" yaml:"external_stock"`
	Deficit           *int64                 `json:"deficit,omitempty" yaml:"deficit,omitempty"`
	Attributes        entities.RawAttributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// NewExportRow flattens a result. Stocks are the values seen at decision time.
func NewExportRow(r entities.AllocationResult) ExportRow {
	row := ExportRow{
		Source:            r.Source.String(),
		PartNumber:        string(r.PartNumber),
		QuantityToProduce: int64(r.QuantityRequested),
		Classification:    r.Classification.String(),
		Reason:            r.Reason,
		InternalStock:     int64(r.InternalStockAtDecision),
		ExternalStock:     int64(r.ExternalStockAtDecision),
		Attributes:        r.RawAttributes,
	}
	if r.Deficit != nil {
		d := int64(*r.Deficit)
		row.Deficit = &d
	}
	return row
}

// NewExportRows flattens results, keeping their order
func NewExportRows(results []entities.AllocationResult) []ExportRow {
	rows := make([]ExportRow, len(results))
	for i, r := range results {
		rows[i] = NewExportRow(r)
	}
	return rows
}

// ExportTable is a rectangular rendering of export rows
type ExportTable struct {
	Headers []string
	Rows    [][]string
}

// NewExportTable lays rows out as the priority columns followed by every raw
// attribute column, in order of first appearance. Missing cells are blank.
func NewExportTable(rows []ExportRow) ExportTable {
	headers := append([]string(nil), PriorityColumns...)
	index := make(map[string]int)
	for _, row := range rows {
		for _, attr := range row.Attributes {
			if _, ok := index[attr.Name]; ok {
				continue
			}
			index[attr.Name] = len(headers)
			headers = append(headers, attr.Name)
		}
	}

	table := ExportTable{Headers: headers, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		cells := make([]string, len(headers))
		cells[0] = row.Source
		cells[1] = row.PartNumber
		cells[2] = strconv.FormatInt(row.QuantityToProduce, 10)
		cells[3] = row.Classification
		cells[4] = row.Reason
		cells[5] = strconv.FormatInt(row.InternalStock, 10)
		cells[6] = strconv.FormatInt(row.ExternalStock, 10)
		if row.Deficit != nil {
			cells[7] = strconv.FormatInt(*row.Deficit, 10)
		}
		for _, attr := range row.Attributes {
			cells[index[attr.Name]] = attr.Value
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// SplitBySource separates a run's results into its Punch and Laser parts
func SplitBySource(results []entities.AllocationResult) (punch, laser []entities.AllocationResult) {
	for _, r := range results {
		switch r.Source {
		case entities.Punch:
			punch = append(punch, r)
		case entities.Laser:
			laser = append(laser, r)
		}
	}
	return punch, laser
}
