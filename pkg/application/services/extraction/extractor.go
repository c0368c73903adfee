// Package extraction turns raw work order tables into demand items.
//
// The table itself comes from an external extractor (a PDF table reader, or a
// CSV export of one). This package only locates the part number and quantity
// columns by header text and keeps the rows that carry a usable positive
// quantity. Malformed tables yield no items; they never fail the caller.
package extraction

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

// Extractor converts raw tables into demand items
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an extractor. A nil logger discards diagnostics.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Columns holds the located column indexes of a work order table
type Columns struct {
	Part     int
	Quantity int
}

// FindColumns locates the part number and quantity-to-produce columns.
// When several headers match, the last one wins.
func FindColumns(headers []string) (Columns, bool) {
	cols := Columns{Part: -1, Quantity: -1}
	for i, h := range headers {
		if strings.Contains(h, "Part") {
			cols.Part = i
		}
		if (strings.Contains(h, "Qté") || strings.Contains(h, "Qte")) && strings.Contains(h, "Produire") {
			cols.Quantity = i
		}
	}
	return cols, cols.Part >= 0 && cols.Quantity >= 0
}

var (
	minQuantity = decimal.NewFromInt(1)
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
)

// ParseQuantity parses a quantity cell, tolerating decimal-formatted integers.
// Fractions truncate toward zero; non-positive results and values beyond the
// int64 range are rejected.
func ParseQuantity(raw string) (entities.Quantity, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.LessThan(minQuantity) || d.GreaterThan(maxQuantity) {
		return 0, false
	}
	return entities.Quantity(d.IntPart()), true
}

// Extract returns the demand items of a table in row order
func (e *Extractor) Extract(table *entities.RawTable, source entities.Source) []entities.DemandItem {
	if table == nil {
		return nil
	}

	log := e.logger.With(zap.Stringer("source", source))

	cols, ok := FindColumns(table.Headers)
	if !ok {
		log.Error("work order table is missing part or quantity column", zap.Strings("headers", table.Headers))
		return nil
	}

	items := make([]entities.DemandItem, 0, len(table.Rows))
	skipped := 0
	for i := range table.Rows {
		part := strings.TrimSpace(table.Cell(i, cols.Part))
		qtyCell := strings.TrimSpace(table.Cell(i, cols.Quantity))
		if part == "" || qtyCell == "" {
			continue
		}

		qty, ok := ParseQuantity(qtyCell)
		if !ok {
			skipped++
			continue
		}

		item, err := entities.NewDemandItem(part, qty, source, rawAttributes(table, i))
		if err != nil {
			skipped++
			continue
		}
		items = append(items, *item)
	}

	log.Info("extracted work order items",
		zap.Int("rows", len(table.Rows)),
		zap.Int("items", len(items)),
		zap.Int("unparseable", skipped),
	)
	return items
}

func rawAttributes(table *entities.RawTable, row int) entities.RawAttributes {
	attrs := make(entities.RawAttributes, 0, len(table.Headers))
	for j, h := range table.Headers {
		attrs = append(attrs, entities.Attribute{Name: h, Value: table.Cell(row, j)})
	}
	return attrs
}
