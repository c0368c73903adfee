package entities

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPartNumber     = errors.New("part number cannot be empty")
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
)

// LedgerRow is one raw ingested inventory row, before normalization.
type LedgerRow struct {
	PartNumber    string `json:"part_number" yaml:"part_number"`
	InternalStock string `json:"internal_stock" yaml:"internal_stock"`
	ExternalStock string `json:"external_stock" yaml:"external_stock"`
}

// LedgerEntry holds the two independent stock pools for one part number.
// Entries are mutated in place by allocation and live until the ledger is reset.
type LedgerEntry struct {
	PartNumber    PartNumber `json:"part_number" yaml:"part_number"`
	InternalStock Quantity   `json:"internal_stock" yaml:"internal_stock"`
	ExternalStock Quantity   `json:"external_stock" yaml:"external_stock"`
}

// NewLedgerEntry creates a validated LedgerEntry
func NewLedgerEntry(partNumber PartNumber, internal, external Quantity) (*LedgerEntry, error) {
	if partNumber == "" {
		return nil, ErrEmptyPartNumber
	}
	if internal < 0 {
		return nil, fmt.Errorf("internal stock cannot be negative, got %d", internal)
	}
	if external < 0 {
		return nil, fmt.Errorf("external stock cannot be negative, got %d", external)
	}

	return &LedgerEntry{
		PartNumber:    partNumber,
		InternalStock: internal,
		ExternalStock: external,
	}, nil
}

// TakeInternal decrements the internal pool. It refuses to go below zero.
func (e *LedgerEntry) TakeInternal(qty Quantity) error {
	if qty > e.InternalStock {
		return fmt.Errorf("part %s: cannot take %d from internal stock %d", e.PartNumber, qty, e.InternalStock)
	}
	e.InternalStock -= qty
	return nil
}

// TakeExternal decrements the external pool. It refuses to go below zero.
func (e *LedgerEntry) TakeExternal(qty Quantity) error {
	if qty > e.ExternalStock {
		return fmt.Errorf("part %s: cannot take %d from external stock %d", e.PartNumber, qty, e.ExternalStock)
	}
	e.ExternalStock -= qty
	return nil
}
