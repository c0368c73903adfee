package repositories

import "github.com/vsinha/stockrecon/pkg/domain/entities"

// LedgerRepository holds the mutable stock ledger of one session
type LedgerRepository interface {
	// Initialize builds the ledger from ingested rows on first use. When a ledger
	// already exists the rows are discarded and the existing entries are returned;
	// created reports which of the two happened.
	Initialize(rows []entities.LedgerRow) (entries []entities.LedgerEntry, created bool)
	HasLedger() bool
	// Lookup returns the live entry for a normalized part number. Callers may
	// mutate it; the first ingested row wins when part numbers repeat.
	Lookup(partNumber entities.PartNumber) (*entities.LedgerEntry, bool)
	Entries() []entities.LedgerEntry
	Reset()
}
