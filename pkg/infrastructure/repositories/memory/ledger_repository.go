package memory

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/domain/repositories"
)

// LedgerRepository provides in-memory ledger storage.
// It is not safe for concurrent use; callers serialize access per session.
type LedgerRepository struct {
	entries     []*entities.LedgerEntry
	entriesMap  map[entities.PartNumber]int
	initialized bool
}

// NewLedgerRepository creates a new, uninitialized in-memory ledger
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		entriesMap: make(map[entities.PartNumber]int),
	}
}

// Verify interface compliance
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// Initialize loads rows into the ledger unless one already exists
func (r *LedgerRepository) Initialize(rows []entities.LedgerRow) ([]entities.LedgerEntry, bool) {
	if r.initialized {
		return r.Entries(), false
	}

	r.entries = make([]*entities.LedgerEntry, 0, len(rows))
	r.entriesMap = make(map[entities.PartNumber]int, len(rows))

	for _, row := range rows {
		pn := entities.NormalizePartNumber(row.PartNumber)
		if pn == "" {
			continue
		}
		r.addEntry(&entities.LedgerEntry{
			PartNumber:    pn,
			InternalStock: CoerceStock(row.InternalStock),
			ExternalStock: CoerceStock(row.ExternalStock),
		})
	}

	r.initialized = true
	return r.Entries(), true
}

// addEntry appends an entry; only the first entry for a part number is indexed
func (r *LedgerRepository) addEntry(entry *entities.LedgerEntry) {
	if _, exists := r.entriesMap[entry.PartNumber]; !exists {
		r.entriesMap[entry.PartNumber] = len(r.entries)
	}
	r.entries = append(r.entries, entry)
}

// HasLedger reports whether the ledger has been initialized
func (r *LedgerRepository) HasLedger() bool {
	return r.initialized
}

// Lookup returns the live ledger entry for a part number
func (r *LedgerRepository) Lookup(partNumber entities.PartNumber) (*entities.LedgerEntry, bool) {
	if !r.initialized {
		return nil, false
	}
	index, exists := r.entriesMap[partNumber]
	if !exists {
		return nil, false
	}
	return r.entries[index], true
}

// Entries returns a copy of every entry in ingestion order
func (r *LedgerRepository) Entries() []entities.LedgerEntry {
	snapshot := make([]entities.LedgerEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		snapshot = append(snapshot, *entry)
	}
	return snapshot
}

// Reset destroys the ledger
func (r *LedgerRepository) Reset() {
	r.entries = nil
	r.entriesMap = make(map[entities.PartNumber]int)
	r.initialized = false
}

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// CoerceStock converts a raw stock cell into a non-negative quantity.
// Blank, unparseable and negative values become zero; fractions truncate toward zero.
// Values beyond the int64 range saturate at math.MaxInt64.
func CoerceStock(raw string) entities.Quantity {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	if d.GreaterThan(maxQuantity) {
		return math.MaxInt64
	}
	return entities.Quantity(d.IntPart())
}
