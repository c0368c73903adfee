package entities

// Classification is the outcome code assigned to a demand item
type Classification int

const (
	// Unclassified is the zero value: part not found, or the item could not be evaluated.
	Unclassified Classification = iota
	Automatic
	External
	Manual
	Special
	Backorder
)

// String method for Classification enum
func (c Classification) String() string {
	switch c {
	case Automatic:
		return "A"
	case External:
		return "C"
	case Manual:
		return "M"
	case Special:
		return "S"
	case Backorder:
		return "BO"
	default:
		return "None"
	}
}

// MarshalText renders the classification code in JSON, YAML and CSV output.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// AllocationResult is the auditable outcome of evaluating one demand item
type AllocationResult struct {
	Source                  Source         `json:"source" yaml:"source"`
	PartNumber              PartNumber     `json:"part_number" yaml:"part_number"`
	QuantityRequested       Quantity       `json:"quantity_requested" yaml:"quantity_requested"`
	FoundInLedger           bool           `json:"found_in_ledger" yaml:"found_in_ledger"`
	InternalStockAtDecision Quantity       `json:"internal_stock_at_decision" yaml:"internal_stock_at_decision"`
	ExternalStockAtDecision Quantity       `json:"external_stock_at_decision" yaml:"external_stock_at_decision"`
	Classification          Classification `json:"classification" yaml:"classification"`
	Reason                  string         `json:"reason" yaml:"reason"`
	Deficit                 *Quantity      `json:"deficit,omitempty" yaml:"deficit,omitempty"`
	RawAttributes           RawAttributes  `json:"raw_attributes,omitempty" yaml:"raw_attributes,omitempty"`
}

// NewAllocationResult seeds a result for an item before any ledger lookup.
func NewAllocationResult(item DemandItem) AllocationResult {
	return AllocationResult{
		Source:            item.Source,
		PartNumber:        item.PartNumber,
		QuantityRequested: item.QuantityRequested,
		RawAttributes:     item.RawAttributes,
	}
}
