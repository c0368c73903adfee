package entities

// Attribute is one named cell of the source table row a demand item came from.
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// RawAttributes keeps the full source row in header order. The engine never reads it.
type RawAttributes []Attribute

// Get returns the value for a column name.
func (r RawAttributes) Get(name string) (string, bool) {
	for _, a := range r {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// DemandItem is one requested line of a Punch or Laser work order
type DemandItem struct {
	PartNumber        PartNumber
	QuantityRequested Quantity
	Source            Source
	RawAttributes     RawAttributes
}

// NewDemandItem creates a validated DemandItem with a normalized part number
func NewDemandItem(rawPart string, qty Quantity, source Source, attrs RawAttributes) (*DemandItem, error) {
	pn := NormalizePartNumber(rawPart)
	if pn == "" {
		return nil, ErrEmptyPartNumber
	}
	if qty <= 0 {
		return nil, ErrNonPositiveQuantity
	}

	return &DemandItem{
		PartNumber:        pn,
		QuantityRequested: qty,
		Source:            source,
		RawAttributes:     attrs,
	}, nil
}
