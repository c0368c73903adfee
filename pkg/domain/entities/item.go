package entities

import "strings"

// PartNumber represents a unique part identifier
type PartNumber string

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// NormalizePartNumber trims surrounding whitespace from a raw part number.
func NormalizePartNumber(raw string) PartNumber {
	return PartNumber(strings.TrimSpace(raw))
}

// Source identifies which work order a demand item came from
type Source int

const (
	Punch Source = iota
	Laser
)

// String method for Source enum
func (s Source) String() string {
	switch s {
	case Punch:
		return "Punch"
	case Laser:
		return "Laser"
	default:
		return "Unknown"
	}
}

// MarshalText renders the source by name in JSON, YAML and CSV output.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
