package allocation

import (
	"fmt"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

// Pool names the ledger stock pool a rule draws from
type Pool int

const (
	NoPool Pool = iota
	InternalPool
	ExternalPool
)

// String method for Pool enum
func (p Pool) String() string {
	switch p {
	case InternalPool:
		return "internal"
	case ExternalPool:
		return "external"
	default:
		return "none"
	}
}

// SpecialCodes are part numbers that bypass stock evaluation
type SpecialCodes struct {
	Special entities.PartNumber
	Manual  []entities.PartNumber
}

// DefaultSpecialCodes are the shop's standing exceptions
var DefaultSpecialCodes = SpecialCodes{
	Special: "10034",
	Manual:  []entities.PartNumber{"10089", "10093", "10098", "10016"},
}

// Facts is what a rule may inspect: the item and the matched entry's stock at decision time
type Facts struct {
	PartNumber entities.PartNumber
	Requested  entities.Quantity
	Internal   entities.Quantity
	External   entities.Quantity
}

// Rule is one guard+action step of the decision chain
type Rule struct {
	Name           string
	Classification entities.Classification
	Pool           Pool
	Applies        func(f Facts) bool
	Reason         func(f Facts) string
}

// DefaultRules builds the ordered decision chain. Order is significant:
// special codes short-circuit before any stock arithmetic, and the stock rules
// overlap at internal == 0, where ordering disambiguates them.
func DefaultRules(codes SpecialCodes) []Rule {
	manual := make(map[entities.PartNumber]struct{}, len(codes.Manual))
	for _, pn := range codes.Manual {
		manual[pn] = struct{}{}
	}

	return []Rule{
		{
			Name:           "special-part",
			Classification: entities.Special,
			Applies: func(f Facts) bool {
				return codes.Special != "" && f.PartNumber == codes.Special
			},
			Reason: func(f Facts) string { return fmt.Sprintf("special part %s", f.PartNumber) },
		},
		{
			Name:           "manual-part",
			Classification: entities.Manual,
			Applies: func(f Facts) bool {
				_, ok := manual[f.PartNumber]
				return ok
			},
			Reason: func(f Facts) string { return fmt.Sprintf("special part %s (manual)", f.PartNumber) },
		},
		{
			Name:           "no-stock",
			Classification: entities.Backorder,
			Applies: func(f Facts) bool {
				return f.Internal <= 0 && f.External <= 0
			},
			Reason: func(Facts) string { return "no stock available" },
		},
		{
			Name:           "low-external",
			Classification: entities.Manual,
			Pool:           ExternalPool,
			Applies: func(f Facts) bool {
				return f.Internal <= 0 && f.External >= 1 && f.External <= 2 && f.External >= f.Requested
			},
			Reason: func(f Facts) string { return fmt.Sprintf("low external stock (%d)", f.External) },
		},
		{
			Name:           "internal-covers",
			Classification: entities.Automatic,
			Pool:           InternalPool,
			Applies: func(f Facts) bool {
				return f.Internal > 0 && f.Internal >= f.Requested
			},
			Reason: func(Facts) string { return "internal stock sufficient" },
		},
		{
			Name:           "external-covers",
			Classification: entities.External,
			Pool:           ExternalPool,
			Applies: func(f Facts) bool {
				return f.Internal == 0 && f.External >= f.Requested
			},
			Reason: func(Facts) string { return "external stock sufficient" },
		},
		{
			Name:           "insufficient",
			Classification: entities.Backorder,
			Applies:        func(Facts) bool { return true },
			Reason:         func(Facts) string { return "insufficient stock" },
		},
	}
}

// Evaluate returns the first rule whose guard holds
func Evaluate(rules []Rule, f Facts) (Rule, bool) {
	for _, rule := range rules {
		if rule.Applies(f) {
			return rule, true
		}
	}
	return Rule{}, false
}
