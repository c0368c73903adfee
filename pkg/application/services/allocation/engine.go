// Package allocation classifies demand items against the stock ledger and
// draws down the matched ledger entry.
package allocation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/domain/repositories"
)

const reasonNotFound = "not found"

// Engine walks the decision chain for one demand item at a time
type Engine struct {
	rules  []Rule
	logger *zap.Logger
}

// NewEngine creates an engine with the default decision chain
func NewEngine(codes SpecialCodes, logger *zap.Logger) *Engine {
	return NewEngineWithRules(DefaultRules(codes), logger)
}

// NewEngineWithRules creates an engine over an explicit decision chain
func NewEngineWithRules(rules []Rule, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{rules: rules, logger: logger}
}

// Rules returns the decision chain in evaluation order
func (e *Engine) Rules() []Rule {
	return e.rules
}

// ClassifyAndAllocate evaluates one item and mutates at most the single matched
// ledger entry. A fault while evaluating the item degrades that item's result
// to zero stocks and no classification; it never propagates.
func (e *Engine) ClassifyAndAllocate(item entities.DemandItem, ledger repositories.LedgerRepository) (result entities.AllocationResult) {
	result = entities.NewAllocationResult(item)
	log := e.logger.With(
		zap.Stringer("source", item.Source),
		zap.String("part_number", string(item.PartNumber)),
		zap.Int64("quantity", int64(item.QuantityRequested)),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("item evaluation failed", zap.Any("panic", r))
			result = degraded(result, fmt.Sprintf("evaluation failed: %v", r))
		}
	}()

	entry, found := ledger.Lookup(item.PartNumber)
	if !found {
		log.Warn("part not found in ledger")
		result.Reason = reasonNotFound
		return result
	}

	result.FoundInLedger = true
	facts := Facts{
		PartNumber: item.PartNumber,
		Requested:  item.QuantityRequested,
		Internal:   entry.InternalStock,
		External:   entry.ExternalStock,
	}
	result.InternalStockAtDecision = facts.Internal
	result.ExternalStockAtDecision = facts.External

	rule, ok := Evaluate(e.rules, facts)
	if !ok {
		result.Reason = "no rule matched"
	} else {
		if err := draw(entry, rule.Pool, item.QuantityRequested); err != nil {
			log.Error("ledger draw failed", zap.String("rule", rule.Name), zap.Error(err))
			return degraded(result, err.Error())
		}
		result.Classification = rule.Classification
		result.Reason = rule.Reason(facts)
		log.Debug("item classified",
			zap.String("rule", rule.Name),
			zap.Stringer("classification", rule.Classification),
			zap.Stringer("pool", rule.Pool),
		)
	}

	result.Deficit = Deficit(result)
	return result
}

// Deficit is the shortfall of the internal pool alone against the request. It is
// reported for found items classified C, BO or None, and only when negative.
func Deficit(r entities.AllocationResult) *entities.Quantity {
	if !r.FoundInLedger {
		return nil
	}
	switch r.Classification {
	case entities.External, entities.Backorder, entities.Unclassified:
	default:
		return nil
	}
	balance := r.InternalStockAtDecision - r.QuantityRequested
	if balance >= 0 {
		return nil
	}
	return &balance
}

func draw(entry *entities.LedgerEntry, pool Pool, qty entities.Quantity) error {
	switch pool {
	case InternalPool:
		return entry.TakeInternal(qty)
	case ExternalPool:
		return entry.TakeExternal(qty)
	default:
		return nil
	}
}

func degraded(r entities.AllocationResult, reason string) entities.AllocationResult {
	r.InternalStockAtDecision = 0
	r.ExternalStockAtDecision = 0
	r.Classification = entities.Unclassified
	r.Deficit = nil
	r.Reason = reason
	return r
}
