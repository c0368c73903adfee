package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/stockrecon/pkg/application/services/allocation"
	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/infrastructure/config"
	"github.com/vsinha/stockrecon/pkg/infrastructure/logger"
	"github.com/vsinha/stockrecon/pkg/infrastructure/repositories/csv"
)

// runtime is the configuration-derived wiring shared by every command
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	codes  allocation.SpecialCodes
	loader *csv.Loader
}

func loadRuntime(configFile string) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &runtime{
		cfg:    cfg,
		logger: log,
		codes:  specialCodes(cfg.Rules),
		loader: csv.NewLoader(csv.LedgerColumns{
			PartNumber:    cfg.Ledger.PartNumberColumn,
			InternalStock: cfg.Ledger.InternalStockColumn,
			ExternalStock: cfg.Ledger.ExternalStockColumn,
		}),
	}, nil
}

// specialCodes falls back to the built-in codes for anything left unset
func specialCodes(rules config.RulesConfig) allocation.SpecialCodes {
	codes := allocation.DefaultSpecialCodes
	if pn := entities.NormalizePartNumber(rules.SpecialCode); pn != "" {
		codes.Special = pn
	}
	if len(rules.ManualCodes) > 0 {
		codes.Manual = make([]entities.PartNumber, 0, len(rules.ManualCodes))
		for _, raw := range rules.ManualCodes {
			if pn := entities.NormalizePartNumber(raw); pn != "" {
				codes.Manual = append(codes.Manual, pn)
			}
		}
	}
	return codes
}
