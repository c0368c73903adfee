package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vsinha/stockrecon/pkg/application/dto"
	"github.com/vsinha/stockrecon/pkg/application/services/session"
	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/interfaces/cli/output"
)

// Config holds configuration for the analyze command
type Config struct {
	ScenarioDir   string
	InventoryFile string
	PunchFiles    []string
	LaserFiles    []string
	OutputDir     string
	Format        string
	ConfigFile    string
	Project       string
	Model         string
	Module        string
	Verbose       bool
	Help          bool
	Out           io.Writer
}

// AnalyzeCommand runs one or more work order pairs against an inventory ledger
// within a single session, so later pairs see the stock drawn by earlier ones.
type AnalyzeCommand struct {
	config Config
}

// NewAnalyzeCommand creates a new analyze command with the given configuration
func NewAnalyzeCommand(config Config) *AnalyzeCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &AnalyzeCommand{
		config: config,
	}
}

// workOrderPair is one analysis run's input files. Either side may be empty.
type workOrderPair struct {
	Punch string
	Laser string
}

// Execute runs the analyze command
func (c *AnalyzeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	inventory, pairs, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	rt, err := loadRuntime(c.config.ConfigFile)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if c.config.Verbose {
		c.printHeader(inventory, pairs)
	}

	ledgerRows, err := rt.loader.LoadLedger(inventory)
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "✅ Inventory loaded: %d rows\n\n", len(ledgerRows))
	}

	s := session.New("cli", session.Options{
		Codes:  &rt.codes,
		Logger: rt.logger,
	})

	metadata := entities.RunMetadata{
		Project: c.config.Project,
		Model:   c.config.Model,
		Module:  c.config.Module,
	}
	ledger := &session.LedgerIngest{Rows: ledgerRows, Source: filepath.Base(inventory)}

	startTime := time.Now()
	for i, pair := range pairs {
		in := session.TableInput{
			Sources:  entities.SourceRefs{Punch: baseName(pair.Punch), Laser: baseName(pair.Laser)},
			Metadata: metadata,
		}
		if i == 0 {
			in.Ledger = ledger
		}
		if in.Punch, err = c.loadTable(rt, pair.Punch); err != nil {
			return err
		}
		if in.Laser, err = c.loadTable(rt, pair.Laser); err != nil {
			return err
		}

		results := s.RunTables(ctx, in)
		if c.config.Verbose {
			stats := entities.NewSummaryStats(results)
			fmt.Fprintf(c.config.Out, "🔄 Run %d: %d items (A=%d C=%d M=%d S=%d BO=%d None=%d)\n",
				i+1, stats.Total, stats.CountA, stats.CountC, stats.CountM, stats.CountS, stats.CountBO, stats.CountUnclassified)
		}
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "✅ Analysis completed in %v\n\n", time.Since(startTime))
	}

	report := dto.NewReport(s.ID(), s.LastResults(), s.History())
	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Out:       c.config.Out,
	}
	if err := output.Generate(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

func (c *AnalyzeCommand) loadTable(rt *runtime, path string) (*entities.RawTable, error) {
	if path == "" {
		return nil, nil
	}
	table, err := rt.loader.LoadTable(path)
	if err != nil {
		return nil, fmt.Errorf("error loading work order: %w", err)
	}
	return table, nil
}

// validateInputs validates the command configuration
func (c *AnalyzeCommand) validateInputs() error {
	if c.config.ScenarioDir == "" && c.config.InventoryFile == "" {
		return fmt.Errorf("must specify either -scenario directory or -inventory file")
	}
	if c.config.ScenarioDir == "" && len(c.config.PunchFiles) == 0 && len(c.config.LaserFiles) == 0 {
		return fmt.Errorf("must specify at least one -punch or -laser file")
	}
	return nil
}

// resolveInputFiles determines the inventory file and the work order pairs.
// A scenario directory holds inventory.csv plus punch*.csv and laser*.csv,
// paired in file name order.
func (c *AnalyzeCommand) resolveInputFiles() (string, []workOrderPair, error) {
	inventory := c.config.InventoryFile
	punch := c.config.PunchFiles
	laser := c.config.LaserFiles

	if c.config.ScenarioDir != "" {
		inventory = filepath.Join(c.config.ScenarioDir, "inventory.csv")

		var err error
		if punch, err = filepath.Glob(filepath.Join(c.config.ScenarioDir, "punch*.csv")); err != nil {
			return "", nil, err
		}
		if laser, err = filepath.Glob(filepath.Join(c.config.ScenarioDir, "laser*.csv")); err != nil {
			return "", nil, err
		}
		sort.Strings(punch)
		sort.Strings(laser)
		if len(punch) == 0 && len(laser) == 0 {
			return "", nil, fmt.Errorf("no punch*.csv or laser*.csv files in %s", c.config.ScenarioDir)
		}
	}

	files := append([]string{inventory}, punch...)
	files = append(files, laser...)
	for _, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %s", path)
		}
	}

	n := len(punch)
	if len(laser) > n {
		n = len(laser)
	}
	pairs := make([]workOrderPair, n)
	for i := range pairs {
		if i < len(punch) {
			pairs[i].Punch = punch[i]
		}
		if i < len(laser) {
			pairs[i].Laser = laser[i]
		}
	}

	return inventory, pairs, nil
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// printHeader prints the command header information
func (c *AnalyzeCommand) printHeader(inventory string, pairs []workOrderPair) {
	out := c.config.Out
	fmt.Fprintf(out, "🚀 Stock Reconciliation CLI\n")
	fmt.Fprintf(out, "Inventory: %s\n", inventory)
	for i, pair := range pairs {
		fmt.Fprintf(out, "Run %d:\n", i+1)
		fmt.Fprintf(out, "  Punch: %s\n", orNotAvailable(pair.Punch))
		fmt.Fprintf(out, "  Laser: %s\n", orNotAvailable(pair.Laser))
	}
	fmt.Fprintf(out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(out)
}

func orNotAvailable(path string) string {
	if path == "" {
		return session.NotAvailable
	}
	return path
}

// showHelp displays the help message
func (c *AnalyzeCommand) showHelp() {
	fmt.Fprintf(c.config.Out, `Stock Reconciliation CLI - classify Punch and Laser work orders against inventory

USAGE:
    stockrecon analyze -scenario <directory>
    stockrecon analyze -inventory <file> -punch <file>[,<file>...] -laser <file>[,<file>...]
    stockrecon serve [-config <file>] [-addr <host:port>]

ANALYZE OPTIONS:
    -scenario <dir>     Directory with inventory.csv, punch*.csv and laser*.csv
    -inventory <file>   Inventory ledger CSV
    -punch <files>      Comma-separated Punch work order CSVs, one per run
    -laser <files>      Comma-separated Laser work order CSVs, one per run
    -project <name>     Project recorded in the run history
    -model <name>       Model recorded in the run history
    -module <name>      Module recorded in the run history
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, yaml, csv (default: text)
    -config <file>      YAML configuration file (optional)
    -verbose            Enable verbose output
    -help               Show this help message

Runs execute in order within one session: stock drawn by a run is no longer
available to the runs after it.

CSV FILE FORMATS:

inventory.csv:
    partNumber,stopaQuantity,externalQuantity
    P-1001,12,0
    P-1002,0,2

punch.csv / laser.csv (table exported from the work order PDF):
    Part #,Description,Qté à Produire
    P-1001,Bracket,4

CLASSIFICATIONS:
    A     internal stock covers the request
    C     external stock covers the request
    M     manual handling (special part, or low external stock)
    S     special part
    BO    backorder
    None  part not found in inventory

ENVIRONMENT:
    STOCKRECON_LOG_LEVEL, STOCKRECON_RULES_SPECIAL_CODE, STOCKRECON_SERVER_HTTP_ADDR, ...
`)
}
