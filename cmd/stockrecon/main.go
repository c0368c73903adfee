package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vsinha/stockrecon/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: stockrecon <analyze|serve> [flags]")
		os.Exit(2)
	}

	var cmd command
	switch os.Args[1] {
	case "analyze":
		cmd = analyzeCommand(os.Args[2:])
	case "serve":
		cmd = serveCommand(os.Args[2:])
	case "-help", "--help", "-h", "help":
		cmd = commands.NewAnalyzeCommand(commands.Config{Help: true})
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func analyzeCommand(args []string) command {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var (
		scenarioDir   = fs.String("scenario", "", "Directory with inventory.csv, punch*.csv and laser*.csv")
		inventoryFile = fs.String("inventory", "", "Path to inventory ledger CSV file")
		punchFiles    = fs.String("punch", "", "Comma-separated Punch work order CSV files")
		laserFiles    = fs.String("laser", "", "Comma-separated Laser work order CSV files")
		project       = fs.String("project", "", "Project recorded in the run history")
		model         = fs.String("model", "", "Model recorded in the run history")
		module        = fs.String("module", "", "Module recorded in the run history")
		outputDir     = fs.String("output", "", "Output directory for results (optional)")
		format        = fs.String("format", "text", "Output format: text, json, yaml, csv")
		configFile    = fs.String("config", os.Getenv("STOCKRECON_CONFIG"), "YAML configuration file (optional)")
		verbose       = fs.Bool("verbose", false, "Enable verbose output")
		help          = fs.Bool("help", false, "Show help message")
	)
	fs.Parse(args)

	return commands.NewAnalyzeCommand(commands.Config{
		ScenarioDir:   *scenarioDir,
		InventoryFile: *inventoryFile,
		PunchFiles:    splitList(*punchFiles),
		LaserFiles:    splitList(*laserFiles),
		OutputDir:     *outputDir,
		Format:        *format,
		ConfigFile:    *configFile,
		Project:       *project,
		Model:         *model,
		Module:        *module,
		Verbose:       *verbose,
		Help:          *help,
	})
}

func serveCommand(args []string) command {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		configFile = fs.String("config", os.Getenv("STOCKRECON_CONFIG"), "YAML configuration file (optional)")
		addr       = fs.String("addr", "", "Listen address, overrides server.http_addr")
	)
	fs.Parse(args)

	return commands.NewServeCommand(commands.ServeConfig{
		ConfigFile: *configFile,
		Addr:       *addr,
	})
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
