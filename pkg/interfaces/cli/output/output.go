package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/stockrecon/pkg/application/dto"
	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Out       io.Writer
}

func (c Config) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate renders a session report in the specified format
func Generate(report *dto.Report, config Config) error {
	switch config.Format {
	case "text", "":
		return generateTextOutput(report, config)
	case "json":
		return generateEncodedOutput(report, config, "json", func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		})
	case "yaml":
		return generateEncodedOutput(report, config, "yaml", yaml.Marshal)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *dto.Report, config Config) error {
	w := config.writer()

	fmt.Fprintf(w, "📊 Stock Analysis Summary\n")
	fmt.Fprintf(w, "=========================\n\n")
	writeStats(w, report.Stats)

	writeResultsTable(w, "🔩 Punch", report.Punch)
	writeResultsTable(w, "🔦 Laser", report.Laser)

	if len(report.History) > 0 {
		fmt.Fprintf(w, "🕘 History:\n")
		fmt.Fprintf(w, "%-4s %-10s %-6s %-4s %-4s %-4s %-4s %-4s %-4s %-20s %-20s %-12s\n",
			"#", "Time", "Total", "A", "C", "M", "S", "BO", "None", "Punch", "Laser", "Project")
		fmt.Fprintf(w, "%-4s %-10s %-6s %-4s %-4s %-4s %-4s %-4s %-4s %-20s %-20s %-12s\n",
			"----", "----------", "------", "----", "----", "----", "----", "----", "----",
			"--------------------", "--------------------", "------------")

		for _, run := range report.History {
			fmt.Fprintf(w, "%-4d %-10s %-6d %-4d %-4d %-4d %-4d %-4d %-4d %-20s %-20s %-12s\n",
				run.SequenceID,
				run.Timestamp.Format("15:04:05"),
				run.Stats.Total,
				run.Stats.CountA,
				run.Stats.CountC,
				run.Stats.CountM,
				run.Stats.CountS,
				run.Stats.CountBO,
				run.Stats.CountUnclassified,
				run.Sources.Punch,
				run.Sources.Laser,
				run.Metadata.Project)
		}
		fmt.Fprintln(w)
	}

	if config.OutputDir != "" {
		return generateCSVOutput(report, config)
	}
	return nil
}

func writeStats(w io.Writer, stats entities.SummaryStats) {
	fmt.Fprintf(w, "Total Items: %d\n", stats.Total)
	fmt.Fprintf(w, "Automatic (A): %d\n", stats.CountA)
	fmt.Fprintf(w, "External (C): %d\n", stats.CountC)
	fmt.Fprintf(w, "Manual (M): %d\n", stats.CountM)
	fmt.Fprintf(w, "Special (S): %d\n", stats.CountS)
	fmt.Fprintf(w, "Backorder (BO): %d\n", stats.CountBO)
	fmt.Fprintf(w, "Unclassified: %d\n\n", stats.CountUnclassified)
}

func writeResultsTable(w io.Writer, title string, rows []dto.ExportRow) {
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", title)
	fmt.Fprintf(w, "%-15s %-8s %-6s %-10s %-10s %-8s %-30s\n",
		"Part Number", "Qty", "Class", "Internal", "External", "Deficit", "Reason")
	fmt.Fprintf(w, "%-15s %-8s %-6s %-10s %-10s %-8s %-30s\n",
		"---------------", "--------", "------", "----------", "----------", "--------",
		"------------------------------")

	for _, row := range rows {
		deficit := ""
		if row.Deficit != nil {
			deficit = fmt.Sprintf("%d", *row.Deficit)
		}
		fmt.Fprintf(w, "%-15s %-8d %-6s %-10d %-10d %-8s %-30s\n",
			row.PartNumber,
			row.QuantityToProduce,
			row.Classification,
			row.InternalStock,
			row.ExternalStock,
			deficit,
			row.Reason)
	}
	fmt.Fprintln(w)
}

// generateEncodedOutput writes the whole report as JSON or YAML
func generateEncodedOutput(report *dto.Report, config Config, ext string, marshal func(any) ([]byte, error)) error {
	data, err := marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", ext, err)
	}

	if config.OutputDir == "" {
		_, err := config.writer().Write(data)
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "stock_report."+ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", ext, err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 Report saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one table per source. Without an output directory
// both sources go to the writer as a single table, Punch rows first.
func generateCSVOutput(report *dto.Report, config Config) error {
	if config.OutputDir == "" {
		rows := append(append([]dto.ExportRow(nil), report.Punch...), report.Laser...)
		return WriteResultsCSV(config.writer(), rows)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	punchFile := filepath.Join(config.OutputDir, "punch_results.csv")
	if err := writeCSVFile(punchFile, func(w io.Writer) error { return WriteResultsCSV(w, report.Punch) }); err != nil {
		return fmt.Errorf("failed to write punch results CSV: %w", err)
	}

	laserFile := filepath.Join(config.OutputDir, "laser_results.csv")
	if err := writeCSVFile(laserFile, func(w io.Writer) error { return WriteResultsCSV(w, report.Laser) }); err != nil {
		return fmt.Errorf("failed to write laser results CSV: %w", err)
	}

	historyFile := filepath.Join(config.OutputDir, "history.csv")
	if err := writeCSVFile(historyFile, func(w io.Writer) error { return WriteHistoryCSV(w, report.History) }); err != nil {
		return fmt.Errorf("failed to write history CSV: %w", err)
	}

	if config.Verbose {
		out := config.writer()
		fmt.Fprintf(out, "💾 CSV results saved to:\n")
		fmt.Fprintf(out, "  Punch: %s\n", punchFile)
		fmt.Fprintf(out, "  Laser: %s\n", laserFile)
		fmt.Fprintf(out, "  History: %s\n", historyFile)
	}

	return nil
}

func writeCSVFile(filename string, write func(io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := write(file); err != nil {
		return err
	}
	return file.Close()
}

// WriteResultsCSV writes the export table of rows
func WriteResultsCSV(w io.Writer, rows []dto.ExportRow) error {
	table := dto.NewExportTable(rows)

	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// WriteHistoryCSV writes one line per recorded run
func WriteHistoryCSV(w io.Writer, runs []entities.AnalysisRun) error {
	writer := csv.NewWriter(w)
	header := []string{"ID", "Run", "Timestamp", "Total", "A", "C", "M", "S", "BO", "None",
		"Punch File", "Laser File", "Project", "Model", "Module"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, run := range runs {
		record := []string{
			fmt.Sprintf("%d", run.SequenceID),
			run.RunID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", run.Stats.Total),
			fmt.Sprintf("%d", run.Stats.CountA),
			fmt.Sprintf("%d", run.Stats.CountC),
			fmt.Sprintf("%d", run.Stats.CountM),
			fmt.Sprintf("%d", run.Stats.CountS),
			fmt.Sprintf("%d", run.Stats.CountBO),
			fmt.Sprintf("%d", run.Stats.CountUnclassified),
			run.Sources.Punch,
			run.Sources.Laser,
			run.Metadata.Project,
			run.Metadata.Model,
			run.Metadata.Module,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
