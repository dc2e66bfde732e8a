// cleaner is the batch counterpart of the web UI: it runs the cleaning
// pipeline over a CSV file and writes the result to the exports directory.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cleansheet/internal/cleaning"
	"cleansheet/internal/config"
	"cleansheet/internal/exporter"
	"cleansheet/internal/infrastructure"
	"cleansheet/internal/table"
	"cleansheet/internal/validation"
)

func main() {
	in := flag.String("in", "", "input CSV file (required)")
	out := flag.String("out", "cleaned_data.csv", "output filename, written to the exports directory")
	format := flag.String("format", "csv", "output format: csv | xlsx")
	dropMissing := flag.Bool("drop-missing", false, "drop rows with missing values")
	columns := flag.String("columns", "", "comma-separated columns to check for missing values (default: all)")
	outliers := flag.String("outliers", "", "outlier treatment: winsorize | remove (empty disables)")
	summary := flag.Bool("summary", false, "print descriptive statistics before and after cleaning")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{}
		cfg.Upload.MaxRows = 1 << 22
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logger = slog.Default()
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		fatal(logger, "failed to resolve paths", err)
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(*in); err != nil {
		fatal(logger, "input validation failed", err)
	}

	policy, err := cleaning.ParsePolicy(*outliers)
	if err != nil {
		fatal(logger, "invalid outlier treatment", err)
	}

	file, err := os.Open(*in)
	if err != nil {
		fatal(logger, "failed to open input", err)
	}
	tbl, err := table.Load(file, table.LoadOptions{MaxRows: cfg.Upload.MaxRows})
	file.Close()
	if err != nil {
		fatal(logger, "failed to parse CSV", err)
	}

	logger.Info("loaded table",
		slog.String("file", *in),
		slog.Int("rows", tbl.Nrow()),
		slog.Int("cols", tbl.Ncol()))
	if *summary {
		printSummary(tbl)
	}

	var targetColumns []string
	if *columns != "" {
		for _, c := range strings.Split(*columns, ",") {
			targetColumns = append(targetColumns, strings.TrimSpace(c))
		}
	} else {
		targetColumns = tbl.Names()
	}

	cleaned, report, err := cleaning.Clean(tbl, cleaning.Options{
		DropMissing:    *dropMissing,
		Columns:        targetColumns,
		HandleOutliers: policy != cleaning.PolicyNone,
		Policy:         policy,
	})
	if err != nil {
		fatal(logger, "cleaning failed", err)
	}

	logger.Info("cleaning complete",
		slog.Int("rows_before", report.RowsBefore),
		slog.Int("rows_after", report.RowsAfter),
		slog.Int("missing_dropped", report.MissingDropped),
		slog.Int("outliers_dropped", report.OutliersDropped))
	if *summary {
		printSummary(cleaned)
	}

	exportFormat := validation.FormatCSV
	if *format == string(validation.FormatExcel) {
		exportFormat = validation.FormatExcel
	} else if *format != string(validation.FormatCSV) {
		fatal(logger, "invalid format", fmt.Errorf("unknown format %q", *format))
	}

	filename, err := validator.SanitizeExportFilename(*out, exportFormat)
	if err != nil {
		fatal(logger, "invalid output filename", err)
	}

	var path string
	switch exportFormat {
	case validation.FormatExcel:
		path, err = exporter.NewExcelWriter(paths, logger).WriteTable(filename, cleaned.Records())
	default:
		path, err = exporter.NewCSVWriter(paths, logger).WriteTable(filename, cleaned.Records())
	}
	if err != nil {
		fatal(logger, "export failed", err)
	}

	fmt.Printf("Cleaned %d -> %d rows, written to %s\n", report.RowsBefore, report.RowsAfter, path)
}

func printSummary(t *table.Table) {
	fmt.Printf("%-20s %8s %12s %12s %12s %12s\n", "column", "count", "mean", "std", "min", "max")
	for _, s := range t.Summary() {
		fmt.Printf("%-20s %8d %12.4f %12.4f %12.4f %12.4f\n", s.Name, s.Count, s.Mean, s.Std, s.Min, s.Max)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.String("error", err.Error()))
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
