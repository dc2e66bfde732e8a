package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cleansheet/internal/config"
)

const excelSheet = "Sheet1"

// ExcelWriter writes cleaned tables as XLSX workbooks into the exports
// directory
type ExcelWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(paths *config.Paths, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{paths: paths, logger: logger.With(slog.String("component", "excel_writer"))}
}

// WriteTable writes header + rows (as produced by Table.Records) to
// exports/<filename> as a single-sheet workbook.
func (w *ExcelWriter) WriteTable(filename string, records [][]string) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records to export")
	}

	fullPath := w.paths.ExportPath(filename)

	w.logger.Info("writing Excel export",
		slog.String("filename", filename),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)-1))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", fmt.Errorf("failed to compute cell for row %d: %w", i, err)
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(excelSheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return fullPath, nil
}
