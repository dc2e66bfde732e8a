// Package validation provides file and filename validation shared by the web
// server and the batch CLI.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator provides common file validation functions for all executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ExportFormat is the file format of an export target
type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "xlsx"
)

// SanitizeExportFilename validates a user-supplied export filename and returns
// it with the extension for the requested format appended when missing. The
// filename must be a bare name: path separators and traversal sequences are
// rejected so exports cannot escape the exports directory.
func (v *FileValidator) SanitizeExportFilename(filename string, format ExportFormat) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", fmt.Errorf("export filename is empty")
	}
	if strings.ContainsAny(name, `/\`) {
		v.logger.Warn("Rejected export filename with path separator",
			slog.String("filename", filename))
		return "", fmt.Errorf("export filename %q must not contain path separators", filename)
	}
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		v.logger.Warn("Rejected export filename with traversal sequence",
			slog.String("filename", filename))
		return "", fmt.Errorf("export filename %q must not contain traversal sequences", filename)
	}

	wantExt := "." + string(format)
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case wantExt:
		return name, nil
	case "":
		return name + wantExt, nil
	default:
		return "", fmt.Errorf("export filename %q has extension %s, expected %s", filename, ext, wantExt)
	}
}

// ValidateUploadFilename checks the filename of an uploaded file. Only the
// base name is considered; browsers may send full client-side paths.
func (v *FileValidator) ValidateUploadFilename(filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, `/`))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("upload filename is empty")
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext != ".csv" {
		v.logger.Warn("Rejected upload with unexpected extension",
			slog.String("filename", filename),
			slog.String("extension", ext))
		return "", fmt.Errorf("uploaded file %s is not a CSV file (extension: %s)", base, ext)
	}
	return base, nil
}

// ValidateInputFile checks that a CLI input file exists, is readable, and
// carries a .csv extension.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return fmt.Errorf("input file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		v.logger.Error("Input file is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a CSV file (extension: %s)", path, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
