package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeExportFilename(t *testing.T) {
	v := NewFileValidator(nil)

	tests := []struct {
		name     string
		filename string
		format   ExportFormat
		want     string
		wantErr  bool
	}{
		{"plain csv", "out.csv", FormatCSV, "out.csv", false},
		{"extension appended", "out", FormatCSV, "out.csv", false},
		{"uppercase extension", "OUT.CSV", FormatCSV, "OUT.CSV", false},
		{"xlsx format", "report", FormatExcel, "report.xlsx", false},
		{"whitespace trimmed", "  out.csv  ", FormatCSV, "out.csv", false},
		{"empty", "", FormatCSV, "", true},
		{"blank", "   ", FormatCSV, "", true},
		{"forward slash", "a/b.csv", FormatCSV, "", true},
		{"backslash", `a\b.csv`, FormatCSV, "", true},
		{"traversal", "..", FormatCSV, "", true},
		{"hidden traversal", "..foo..csv", FormatCSV, "", true},
		{"wrong extension", "out.txt", FormatCSV, "", true},
		{"csv name for xlsx format", "out.csv", FormatExcel, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.SanitizeExportFilename(tt.filename, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateUploadFilename(t *testing.T) {
	v := NewFileValidator(nil)

	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{"plain", "data.csv", "data.csv", false},
		{"client path stripped", `C:\Users\me\data.csv`, "data.csv", false},
		{"unix path stripped", "/tmp/data.csv", "data.csv", false},
		{"not csv", "data.xlsx", "", true},
		{"no extension", "data", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateUploadFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateInputFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n1,2\n"), 0644))
	txtPath := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0644))

	assert.NoError(t, v.ValidateInputFile(csvPath))
	assert.Error(t, v.ValidateInputFile(filepath.Join(dir, "missing.csv")))
	assert.Error(t, v.ValidateInputFile(txtPath))
	assert.Error(t, v.ValidateInputFile(dir))
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "nested", "out")

	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	// Write test file must not linger
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
