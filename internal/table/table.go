package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "cleansheet/internal/errors"
)

// missingTokens are the raw CSV cell values treated as missing. They are
// normalized to the dataframe's NaN sentinel at load time so that both numeric
// and text columns share one notion of null.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"nil":  true,
}

// Table is the Working Table: a typed, named-column view over an uploaded CSV.
// Tables are treated as immutable; every transformation produces a new Table
// and the owning session swaps them wholesale.
type Table struct {
	df dataframe.DataFrame
}

// LoadOptions bounds CSV parsing
type LoadOptions struct {
	MaxRows int // 0 means unlimited
}

// Load parses a CSV stream into a Table. The first record is the header row.
// Missing-value tokens are normalized before type detection so columns with
// gaps still infer their numeric types.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse CSV", err)
	}
	if len(records) < 1 {
		return nil, apperrors.NewParsingError("CSV file is empty", nil)
	}
	if len(records) < 2 {
		return nil, apperrors.NewParsingError("CSV file has a header but no data rows", nil)
	}
	if opts.MaxRows > 0 && len(records)-1 > opts.MaxRows {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("CSV has %d rows, exceeding the limit of %d", len(records)-1, opts.MaxRows))
	}

	header := records[0]
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperrors.NewParsingError(fmt.Sprintf("header column %d is empty", i+1), nil)
		}
		if seen[name] {
			return nil, apperrors.NewParsingError(fmt.Sprintf("duplicate column name %q", name), nil)
		}
		seen[name] = true
		header[i] = name
	}

	for _, row := range records[1:] {
		for j, cell := range row {
			if missingTokens[strings.ToLower(strings.TrimSpace(cell))] {
				row[j] = "NaN"
			}
		}
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, apperrors.NewParsingError("failed to build table from CSV", df.Err)
	}

	return &Table{df: df}, nil
}

// FromDataFrame wraps an existing dataframe. Used by the cleaning pipeline to
// hand back transformed tables.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, apperrors.NewParsingError("invalid dataframe", df.Err)
	}
	return &Table{df: df}, nil
}

// DataFrame exposes the underlying dataframe for transformations
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}

// Nrow returns the number of data rows
func (t *Table) Nrow() int { return t.df.Nrow() }

// Ncol returns the number of columns
func (t *Table) Ncol() int { return t.df.Ncol() }

// Shape returns rows x columns
func (t *Table) Shape() (int, int) {
	return t.df.Nrow(), t.df.Ncol()
}

// Names returns the column names in order
func (t *Table) Names() []string { return t.df.Names() }

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the named column
func (t *Table) Column(name string) (series.Series, error) {
	if !t.HasColumn(name) {
		return series.Series{}, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
	}
	return t.df.Col(name), nil
}

// IsNumeric reports whether the named column holds int or float values
func (t *Table) IsNumeric(name string) bool {
	if !t.HasColumn(name) {
		return false
	}
	switch t.df.Col(name).Type() {
	case series.Int, series.Float:
		return true
	}
	return false
}

// NumericColumns returns the names of all int and float columns in order
func (t *Table) NumericColumns() []string {
	var cols []string
	for _, name := range t.df.Names() {
		if t.IsNumeric(name) {
			cols = append(cols, name)
		}
	}
	return cols
}

// ColumnFloats returns the named column converted to float64, with NaN for
// missing cells. Only valid for numeric columns.
func (t *Table) ColumnFloats(name string) ([]float64, error) {
	if !t.HasColumn(name) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
	}
	if !t.IsNumeric(name) {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("column %q is not numeric", name))
	}
	return t.df.Col(name).Float(), nil
}

// Records returns the table as CSV-shaped records: a header row followed by
// data rows, with missing cells rendered as empty strings. Float cells use
// the shortest exact representation, so a column that became float through a
// transformation still exports 96 as "96" rather than "96.000000".
func (t *Table) Records() [][]string {
	records := t.df.Records()
	for j, name := range t.df.Names() {
		col := t.df.Col(name)
		if col.Type() == series.Float {
			for i, v := range col.Float() {
				if math.IsNaN(v) {
					records[i+1][j] = ""
				} else {
					records[i+1][j] = strconv.FormatFloat(v, 'f', -1, 64)
				}
			}
			continue
		}
		for i := 1; i < len(records); i++ {
			if records[i][j] == "NaN" {
				records[i][j] = ""
			}
		}
	}
	return records
}

// Head returns up to n leading data rows (missing cells as empty strings)
func (t *Table) Head(n int) [][]string {
	return t.sliceRows(0, n)
}

// Tail returns up to n trailing data rows (missing cells as empty strings)
func (t *Table) Tail(n int) [][]string {
	start := t.df.Nrow() - n
	if start < 0 {
		start = 0
	}
	return t.sliceRows(start, n)
}

func (t *Table) sliceRows(start, n int) [][]string {
	records := t.Records()
	rows := records[1:]
	if start >= len(rows) {
		return [][]string{}
	}
	end := start + n
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// MemoryEstimate returns the approximate in-memory size of the table in bytes
func (t *Table) MemoryEstimate() int64 {
	var total int64
	for _, row := range t.df.Records() {
		for _, cell := range row {
			total += int64(len(cell)) + 16
		}
	}
	return total
}
