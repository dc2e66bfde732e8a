package table

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnInfo describes one column for the data overview
type ColumnInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
}

// ColumnSummary holds descriptive statistics for one numeric column
type ColumnSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Overview returns per-column name, inferred type, and null counts
// (the "Data Overview" table).
func (t *Table) Overview() []ColumnInfo {
	infos := make([]ColumnInfo, 0, t.df.Ncol())
	for _, name := range t.df.Names() {
		col := t.df.Col(name)
		missing := 0
		for _, isNaN := range col.IsNaN() {
			if isNaN {
				missing++
			}
		}
		infos = append(infos, ColumnInfo{
			Name:    name,
			Type:    string(col.Type()),
			NonNull: col.Len() - missing,
			Missing: missing,
		})
	}
	return infos
}

// MissingCounts returns the number of missing cells per column, in column order
func (t *Table) MissingCounts() map[string]int {
	counts := make(map[string]int, t.df.Ncol())
	for _, info := range t.Overview() {
		counts[info.Name] = info.Missing
	}
	return counts
}

// TotalMissing returns the number of missing cells in the whole table
func (t *Table) TotalMissing() int {
	total := 0
	for _, info := range t.Overview() {
		total += info.Missing
	}
	return total
}

// Summary computes descriptive statistics for every numeric column
// (the describe() table: count, mean, std, min, quartiles, max).
func (t *Table) Summary() []ColumnSummary {
	summaries := make([]ColumnSummary, 0)
	for _, name := range t.NumericColumns() {
		values := dropNaN(t.df.Col(name).Float())
		s := ColumnSummary{Name: name, Count: len(values)}
		if len(values) > 0 {
			s.Mean = stat.Mean(values, nil)
			s.Min = floats.Min(values)
			s.Max = floats.Max(values)
			s.Q25 = Quantile(values, 0.25)
			s.Median = Quantile(values, 0.50)
			s.Q75 = Quantile(values, 0.75)
		}
		if len(values) > 1 {
			s.Std = stat.StdDev(values, nil)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// Quantile returns the empirical p-quantile of the given values, ignoring NaN.
// Returns NaN when no valid values remain.
func Quantile(values []float64, p float64) float64 {
	sorted := dropNaN(values)
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

func dropNaN(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}
