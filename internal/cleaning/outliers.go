package cleaning

import (
	"math"

	"github.com/go-gota/gota/series"

	"cleansheet/internal/table"
)

// Winsorize clips every numeric column independently: values below the lower
// quantile are raised to it, values above the (1-upper) quantile are lowered
// to it. Non-numeric columns and missing cells are untouched. The operation is
// idempotent at fixed limits. Returns the new table and clipped-cell counts
// per column.
func Winsorize(t *table.Table, lower, upper float64) (*table.Table, map[string]int, error) {
	df := t.DataFrame()
	clipped := make(map[string]int)

	for _, name := range t.NumericColumns() {
		values := df.Col(name).Float()
		lo := table.Quantile(values, lower)
		hi := table.Quantile(values, 1-upper)
		if math.IsNaN(lo) || math.IsNaN(hi) {
			continue
		}

		count := 0
		out := make([]float64, len(values))
		for i, v := range values {
			switch {
			case math.IsNaN(v):
				out[i] = v
			case v < lo:
				out[i] = lo
				count++
			case v > hi:
				out[i] = hi
				count++
			default:
				out[i] = v
			}
		}

		if count > 0 {
			df = df.Mutate(series.New(out, series.Float, name))
			if df.Err != nil {
				return nil, nil, df.Err
			}
		}
		clipped[name] = count
	}

	out, err := table.FromDataFrame(df)
	if err != nil {
		return nil, nil, err
	}
	return out, clipped, nil
}

// RemoveOutliersIQR drops every row where ANY numeric column value falls
// outside [Q1 - k*IQR, Q3 + k*IQR], with the quartiles computed per column on
// the rows present at the start of the pass. Missing cells never flag a row.
// Returns the new table and the number of rows removed.
func RemoveOutliersIQR(t *table.Table, k float64) (*table.Table, int, error) {
	df := t.DataFrame()
	nrow := df.Nrow()
	outlier := make([]bool, nrow)

	for _, name := range t.NumericColumns() {
		values := df.Col(name).Float()
		q1 := table.Quantile(values, 0.25)
		q3 := table.Quantile(values, 0.75)
		if math.IsNaN(q1) || math.IsNaN(q3) {
			continue
		}
		iqr := q3 - q1
		lo := q1 - k*iqr
		hi := q3 + k*iqr

		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if v < lo || v > hi {
				outlier[i] = true
			}
		}
	}

	keep := make([]int, 0, nrow)
	for i, flagged := range outlier {
		if !flagged {
			keep = append(keep, i)
		}
	}
	if len(keep) == nrow {
		return t, 0, nil
	}

	sub := df.Subset(keep)
	out, err := table.FromDataFrame(sub)
	if err != nil {
		return nil, 0, err
	}
	return out, nrow - len(keep), nil
}
