package cleaning

import (
	"fmt"

	apperrors "cleansheet/internal/errors"
	"cleansheet/internal/table"
)

// DropMissing returns a new table containing only the rows whose value is
// present in every one of the target columns. An empty selection is a no-op.
// The column set is never altered, only rows are removed.
func DropMissing(t *table.Table, columns []string) (*table.Table, int, error) {
	if len(columns) == 0 {
		return t, 0, nil
	}

	for _, name := range columns {
		if !t.HasColumn(name) {
			return nil, 0, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
		}
	}

	df := t.DataFrame()
	drop := make([]bool, df.Nrow())
	for _, name := range columns {
		for i, isNaN := range df.Col(name).IsNaN() {
			if isNaN {
				drop[i] = true
			}
		}
	}

	keep := make([]int, 0, df.Nrow())
	for i, d := range drop {
		if !d {
			keep = append(keep, i)
		}
	}
	if len(keep) == df.Nrow() {
		return t, 0, nil
	}

	sub := df.Subset(keep)
	out, err := table.FromDataFrame(sub)
	if err != nil {
		return nil, 0, err
	}
	return out, df.Nrow() - len(keep), nil
}
