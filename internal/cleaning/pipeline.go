package cleaning

import (
	"fmt"
	"strings"

	apperrors "cleansheet/internal/errors"
	"cleansheet/internal/table"
)

// Fixed treatment parameters
const (
	// DefaultWinsorLimit clips 5% in each tail
	DefaultWinsorLimit = 0.05
	// DefaultIQRMultiplier is the classic 1.5*IQR fence
	DefaultIQRMultiplier = 1.5
)

// Policy selects the outlier treatment applied to numeric columns
type Policy string

const (
	PolicyNone      Policy = ""
	PolicyWinsorize Policy = "winsorize"
	PolicyRemove    Policy = "remove"
)

// ParsePolicy maps UI labels onto policies. The historical UI label
// "Remove outliers" and the short form "Remove" are both accepted; the
// original tool compared the label against "Remove" only, which made the
// removal branch unreachable.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "winsorize":
		return PolicyWinsorize, nil
	case "remove", "remove outliers":
		return PolicyRemove, nil
	case "":
		return PolicyNone, nil
	}
	return PolicyNone, apperrors.NewAppValidationError(fmt.Sprintf("unknown outlier method %q", s))
}

// Options configures one run of the cleaning pipeline
type Options struct {
	DropMissing    bool
	Columns        []string // target columns for the missing-value drop
	HandleOutliers bool
	Policy         Policy
	WinsorLower    float64 // 0 means DefaultWinsorLimit
	WinsorUpper    float64 // 0 means DefaultWinsorLimit
	IQRMultiplier  float64 // 0 means DefaultIQRMultiplier
}

// Report records what a pipeline run changed
type Report struct {
	RowsBefore      int            `json:"rows_before"`
	RowsAfter       int            `json:"rows_after"`
	MissingDropped  int            `json:"missing_dropped"`
	OutliersDropped int            `json:"outliers_dropped"`
	CellsClipped    map[string]int `json:"cells_clipped,omitempty"`
	Policy          Policy         `json:"policy,omitempty"`
}

// Clean runs the pipeline: optional missing-value drop over the selected
// columns, then the optional outlier treatment over all numeric columns.
// The input table is never modified; the returned table replaces it.
func Clean(t *table.Table, opts Options) (*table.Table, *Report, error) {
	report := &Report{RowsBefore: t.Nrow()}
	current := t

	if opts.DropMissing {
		next, dropped, err := DropMissing(current, opts.Columns)
		if err != nil {
			return nil, nil, err
		}
		current = next
		report.MissingDropped = dropped
	}

	if opts.HandleOutliers {
		switch opts.Policy {
		case PolicyWinsorize:
			lower, upper := opts.WinsorLower, opts.WinsorUpper
			if lower == 0 {
				lower = DefaultWinsorLimit
			}
			if upper == 0 {
				upper = DefaultWinsorLimit
			}
			next, clipped, err := Winsorize(current, lower, upper)
			if err != nil {
				return nil, nil, err
			}
			current = next
			report.CellsClipped = clipped
			report.Policy = PolicyWinsorize

		case PolicyRemove:
			k := opts.IQRMultiplier
			if k == 0 {
				k = DefaultIQRMultiplier
			}
			next, removed, err := RemoveOutliersIQR(current, k)
			if err != nil {
				return nil, nil, err
			}
			current = next
			report.OutliersDropped = removed
			report.Policy = PolicyRemove

		case PolicyNone:
			// handle_outliers set without a method; nothing to do

		default:
			return nil, nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown outlier policy %q", opts.Policy))
		}
	}

	report.RowsAfter = current.Nrow()
	return current, report, nil
}
