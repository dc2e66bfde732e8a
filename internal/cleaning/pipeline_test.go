package cleaning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleansheet/internal/table"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected Policy
		wantErr  bool
	}{
		{"Winsorize", PolicyWinsorize, false},
		{"winsorize", PolicyWinsorize, false},
		{"Remove", PolicyRemove, false},
		// The UI label; the original tool only matched "Remove", leaving
		// the removal branch unreachable
		{"Remove outliers", PolicyRemove, false},
		{"REMOVE OUTLIERS", PolicyRemove, false},
		{"", PolicyNone, false},
		{"drop", PolicyNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			policy, err := ParsePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
		})
	}
}

func TestClean_DropThenRemove(t *testing.T) {
	csv := "age,score\n30,10\n,20\n25,30\n40,40\n35,50\n28,60\n33,9000\n"
	tbl, err := table.Load(strings.NewReader(csv), table.LoadOptions{})
	require.NoError(t, err)

	cleaned, report, err := Clean(tbl, Options{
		DropMissing:    true,
		Columns:        []string{"age"},
		HandleOutliers: true,
		Policy:         PolicyRemove,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, report.RowsBefore)
	assert.Equal(t, 1, report.MissingDropped)
	assert.Equal(t, 1, report.OutliersDropped)
	assert.Equal(t, 5, report.RowsAfter)
	assert.Equal(t, 5, cleaned.Nrow())
	assert.Equal(t, PolicyRemove, report.Policy)
}

func TestClean_WinsorizeOnly(t *testing.T) {
	tbl := spikeTable(t)

	cleaned, report, err := Clean(tbl, Options{
		HandleOutliers: true,
		Policy:         PolicyWinsorize,
	})
	require.NoError(t, err)

	assert.Equal(t, 101, cleaned.Nrow())
	assert.Equal(t, report.RowsBefore, report.RowsAfter)
	assert.Positive(t, report.CellsClipped["v"])
}

func TestClean_NoOps(t *testing.T) {
	tbl := spikeTable(t)

	cleaned, report, err := Clean(tbl, Options{})
	require.NoError(t, err)

	assert.Same(t, tbl, cleaned)
	assert.Equal(t, report.RowsBefore, report.RowsAfter)
	assert.Zero(t, report.MissingDropped)
	assert.Zero(t, report.OutliersDropped)
}

func TestClean_UnknownPolicy(t *testing.T) {
	tbl := spikeTable(t)

	_, _, err := Clean(tbl, Options{HandleOutliers: true, Policy: Policy("bogus")})
	assert.Error(t, err)
}
