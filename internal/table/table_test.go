package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `name,age,score,active
alice,30,91.5,true
bob,,72.0,false
carol,25,,true
dave,41,88.25,true
`

func loadSample(t *testing.T) *Table {
	t.Helper()
	tbl, err := Load(strings.NewReader(sampleCSV), LoadOptions{})
	require.NoError(t, err)
	return tbl
}

func TestLoad_Shape(t *testing.T) {
	tbl := loadSample(t)

	rows, cols := tbl.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, []string{"name", "age", "score", "active"}, tbl.Names())
}

func TestLoad_TypeInference(t *testing.T) {
	tbl := loadSample(t)

	assert.False(t, tbl.IsNumeric("name"))
	assert.True(t, tbl.IsNumeric("age"))
	assert.True(t, tbl.IsNumeric("score"))
	assert.False(t, tbl.IsNumeric("active"))
	assert.Equal(t, []string{"age", "score"}, tbl.NumericColumns())
}

func TestLoad_MissingTokensNormalized(t *testing.T) {
	csv := "a,b\n1,x\nNA,y\nnull,z\n,w\nn/a,v\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)

	counts := tbl.MissingCounts()
	assert.Equal(t, 4, counts["a"])
	assert.Equal(t, 0, counts["b"])
	assert.Equal(t, 4, tbl.TotalMissing())
	// A column that is numeric apart from gaps still infers numeric
	assert.True(t, tbl.IsNumeric("a"))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty input", ""},
		{"header only", "a,b\n"},
		{"ragged rows", "a,b\n1,2\n3\n"},
		{"duplicate columns", "a,a\n1,2\n"},
		{"blank header cell", "a,\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.csv), LoadOptions{})
			assert.Error(t, err)
		})
	}
}

func TestLoad_MaxRows(t *testing.T) {
	csv := "a\n1\n2\n3\n"

	_, err := Load(strings.NewReader(csv), LoadOptions{MaxRows: 2})
	assert.Error(t, err)

	tbl, err := Load(strings.NewReader(csv), LoadOptions{MaxRows: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Nrow())
}

func TestOverview(t *testing.T) {
	tbl := loadSample(t)

	overview := tbl.Overview()
	require.Len(t, overview, 4)

	byName := make(map[string]ColumnInfo)
	for _, info := range overview {
		byName[info.Name] = info
	}
	assert.Equal(t, 4, byName["name"].NonNull)
	assert.Equal(t, 3, byName["age"].NonNull)
	assert.Equal(t, 1, byName["age"].Missing)
	assert.Equal(t, 3, byName["score"].NonNull)
}

func TestSummary(t *testing.T) {
	csv := "v\n1\n2\n3\n4\n5\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)

	summaries := tbl.Summary()
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "v", s.Name)
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.0, s.Min, 1e-9)
	assert.InDelta(t, 5.0, s.Max, 1e-9)
	assert.InDelta(t, 3.0, s.Median, 1e-9)
	// Sample standard deviation of 1..5
	assert.InDelta(t, 1.5811, s.Std, 1e-3)
}

func TestSummary_IgnoresMissing(t *testing.T) {
	tbl := loadSample(t)

	for _, s := range tbl.Summary() {
		if s.Name == "age" {
			assert.Equal(t, 3, s.Count)
			assert.InDelta(t, 32.0, s.Mean, 1e-9)
		}
	}
}

func TestHeadTail(t *testing.T) {
	csv := "v\n1\n2\n3\n4\n5\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)

	head := tbl.Head(2)
	require.Len(t, head, 2)
	assert.Equal(t, "1", head[0][0])
	assert.Equal(t, "2", head[1][0])

	tail := tbl.Tail(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "4", tail[0][0])
	assert.Equal(t, "5", tail[1][0])

	// Requests beyond the table size clamp to what exists
	assert.Len(t, tbl.Head(10), 5)
	assert.Len(t, tbl.Tail(10), 5)
}

func TestRecords_MissingAsEmpty(t *testing.T) {
	tbl := loadSample(t)

	records := tbl.Records()
	require.Len(t, records, 5)
	assert.Equal(t, []string{"name", "age", "score", "active"}, records[0])
	// bob's age was missing
	assert.Equal(t, "", records[2][1])
}

func TestRecords_FloatFormatting(t *testing.T) {
	csv := "v,w\n1.5,a\n2,b\n91.25,c\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)

	// Float cells export with the shortest exact representation, so an
	// integral value in a float column stays "2", not "2.000000"
	records := tbl.Records()
	assert.Equal(t, "1.5", records[1][0])
	assert.Equal(t, "2", records[2][0])
	assert.Equal(t, "91.25", records[3][0])
}

func TestQuantile(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}

	assert.InDelta(t, 25.0, Quantile(values, 0.25), 1e-9)
	assert.InDelta(t, 50.0, Quantile(values, 0.50), 1e-9)
	assert.InDelta(t, 95.0, Quantile(values, 0.95), 1e-9)
}

func TestColumnFloats(t *testing.T) {
	tbl := loadSample(t)

	_, err := tbl.ColumnFloats("name")
	assert.Error(t, err)

	_, err = tbl.ColumnFloats("nope")
	assert.Error(t, err)

	values, err := tbl.ColumnFloats("score")
	require.NoError(t, err)
	assert.Len(t, values, 4)
}
