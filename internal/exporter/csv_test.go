package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleansheet/internal/config"
	"cleansheet/internal/table"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	paths, err := config.ResolvePaths(config.PathsConfig{BaseDir: base})
	require.NoError(t, err)
	return paths
}

func TestCSVWriter_WriteTable(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, nil)

	records := [][]string{
		{"name", "age"},
		{"alice", "30"},
		{"bob", "41"},
	}

	path, err := writer.WriteTable("out.csv", records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ExportsDir, "out.csv"), path)
	assert.FileExists(t, path)
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, nil)

	csvIn := "name,age,score\nalice,30,91.5\nbob,,72\ncarol,25,\n"
	tbl, err := table.Load(strings.NewReader(csvIn), table.LoadOptions{})
	require.NoError(t, err)

	path, err := writer.WriteTable("out.csv", tbl.Records())
	require.NoError(t, err)

	// Re-reading the export must reproduce the same shape and null layout
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reread, err := table.Load(file, table.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, tbl.Names(), reread.Names())
	assert.Equal(t, tbl.Nrow(), reread.Nrow())
	assert.Equal(t, tbl.MissingCounts(), reread.MissingCounts())
	assert.Equal(t, tbl.Records(), reread.Records())
}

func TestCSVWriter_CreatesExportDir(t *testing.T) {
	base := t.TempDir()
	paths, err := config.ResolvePaths(config.PathsConfig{BaseDir: base})
	require.NoError(t, err)
	// Exports dir intentionally not created beforehand
	_, statErr := os.Stat(paths.ExportsDir)
	require.True(t, os.IsNotExist(statErr))

	writer := NewCSVWriter(paths, nil)
	_, err = writer.WriteTable("out.csv", [][]string{{"a"}, {"1"}})
	require.NoError(t, err)

	assert.DirExists(t, paths.ExportsDir)
}

func TestCSVWriter_Overwrites(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, nil)

	_, err := writer.WriteTable("out.csv", [][]string{{"a"}, {"1"}, {"2"}})
	require.NoError(t, err)
	path, err := writer.WriteTable("out.csv", [][]string{{"a"}, {"9"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n9\n", string(data))
}

func TestCSVWriter_BOMPrefix(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, nil)

	path, err := writer.Write("bom.csv", WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"1"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestCSVWriter_EmptyRecords(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, nil)

	_, err := writer.WriteTable("out.csv", nil)
	assert.Error(t, err)
}

func TestListExports(t *testing.T) {
	paths := testPaths(t)

	// Missing directory lists as empty
	infos, err := ListExports(paths)
	require.NoError(t, err)
	assert.Empty(t, infos)

	writer := NewCSVWriter(paths, nil)
	_, err = writer.WriteTable("one.csv", [][]string{{"a"}, {"1"}})
	require.NoError(t, err)
	_, err = writer.WriteTable("two.csv", [][]string{{"a"}, {"2"}})
	require.NoError(t, err)

	infos, err = ListExports(paths)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	names := []string{infos[0].Name, infos[1].Name}
	assert.Contains(t, names, "one.csv")
	assert.Contains(t, names, "two.csv")
}
