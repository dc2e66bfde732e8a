// Package exporter writes cleaned Working Tables to disk as CSV or XLSX
// files inside the configured exports directory, which is created on demand.
// No overwrite protection or atomic-rename guarantees are provided.
package exporter
