// Package table implements the Working Table: a typed, named-column dataset
// loaded from CSV and held in memory for the lifetime of a cleaning session.
//
// Missing-value tokens ("", NA, N/A, NaN, null, nil) are normalized at load
// time, column types are inferred (int, float, string, bool), and the package
// provides the overview, missing-count, and descriptive-statistics views the
// UI renders. Tables are treated as immutable: transformations in the cleaning
// package produce new Tables that the session swaps wholesale.
package table
