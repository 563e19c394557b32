// Package table implements the merge core over row collections.
//
// Merge is a full outer join on a tuple of key fields. Both inputs are
// concatenated, stable-sorted by key, and adjacent rows with equal keys are
// folded: numeric fields are summed, other fields are overwritten by the
// later row, and fields a row does not carry are zero.
//
//	merged, stats, err := table.Merge(issues, stars, []string{"name", "date"})
//
// String keys are ordered with locale-aware collation (English by default,
// see WithLocale). Numeric keys compare numerically.
//
// SumGrouped totals metric fields per distinct value of one field, and
// Encode / Decode convert between rows and the compact Tabular form
// written to disk:
//
//	{"keys": ["name", "date", "issues"], "rows": [["Go", "2020Q1", 8]]}
//
// All functions are synchronous and return new values; inputs are never
// modified.
package table
