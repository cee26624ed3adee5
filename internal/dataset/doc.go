// Package dataset defines the tabular data model shared by the whole
// pipeline: the raw uploaded table, the user-confirmed column mapping, and
// the canonical five-column sales table that all analytics operate on.
//
// It also provides the loaders that turn delimited text or Excel workbooks
// into a RawTable, plus the lenient date/number parsing used during
// normalization.
package dataset
