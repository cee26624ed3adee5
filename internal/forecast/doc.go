// Package forecast builds per-product daily sales histories with calendar
// features, fits a single multi-product regression model over them, and
// projects future daily sales per product starting from tomorrow.
//
// The Engine is the only stateful component of the pipeline: Train swaps
// in a new (model, encoding) pair atomically, Predict reads the current
// pair, and Snapshot/Restore hand the pair across the persistence
// boundary as an opaque unit.
package forecast
