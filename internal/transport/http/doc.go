// Package http exposes the analysis pipeline over a REST surface: dataset
// upload and mapping confirmation, summary and ranking queries, forecast
// training and prediction, and CSV export of every output table.
package http
