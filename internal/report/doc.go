// Package report renders a PredictionResult for downstream consumers: a
// flat JSON document, aggregate statistics, a plain-text report for
// clinicians and CSV rows for batch logs.
package report
