// Package exporter writes the combined fund dataset to report files.
//
// Three outputs are produced from a pipeline result:
//
// WorkbookWriter: combined_fund_report.xlsx with a Combined sheet (one row per
// record, including the derived net_return_usd) and one sheet per grouped
// view.
//
// CSVWriter: combined_fund_report.csv, UTF-8 with an optional BOM for Excel.
//
// Summary: summary.json with per-file outcomes, counts and grouped views.
//
// Absent AUM and net return values are written as empty cells, never zero.
//
// Example usage:
//
//	exp := exporter.New(cfg.Export, metrics, logger)
//	paths, err := exp.WriteAll(ctx, result, "")
//	if errors.Is(err, exporter.ErrNoData) {
//		// nothing was extracted
//	}
package exporter
