// Package pipeline runs one extraction batch.
//
// A run takes a list of documents (uploaded PDFs, workbooks and CSV files, or
// tables already fetched from Google Sheets), routes each one by kind, and
// merges every successful record set into a single CombinedDataset:
//
//	PDF       -> text layer -> line parser   -> []FundRecord (+ line errors)
//	XLSX/CSV  -> RawTable   -> normalizer    -> []FundRecord
//	Sheets    -> RawTable   -> normalizer    -> []FundRecord
//
// Documents are processed by a bounded worker group. A failing document is
// recorded in its FileReport and never aborts the batch; the combined dataset
// keeps input order regardless of the worker count.
//
// Example usage:
//
//	p := pipeline.New(pipeline.OptionsFromConfig(cfg.Pipeline), logger,
//		pipeline.WithMetrics(metrics))
//	result, err := p.Run(ctx, docs)
//	if !result.HasData() {
//		// nothing to export yet
//	}
package pipeline
