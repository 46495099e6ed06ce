// Package dataprocessing converts fund-performance documents into canonical
// fund records and combines them into one dataset.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. ColumnMatcher: resolves header aliases to the columns a table actually has
// 2. ParseText: recovers delimited table rows from text extracted from a PDF
// 3. Normalizer: projects a RawTable with arbitrary headers onto FundRecord
// 4. Aggregate: concatenates record sets and derives the grouped views
//
// # Usage
//
// Parsing PDF text:
//
//	records, lineErrs := dataprocessing.ParseText(text)
//	for _, le := range lineErrs {
//	    logger.Warn("skipped line", slog.Int("line", le.Line), slog.String("cause", le.Cause))
//	}
//
// Normalizing a spreadsheet:
//
//	records, err := dataprocessing.Normalize(table)
//	var schemaErr *dataprocessing.SchemaError
//	if errors.As(err, &schemaErr) {
//	    // required columns could not be located
//	}
//
// Combining sources:
//
//	dataset := dataprocessing.Aggregate(pdfRecords, sheetRecords)
//	preview := dataset.Tail(10)
//
// # Data Flow
//
//	PDF text   → ParseText ─┐
//	                        ├→ Aggregate → CombinedDataset
//	RawTable   → Normalize ─┘
//
// # Error Handling
//
// PDF rows fail individually and come back as LineErrors next to the records
// that did parse. Spreadsheets fail as a whole with a *SchemaError (required
// columns missing) or a *CellError (a cell that cannot be converted).
package dataprocessing
