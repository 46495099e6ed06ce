package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"

	apierrors "fundx/internal/errors"
	"fundx/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader decodes comma-separated files with a header row. Rows may have
// any number of fields.
type CSVReader struct {
	comma  rune
	logger *slog.Logger
}

// NewCSVReader creates a CSV reader. A zero comma uses ','.
func NewCSVReader(comma rune, logger *slog.Logger) *CSVReader {
	if comma == 0 {
		comma = ','
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVReader{comma: comma, logger: logger.With(slog.String("component", "csv_reader"))}
}

// ReadTable decodes data into a RawTable, dropping a leading UTF-8 BOM.
func (r *CSVReader) ReadTable(ctx context.Context, name string, data []byte) (*domain.RawTable, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.Comma = r.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apierrors.NewParsingError("failed to read csv", err).WithContext("file", name)
	}

	r.logger.DebugContext(ctx, "decoded csv",
		slog.String("file", name),
		slog.Int("total_rows", len(rows)),
	)

	return domain.NewRawTable(name, rows), nil
}
