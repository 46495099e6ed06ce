package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "fundx/internal/errors"
	"fundx/pkg/contracts/domain"
)

// WorkbookReader decodes the first worksheet (or a named one) of an .xlsx
// workbook. Cell values are read unformatted so numbers keep full precision.
type WorkbookReader struct {
	sheet  string
	logger *slog.Logger
}

// NewWorkbookReader creates a workbook reader. An empty sheet selects the
// first worksheet.
func NewWorkbookReader(sheet string, logger *slog.Logger) *WorkbookReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookReader{
		sheet:  sheet,
		logger: logger.With(slog.String("component", "workbook_reader")),
	}
}

// ReadTable returns the selected worksheet as a RawTable. Leading empty rows
// are skipped; the first non-empty row is the header.
func (r *WorkbookReader) ReadTable(ctx context.Context, name string, data []byte) (*domain.RawTable, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apierrors.NewParsingError("failed to open workbook", err).WithContext("file", name)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]
	if r.sheet != "" {
		sheet = r.sheet
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apierrors.NewParsingError("failed to read worksheet", err).
			WithContext("file", name).
			WithContext("sheet", sheet)
	}

	for len(rows) > 0 && emptyRow(rows[0]) {
		rows = rows[1:]
	}

	r.logger.DebugContext(ctx, "decoded workbook",
		slog.String("file", name),
		slog.String("sheet_name", sheet),
		slog.Int("total_rows", len(rows)),
	)

	return domain.NewRawTable(name, rows), nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
