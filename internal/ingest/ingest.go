// Package ingest decodes uploaded documents into the inputs the
// dataprocessing package understands: plain text for PDFs and RawTables for
// workbooks, CSV files and Google Sheets ranges.
package ingest

import (
	"bytes"
	"context"
	"errors"

	"fundx/pkg/contracts/domain"
)

var (
	// ErrEmptyDocument is returned for zero-length input.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("workbook has no worksheets")
)

// TextExtractor extracts the text layer of a document.
type TextExtractor interface {
	ExtractText(ctx context.Context, name string, data []byte) (string, error)
}

// TableReader decodes a single flat table with a header row.
type TableReader interface {
	ReadTable(ctx context.Context, name string, data []byte) (*domain.RawTable, error)
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Sniff reports whether data starts with the signature expected for kind.
// Kinds without a signature always pass.
func Sniff(kind domain.DocumentKind, data []byte) bool {
	switch kind {
	case domain.DocumentKindPDF:
		return bytes.HasPrefix(data, pdfMagic)
	case domain.DocumentKindWorkbook:
		return bytes.HasPrefix(data, zipMagic)
	default:
		return true
	}
}
