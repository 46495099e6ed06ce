package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentKind identifies how a document is decoded.
type DocumentKind string

const (
	DocumentKindPDF      DocumentKind = "pdf"
	DocumentKindWorkbook DocumentKind = "xlsx"
	DocumentKindCSV      DocumentKind = "csv"
	DocumentKindTable    DocumentKind = "table"
	DocumentKindUnknown  DocumentKind = "unknown"
)

// KindFromName detects the document kind from its file extension.
func KindFromName(name string) DocumentKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return DocumentKindPDF
	case ".xlsx":
		return DocumentKindWorkbook
	case ".csv":
		return DocumentKindCSV
	default:
		return DocumentKindUnknown
	}
}

// RawTable is a flat table with unknown column naming: an ordered header row
// and ordered data rows. Rows may be shorter than the header.
type RawTable struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// NewRawTable splits a decoded grid into header row and data rows. The first
// row is the header; an empty grid yields a table without headers.
func NewRawTable(name string, grid [][]string) *RawTable {
	t := &RawTable{Name: name}
	if len(grid) == 0 {
		return t
	}
	t.Headers = grid[0]
	t.Rows = grid[1:]
	return t
}

// Cell returns the cell at row/col, or "" when the row is short.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// FileStatus is the outcome of processing one document.
type FileStatus string

const (
	FileStatusOK      FileStatus = "ok"
	FileStatusFailed  FileStatus = "failed"
	FileStatusSkipped FileStatus = "skipped"
)

// FileReport records what happened to one document in a pipeline run.
type FileReport struct {
	Name       string        `json:"name"`
	Kind       DocumentKind  `json:"kind"`
	Status     FileStatus    `json:"status"`
	Records    int           `json:"records"`
	LineErrors []LineError   `json:"line_errors,omitempty"`
	Cause      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Err        error         `json:"-"`
}

// Failed reports whether the document was rejected as a whole.
func (r FileReport) Failed() bool {
	return r.Status == FileStatusFailed
}
