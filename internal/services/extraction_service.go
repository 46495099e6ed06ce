package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"fundx/internal/exporter"
	"fundx/internal/infrastructure"
	"fundx/internal/pipeline"
	"fundx/pkg/contracts/domain"
)

// ExtractRequest is one extraction batch
type ExtractRequest struct {
	Documents    []pipeline.Document
	Preview      int
	IncludeSheet bool
}

// Extraction is the outcome of a batch with its preview rows
type Extraction struct {
	*pipeline.Result
	Preview []domain.CombinedRecord
}

// ExtractionService runs extraction batches and exports their results
type ExtractionService struct {
	pipeline    *pipeline.Pipeline
	exporter    *exporter.Exporter
	sheet       *SheetSource
	previewRows int
	logger      *slog.Logger
}

// NewExtractionService creates an extraction service. sheet may be nil.
func NewExtractionService(p *pipeline.Pipeline, exp *exporter.Exporter, sheet *SheetSource, previewRows int, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &ExtractionService{
		pipeline:    p,
		exporter:    exp,
		sheet:       sheet,
		previewRows: previewRows,
		logger:      infrastructure.WithComponent(logger, "extraction_service"),
	}
}

// PreviewRows returns the default preview length
func (s *ExtractionService) PreviewRows() int {
	return s.previewRows
}

// FileName returns the attachment name used for format
func (s *ExtractionService) FileName(format exporter.Format) string {
	return s.exporter.FileName(format)
}

// SheetsEnabled reports whether a spreadsheet range is configured
func (s *ExtractionService) SheetsEnabled() bool {
	return s.sheet != nil
}

// Extract runs the pipeline over the request's documents and, when asked,
// the configured spreadsheet range. A negative preview uses the default.
func (s *ExtractionService) Extract(ctx context.Context, req ExtractRequest) (*Extraction, error) {
	docs := req.Documents
	if req.IncludeSheet {
		table, err := s.sheet.Fetch(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Spreadsheet source failed", slog.String("error", err.Error()))
			return nil, err
		}
		docs = append(append([]pipeline.Document(nil), docs...), pipeline.FromTable(table))
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	result, err := s.pipeline.Run(ctx, docs)
	if err != nil {
		return nil, err
	}

	preview := req.Preview
	if preview < 0 {
		preview = s.previewRows
	}

	if !result.HasData() {
		s.logger.WarnContext(ctx, "No data available yet",
			slog.String("batch_id", result.BatchID),
			slog.Int("documents", len(docs)))
	}

	return &Extraction{
		Result:  result,
		Preview: result.Dataset.Tail(preview),
	}, nil
}

// Export runs an extraction and writes the combined report in format to w.
// Returns exporter.ErrNoData when no document produced data.
func (s *ExtractionService) Export(ctx context.Context, req ExtractRequest, format exporter.Format, w io.Writer) (*Extraction, error) {
	extraction, err := s.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.exporter.Write(ctx, format, extraction.Result, w); err != nil {
		if !errors.Is(err, exporter.ErrNoData) {
			s.logger.ErrorContext(ctx, "Export failed",
				slog.String("format", string(format)),
				slog.String("error", err.Error()))
		}
		return extraction, err
	}
	return extraction, nil
}

// WriteReports writes every configured export of result into dir
func (s *ExtractionService) WriteReports(ctx context.Context, result *pipeline.Result, dir string) ([]string, error) {
	return s.exporter.WriteAll(ctx, result, dir)
}
