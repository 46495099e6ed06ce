package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"fundx/internal/config"
	apierrors "fundx/internal/errors"
	"fundx/internal/files"
	"fundx/internal/infrastructure"
	"fundx/internal/pipeline"
)

// ErrNoData is returned when a run produced no dataset to export
var ErrNoData = errors.New("no data available yet")

// Exporter writes run results in the configured formats
type Exporter struct {
	cfg      config.ExportConfig
	csv      *CSVWriter
	workbook *WorkbookWriter
	files    *files.Manager
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an exporter. metrics may be nil.
func New(cfg config.ExportConfig, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if cfg.BaseName == "" {
		cfg.BaseName = config.DefaultReportBaseName
	}
	return &Exporter{
		cfg:      cfg,
		csv:      NewCSVWriter(cfg.CSVBOM),
		workbook: NewWorkbookWriter(),
		files:    files.NewManager(""),
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "exporter"),
		now:      time.Now,
	}
}

// Formats returns the configured export formats
func (e *Exporter) Formats() []Format {
	out := make([]Format, 0, len(e.cfg.Formats))
	for _, name := range e.cfg.Formats {
		if f, err := ParseFormat(name); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// FileName returns the file name used for format
func (e *Exporter) FileName(format Format) string {
	return format.FileName(e.cfg.BaseName)
}

// Write writes result in format to w
func (e *Exporter) Write(ctx context.Context, format Format, result *pipeline.Result, w io.Writer) error {
	if !result.HasData() {
		return ErrNoData
	}

	var err error
	switch format {
	case FormatXLSX:
		err = e.workbook.Write(w, result.Dataset)
	case FormatCSV:
		err = e.csv.Write(w, result.Dataset)
	case FormatJSON:
		err = WriteSummary(w, NewSummary(result, e.now()))
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}

	e.metrics.RecordExport(ctx, string(format))
	return nil
}

// WriteAll writes every configured format into dir, or the configured output
// directory when dir is empty, and returns the written paths.
func (e *Exporter) WriteAll(ctx context.Context, result *pipeline.Result, dir string) ([]string, error) {
	if !result.HasData() {
		e.logger.WarnContext(ctx, "Nothing to export", slog.String("reason", ErrNoData.Error()))
		return nil, ErrNoData
	}
	if dir == "" {
		dir = e.cfg.OutputDir
	}
	if err := e.files.EnsureDirectory(dir); err != nil {
		return nil, apierrors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	var written []string
	for _, format := range e.Formats() {
		path, err := e.writeFile(ctx, format, result, dir)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", format, err)
		}
		written = append(written, path)
		e.logger.InfoContext(ctx, "Export written",
			slog.String("format", string(format)),
			slog.String("path", path))
	}
	return written, nil
}

func (e *Exporter) writeFile(ctx context.Context, format Format, result *pipeline.Result, dir string) (path string, err error) {
	path = filepath.Join(dir, e.FileName(format))
	f, err := e.files.Create(path)
	if err != nil {
		return "", apierrors.NewStorageError("failed to create export file", err).WithContext("path", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	return path, e.Write(ctx, format, result, f)
}
