package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// PipelineMetrics holds the extraction pipeline instruments
type PipelineMetrics struct {
	filesProcessed metric.Int64Counter
	recordsEmitted metric.Int64Counter
	lineErrors     metric.Int64Counter
	runDuration    metric.Float64Histogram
	fileDuration   metric.Float64Histogram
	exportsWritten metric.Int64Counter
}

// NewPipelineMetrics registers the pipeline instruments on meter. A nil meter
// yields no-op instruments.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(InstrumentationName)
	}

	var err error
	m := &PipelineMetrics{}

	m.filesProcessed, err = meter.Int64Counter(
		"fundx_files_processed_total",
		metric.WithDescription("Documents processed, by kind and status"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, err
	}

	m.recordsEmitted, err = meter.Int64Counter(
		"fundx_records_total",
		metric.WithDescription("Normalized fund records produced, by kind"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.lineErrors, err = meter.Int64Counter(
		"fundx_line_errors_total",
		metric.WithDescription("Report lines that looked like table rows but failed to parse"),
		metric.WithUnit("{line}"),
	)
	if err != nil {
		return nil, err
	}

	m.runDuration, err = meter.Float64Histogram(
		"fundx_run_duration_seconds",
		metric.WithDescription("Duration of a full pipeline run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.fileDuration, err = meter.Float64Histogram(
		"fundx_file_duration_seconds",
		metric.WithDescription("Duration of extracting a single document"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.exportsWritten, err = meter.Int64Counter(
		"fundx_exports_total",
		metric.WithDescription("Report files written, by format"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordFile records the outcome of one document
func (m *PipelineMetrics) RecordFile(ctx context.Context, kind, status string, records, lineErrors int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	)
	m.filesProcessed.Add(ctx, 1, attrs)
	m.fileDuration.Record(ctx, d.Seconds(), attrs)
	kindAttr := metric.WithAttributes(attribute.String("kind", kind))
	if records > 0 {
		m.recordsEmitted.Add(ctx, int64(records), kindAttr)
	}
	if lineErrors > 0 {
		m.lineErrors.Add(ctx, int64(lineErrors), kindAttr)
	}
}

// RecordRun records the duration of a pipeline run
func (m *PipelineMetrics) RecordRun(ctx context.Context, d time.Duration, hasData bool) {
	if m == nil {
		return
	}
	m.runDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Bool("has_data", hasData)))
}

// RecordExport records a written report file
func (m *PipelineMetrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.exportsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}
