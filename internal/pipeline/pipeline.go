package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"fundx/internal/dataprocessing"
	"fundx/internal/infrastructure"
	"fundx/internal/ingest"
	"fundx/internal/validation"
	"fundx/pkg/contracts/domain"
)

// TracerName names the pipeline tracer
const TracerName = "fundx.pipeline"

// ErrUnsupportedKind is recorded for documents whose type is not handled
var ErrUnsupportedKind = errors.New("unsupported document type")

// Pipeline routes documents to the PDF parser or the spreadsheet normalizer
// and merges every successful record set into one dataset.
type Pipeline struct {
	opts       Options
	text       ingest.TextExtractor
	readers    map[domain.DocumentKind]ingest.TableReader
	normalizer *dataprocessing.Normalizer
	validator  *validation.FileValidator
	tracer     trace.Tracer
	metrics    *infrastructure.PipelineMetrics
	logger     *slog.Logger
}

// Option customises a Pipeline
type Option func(*Pipeline)

// WithTracer sets the tracer used for run and document spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMetrics records per-document and per-run metrics
func WithMetrics(metrics *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = metrics }
}

// WithTextExtractor replaces the PDF text extractor
func WithTextExtractor(extractor ingest.TextExtractor) Option {
	return func(p *Pipeline) { p.text = extractor }
}

// New creates a pipeline
func New(opts Options, logger *slog.Logger, options ...Option) *Pipeline {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "pipeline")
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.CSVDelimiter == 0 {
		opts.CSVDelimiter = ','
	}
	if opts.NameDrift <= 0 {
		opts.NameDrift = dataprocessing.DefaultNameDrift
	}

	p := &Pipeline{
		opts: opts,
		text: ingest.NewPDFTextExtractor(logger),
		readers: map[domain.DocumentKind]ingest.TableReader{
			domain.DocumentKindWorkbook: ingest.NewWorkbookReader(opts.Worksheet, logger),
			domain.DocumentKindCSV:      ingest.NewCSVReader(opts.CSVDelimiter, logger),
		},
		normalizer: dataprocessing.NewNormalizer(dataprocessing.NewColumnMatcher(opts.MatchCutoff), nil),
		validator:  validation.NewFileValidator(opts.MaxFileBytes, logger),
		tracer:     otel.Tracer(TracerName),
		logger:     logger,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Run processes docs and merges the results. Per-document failures are
// recorded in the Result and never stop other documents. When ctx is
// cancelled, documents not yet started are reported as failed and ctx.Err()
// is returned alongside the partial Result.
func (p *Pipeline) Run(ctx context.Context, docs []Document) (*Result, error) {
	result := &Result{
		BatchID:   uuid.New().String(),
		StartedAt: time.Now(),
		Reports:   make([]domain.FileReport, len(docs)),
	}

	ctx = infrastructure.EnsureTraceID(ctx, result.BatchID)
	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.batch_id", result.BatchID),
			attribute.Int("pipeline.documents", len(docs)),
			attribute.Int("pipeline.workers", p.opts.Workers),
		),
	)
	defer span.End()

	logger := p.logger.With(slog.String("batch_id", result.BatchID))
	logger.InfoContext(ctx, "Pipeline run started",
		slog.Int("documents", len(docs)),
		slog.Int("workers", p.opts.Workers))

	sets := make([][]domain.FundRecord, len(docs))

	// Each document writes only its own slot, so order is input order.
	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			result.Reports[i] = cancelledReport(doc, err)
			continue
		}
		g.Go(func() error {
			result.Reports[i], sets[i] = p.process(ctx, logger, doc)
			return nil
		})
	}
	_ = g.Wait()

	var ok [][]domain.FundRecord
	for i, rep := range result.Reports {
		if rep.Status == domain.FileStatusOK {
			ok = append(ok, sets[i])
		}
	}
	if len(ok) > 0 {
		result.Dataset = dataprocessing.Aggregate(ok...)
		if p.opts.NameDrift != dataprocessing.DefaultNameDrift {
			result.Dataset.NearDuplicateFunds = dataprocessing.SimilarNames(result.Dataset.ReturnByFund.Keys(), p.opts.NameDrift)
		}
	}
	result.Duration = time.Since(result.StartedAt)

	p.metrics.RecordRun(ctx, result.Duration, result.HasData())
	span.SetAttributes(
		attribute.Int("pipeline.records", result.Dataset.Len()),
		attribute.Int("pipeline.failed", result.Count(domain.FileStatusFailed)),
		attribute.Bool("pipeline.has_data", result.HasData()),
	)

	for _, pair := range result.NearDuplicates() {
		logger.WarnContext(ctx, "Fund names look like duplicates; grouped separately",
			slog.String("fund_a", pair.A),
			slog.String("fund_b", pair.B),
			slog.Int("distance", pair.Distance))
	}

	logger.InfoContext(ctx, "Pipeline run completed",
		slog.Int("records", result.Dataset.Len()),
		slog.Int("ok", result.Count(domain.FileStatusOK)),
		slog.Int("failed", result.Count(domain.FileStatusFailed)),
		slog.Int("skipped", result.Count(domain.FileStatusSkipped)),
		slog.Int("line_errors", result.LineErrors()),
		slog.Bool("has_data", result.HasData()),
		slog.Duration("duration", result.Duration))

	if err := ctx.Err(); err != nil {
		infrastructure.RecordError(ctx, err)
		return result, err
	}
	return result, nil
}

// process handles one document and never returns an error: failures are
// carried in the report.
func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, doc Document) (domain.FileReport, []domain.FundRecord) {
	start := time.Now()
	kind := doc.Kind()
	report := domain.FileReport{Name: doc.Name, Kind: kind}

	ctx, span := p.tracer.Start(ctx, "pipeline.document",
		trace.WithAttributes(
			attribute.String("document.name", doc.Name),
			attribute.String("document.kind", string(kind)),
			attribute.Int("document.size_bytes", len(doc.Data)),
		),
	)
	defer span.End()

	logger = logger.With(slog.String("file", doc.Name), slog.String("kind", string(kind)))

	records, lineErrs, err := p.extract(ctx, kind, doc)
	report.Duration = time.Since(start)
	report.LineErrors = lineErrs

	for _, le := range lineErrs {
		logger.WarnContext(ctx, "Skipped malformed row",
			slog.Int("line", le.Line),
			slog.String("text", le.Text),
			slog.String("cause", le.Cause))
	}

	switch {
	case errors.Is(err, ErrUnsupportedKind):
		report.Status = domain.FileStatusSkipped
		report.Cause = err.Error()
		report.Err = err
		logger.InfoContext(ctx, "Skipped unsupported document")
	case err != nil:
		report.Status = domain.FileStatusFailed
		report.Cause = err.Error()
		report.Err = err
		records = nil
		infrastructure.RecordError(ctx, err)
		logger.ErrorContext(ctx, "Document failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", report.Duration))
	default:
		report.Status = domain.FileStatusOK
		report.Records = len(records)
		logger.InfoContext(ctx, "Document processed",
			slog.Int("records", len(records)),
			slog.Int("line_errors", len(lineErrs)),
			slog.Duration("duration", report.Duration))
	}

	span.SetAttributes(
		attribute.String("document.status", string(report.Status)),
		attribute.Int("document.records", report.Records),
	)
	p.metrics.RecordFile(ctx, string(kind), string(report.Status), report.Records, len(lineErrs), report.Duration)

	return report, records
}

// extract routes a document to its decoder and normalizer
func (p *Pipeline) extract(ctx context.Context, kind domain.DocumentKind, doc Document) ([]domain.FundRecord, []domain.LineError, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if doc.Err != nil {
		return nil, nil, doc.Err
	}

	if kind == domain.DocumentKindTable {
		records, err := p.normalizer.Normalize(doc.Table)
		return records, nil, err
	}

	if kind == domain.DocumentKindUnknown {
		return nil, nil, fmt.Errorf("%s: %w", doc.Name, ErrUnsupportedKind)
	}

	if err := p.validator.ValidateDocument(doc.Name, doc.Data); err != nil {
		return nil, nil, err
	}

	if kind == domain.DocumentKindPDF {
		text, err := p.text.ExtractText(ctx, doc.Name, doc.Data)
		if err != nil {
			return nil, nil, err
		}
		records, lineErrs := dataprocessing.ParseText(text)
		return records, lineErrs, nil
	}

	reader, ok := p.readers[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", doc.Name, ErrUnsupportedKind)
	}
	table, err := reader.ReadTable(ctx, doc.Name, doc.Data)
	if err != nil {
		return nil, nil, err
	}
	records, err := p.normalizer.Normalize(table)
	return records, nil, err
}

func cancelledReport(doc Document, err error) domain.FileReport {
	return domain.FileReport{
		Name:   doc.Name,
		Kind:   doc.Kind(),
		Status: domain.FileStatusFailed,
		Cause:  err.Error(),
		Err:    err,
	}
}
