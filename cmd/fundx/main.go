// Command fundx extracts fund performance records from PDF, Excel and CSV
// documents and writes the combined report.
//
//	fundx -in data/statements -out reports
//	fundx -preview 20 q1.pdf q1.xlsx
//	fundx -sheet-id 1AbC -sheet-range 'Funds!A1:D'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"fundx/internal/config"
	"fundx/internal/exporter"
	"fundx/internal/files"
	"fundx/internal/infrastructure"
	"fundx/internal/pipeline"
	"fundx/internal/services"
	"fundx/internal/validation"
	"fundx/pkg/contracts"
	"fundx/pkg/contracts/domain"
)

var errNoInput = errors.New("no input documents: pass files, -in or -sheet")

// options are the parsed command-line flags
type options struct {
	configFile string
	inDir      string
	outDir     string
	workers    int
	preview    int
	sheet      bool
	sheetID    string
	sheetRange string
	version    bool
	paths      []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code. Documents that
// fail individually do not change the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "fundx: %v\n", err)
		return 1
	}

	logger := infrastructure.NewLogger(cfg.Logging, stderr)

	if err := extract(ctx, cfg, opts, stdout, logger); err != nil {
		logger.ErrorContext(ctx, "Extraction failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "fundx: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("fundx", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file (defaults to fundx.yaml when present)")
	fs.StringVar(&opts.inDir, "in", "", "directory of .pdf, .xlsx and .csv documents")
	fs.StringVar(&opts.outDir, "out", "", "output directory for reports (defaults to export.output_dir)")
	fs.IntVar(&opts.workers, "workers", 0, "documents processed concurrently (defaults to pipeline.workers)")
	fs.IntVar(&opts.preview, "preview", -1, "rows of the combined dataset to print (defaults to pipeline.preview_rows)")
	fs.BoolVar(&opts.sheet, "sheet", false, "include the configured Google Sheets range")
	fs.StringVar(&opts.sheetID, "sheet-id", "", "Google Sheets spreadsheet to include (overrides sheets.spreadsheet_id)")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.StringVar(&opts.sheetRange, "sheet-range", "", "A1 range read from -sheet-id (overrides sheets.range)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.paths = fs.Args()
	if opts.sheetID != "" {
		opts.sheet = true
	}
	return opts, nil
}

// loadConfig resolves configuration and applies flag overrides
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.workers > 0 {
		cfg.Pipeline.Workers = opts.workers
	}
	if opts.preview >= 0 {
		cfg.Pipeline.PreviewRows = opts.preview
	}
	if opts.outDir != "" {
		cfg.Export.OutputDir = opts.outDir
	}
	if opts.sheetID != "" {
		cfg.Sheets.SpreadsheetID = opts.sheetID
	}
	if opts.sheetRange != "" {
		cfg.Sheets.Range = opts.sheetRange
	}
	return cfg, cfg.Validate()
}

func extract(ctx context.Context, cfg *config.Config, opts *options, stdout io.Writer, logger *slog.Logger) error {
	validator := validation.NewFileValidator(cfg.Pipeline.MaxFileBytes, logger)

	docs, err := collectDocuments(opts, validator, cfg.Pipeline.MaxFileBytes, logger)
	if err != nil {
		return err
	}
	if len(docs) == 0 && !opts.sheet {
		return errNoInput
	}

	if err := validator.ValidateOutputDirectory(cfg.Export.OutputDir); err != nil {
		return err
	}

	sheet, err := services.NewSheetSourceFromConfig(ctx, cfg.Sheets, logger)
	if err != nil {
		return err
	}
	if opts.sheet && sheet == nil {
		return services.ErrSheetsDisabled
	}

	metrics, err := infrastructure.NewPipelineMetrics(nil)
	if err != nil {
		return err
	}
	p := pipeline.New(pipeline.OptionsFromConfig(cfg.Pipeline), logger, pipeline.WithMetrics(metrics))
	exp := exporter.New(cfg.Export, metrics, logger)
	svc := services.NewExtractionService(p, exp, sheet, cfg.Pipeline.PreviewRows, logger)

	logger.InfoContext(ctx, "Starting fund extraction",
		slog.Int("documents", len(docs)),
		slog.Bool("sheet", opts.sheet),
		slog.String("output_dir", cfg.Export.OutputDir),
		slog.Int("workers", cfg.Pipeline.Workers))

	extraction, err := svc.Extract(ctx, services.ExtractRequest{
		Documents:    docs,
		Preview:      cfg.Pipeline.PreviewRows,
		IncludeSheet: opts.sheet,
	})
	if err != nil {
		return err
	}

	printReports(stdout, extraction.Reports)

	if !extraction.HasData() {
		fmt.Fprintln(stdout, exporter.ErrNoData.Error())
		return nil
	}

	paths, err := svc.WriteReports(ctx, extraction.Result, cfg.Export.OutputDir)
	if err != nil {
		return err
	}

	printPreview(stdout, extraction.Preview, extraction.Dataset.Len())
	for _, path := range paths {
		fmt.Fprintf(stdout, "Wrote %s\n", path)
	}
	return nil
}

// collectDocuments reads the named files and every supported document in
// the input directory. Office lock files are left out; any other file that
// cannot be read becomes a failed document so the run still reports it.
func collectDocuments(opts *options, validator *validation.FileValidator, maxBytes int64, logger *slog.Logger) ([]pipeline.Document, error) {
	discovery := files.NewDiscovery("")
	manager := files.NewManager("")

	var docs []pipeline.Document
	unreadable := func(name, path string, err error) {
		logger.Error("Failed to read document",
			slog.String("file", path),
			slog.String("error", err.Error()))
		docs = append(docs, pipeline.Unreadable(name, err))
	}

	var found []files.FileInfo
	if opts.inDir != "" {
		if err := validator.ValidateInputDirectory(opts.inDir); err != nil {
			return nil, err
		}
		infos, err := discovery.FindDocuments(opts.inDir)
		if err != nil {
			return nil, err
		}
		if len(infos) == 0 {
			logger.Warn("No documents found in input directory", slog.String("input_dir", opts.inDir))
		}
		found = append(found, infos...)
	}
	for _, path := range opts.paths {
		info, err := discovery.Stat(path)
		if err != nil {
			name := filepath.Base(path)
			found = append(found, files.FileInfo{Name: name, Path: path, Kind: domain.KindFromName(name)})
			continue
		}
		found = append(found, info)
	}

	for _, info := range found {
		if err := validator.ValidateFile(info.Path); err != nil {
			if errors.Is(err, validation.ErrTemporaryFile) {
				logger.Warn("Skipping document",
					slog.String("file", info.Path),
					slog.String("error", err.Error()))
				continue
			}
			unreadable(info.Name, info.Path, err)
			continue
		}
		data, err := manager.ReadFile(info.Path, maxBytes)
		if err != nil {
			unreadable(info.Name, info.Path, err)
			continue
		}
		docs = append(docs, pipeline.FromBytes(info.Name, data))
	}
	return docs, nil
}

func printReports(w io.Writer, reports []domain.FileReport) {
	for _, rep := range reports {
		switch rep.Status {
		case domain.FileStatusOK:
			fmt.Fprintf(w, "%-8s %s (%d records", rep.Status, rep.Name, rep.Records)
			if n := len(rep.LineErrors); n > 0 {
				fmt.Fprintf(w, ", %d rows skipped", n)
			}
			fmt.Fprintln(w, ")")
		default:
			fmt.Fprintf(w, "%-8s %s: %s\n", rep.Status, rep.Name, rep.Cause)
		}
	}
}

func printPreview(w io.Writer, rows []domain.CombinedRecord, total int) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\nLast %d of %d records:\n", len(rows), total)
	fmt.Fprintf(w, "%-32s %12s %16s %-20s %16s\n", "fund_name", "return", "aum", "strategy", "net_return_usd")
	for _, row := range rows {
		fmt.Fprintf(w, "%-32s %12s %16s %-20s %16s\n",
			row.FundName,
			strconv.FormatFloat(row.Return, 'f', -1, 64),
			optional(row.AUM),
			row.Strategy,
			optional(row.NetReturnUSD))
	}
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
