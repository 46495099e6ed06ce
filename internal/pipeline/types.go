package pipeline

import (
	"time"

	"fundx/internal/config"
	"fundx/pkg/contracts/domain"
)

// Document is one input to a run: raw file bytes routed by the extension of
// Name, or a table that was already decoded (for example a Google Sheets
// range). A document with Err set could not be loaded and is reported as
// failed.
type Document struct {
	Name  string
	Data  []byte
	Table *domain.RawTable
	Err   error
}

// FromBytes wraps file contents
func FromBytes(name string, data []byte) Document {
	return Document{Name: name, Data: data}
}

// Unreadable stands in for a file that could not be opened or read
func Unreadable(name string, err error) Document {
	return Document{Name: name, Err: err}
}

// FromTable wraps a decoded table
func FromTable(table *domain.RawTable) Document {
	return Document{Name: table.Name, Table: table}
}

// Kind reports how the document will be decoded
func (d Document) Kind() domain.DocumentKind {
	if d.Table != nil {
		return domain.DocumentKindTable
	}
	return domain.KindFromName(d.Name)
}

// Result is the outcome of one pipeline run. Reports are in input order.
// Dataset is nil when no document was processed successfully.
type Result struct {
	BatchID   string                  `json:"batch_id"`
	Dataset   *domain.CombinedDataset `json:"dataset,omitempty"`
	Reports   []domain.FileReport     `json:"files"`
	StartedAt time.Time               `json:"started_at"`
	Duration  time.Duration           `json:"duration_ns"`
}

// HasData reports whether at least one document produced a record set
func (r *Result) HasData() bool {
	return r != nil && r.Dataset != nil
}

// NearDuplicates returns fund name pairs flagged as likely duplicates
func (r *Result) NearDuplicates() []domain.NamePair {
	if r == nil || r.Dataset == nil {
		return nil
	}
	return r.Dataset.NearDuplicateFunds
}

// Count returns the number of reports with the given status
func (r *Result) Count(status domain.FileStatus) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, rep := range r.Reports {
		if rep.Status == status {
			n++
		}
	}
	return n
}

// LineErrors returns the number of isolated row failures across all documents
func (r *Result) LineErrors() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.LineErrors)
	}
	return n
}

// Options tunes a pipeline
type Options struct {
	Workers      int
	MaxFileBytes int64
	MatchCutoff  float64
	NameDrift    float64
	Worksheet    string
	CSVDelimiter rune
}

// OptionsFromConfig maps pipeline configuration onto Options
func OptionsFromConfig(cfg config.PipelineConfig) Options {
	opts := Options{
		Workers:      cfg.Workers,
		MaxFileBytes: cfg.MaxFileBytes,
		MatchCutoff:  cfg.MatchCutoff,
		NameDrift:    cfg.NameDrift,
		Worksheet:    cfg.Worksheet,
		CSVDelimiter: ',',
	}
	if r := []rune(cfg.CSVDelimiter); len(r) == 1 {
		opts.CSVDelimiter = r[0]
	}
	return opts
}

// DefaultOptions runs sequentially with the default thresholds
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Pipeline)
}
