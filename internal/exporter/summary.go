package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"fundx/internal/pipeline"
	"fundx/pkg/contracts"
	"fundx/pkg/contracts/domain"
)

// SummaryCounts totals a run
type SummaryCounts struct {
	Files      int `json:"files"`
	OK         int `json:"ok"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
	Records    int `json:"records"`
	LineErrors int `json:"line_errors"`
}

// Summary is the content of summary.json
type Summary struct {
	BatchID            string              `json:"batch_id"`
	FormatVersion      string              `json:"format_version"`
	GeneratedAt        time.Time           `json:"generated_at"`
	Counts             SummaryCounts       `json:"counts"`
	Files              []domain.FileReport `json:"files"`
	ReturnByFund       domain.GroupedView  `json:"return_by_fund"`
	AUMByStrategy      domain.GroupedView  `json:"aum_by_strategy"`
	ReturnByStrategy   domain.GroupedView  `json:"return_by_strategy"`
	NearDuplicateFunds []domain.NamePair   `json:"near_duplicate_funds,omitempty"`
}

// NewSummary summarises a run
func NewSummary(result *pipeline.Result, now time.Time) Summary {
	s := Summary{
		FormatVersion: contracts.ReportFormatVersion,
		GeneratedAt:   now.UTC(),
	}
	if result == nil {
		return s
	}

	s.BatchID = result.BatchID
	s.Files = result.Reports
	s.Counts = SummaryCounts{
		Files:      len(result.Reports),
		OK:         result.Count(domain.FileStatusOK),
		Failed:     result.Count(domain.FileStatusFailed),
		Skipped:    result.Count(domain.FileStatusSkipped),
		Records:    result.Dataset.Len(),
		LineErrors: result.LineErrors(),
	}
	if d := result.Dataset; d != nil {
		s.ReturnByFund = d.ReturnByFund
		s.AUMByStrategy = d.AUMByStrategy
		s.ReturnByStrategy = d.ReturnByStrategy
		s.NearDuplicateFunds = d.NearDuplicateFunds
	}
	return s
}

// WriteSummary writes s as indented JSON
func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
