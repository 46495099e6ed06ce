package dataprocessing

import (
	"fmt"
	"strings"

	"fundx/pkg/contracts/domain"
)

const (
	fieldDelimiter  = "|"
	headerMarker    = "Fund Name"
	separatorMarker = "---"
	minLineFields   = 4
)

// IsCandidateLine reports whether a line of extracted text looks like a table
// data row: it carries the field delimiter and is neither the header row nor a
// separator row.
func IsCandidateLine(line string) bool {
	return strings.Contains(line, fieldDelimiter) &&
		!strings.Contains(line, headerMarker) &&
		!strings.Contains(line, separatorMarker)
}

// ParseText scans text extracted from a PDF and converts every candidate table
// row into a FundRecord. Rows that cannot be converted are returned as
// LineErrors; they never abort the scan. Both slices keep document order.
func ParseText(rawText string) ([]domain.FundRecord, []domain.LineError) {
	var (
		records []domain.FundRecord
		errs    []domain.LineError
	)

	for i, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !IsCandidateLine(line) {
			continue
		}

		record, err := ParseLine(line)
		if err != nil {
			errs = append(errs, domain.LineError{Line: i + 1, Text: line, Cause: err.Error()})
			continue
		}
		records = append(records, record)
	}

	return records, errs
}

// ParseLine converts one delimited row: fund name, return in percent, AUM and
// strategy. Fields past the fourth are ignored.
func ParseLine(line string) (domain.FundRecord, error) {
	parts := strings.Split(line, fieldDelimiter)
	if len(parts) < minLineFields {
		return domain.FundRecord{}, fmt.Errorf("expected %d fields, got %d", minLineFields, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	fund, rawReturn, rawAUM, strategy := parts[0], parts[1], parts[2], parts[3]
	if fund == "" {
		return domain.FundRecord{}, fmt.Errorf("fund name is empty")
	}
	if strategy == "" {
		return domain.FundRecord{}, fmt.Errorf("strategy is empty")
	}

	ret, err := parseFinite(strings.TrimSpace(strings.ReplaceAll(rawReturn, "%", "")))
	if err != nil {
		return domain.FundRecord{}, fmt.Errorf("return: %w", err)
	}
	aum, err := parseFinite(rawAUM)
	if err != nil {
		return domain.FundRecord{}, fmt.Errorf("aum: %w", err)
	}

	return domain.FundRecord{
		FundName: fund,
		Return:   ret / 100,
		AUM:      &aum,
		Strategy: strategy,
	}, nil
}
