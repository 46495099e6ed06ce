package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fundx/pkg/contracts/domain"
)

// Normalizer projects tables with arbitrary header naming onto the canonical
// fund schema.
type Normalizer struct {
	matcher *ColumnMatcher
	aliases []AliasSet
}

// NewNormalizer creates a normalizer. A nil matcher uses the default cutoff
// and nil aliases use DefaultAliases.
func NewNormalizer(matcher *ColumnMatcher, aliases []AliasSet) *Normalizer {
	if matcher == nil {
		matcher = defaultMatcher
	}
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{matcher: matcher, aliases: aliases}
}

// Normalize converts table into canonical records using the default matcher
// and aliases. The error is a *SchemaError or *CellError when the table
// cannot be projected; no partial result is returned in that case.
func Normalize(table *domain.RawTable) ([]domain.FundRecord, error) {
	return NewNormalizer(nil, nil).Normalize(table)
}

// NormalizeHeader trims, lower-cases and replaces spaces with underscores.
func NormalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// Resolve maps each canonical field to a column index of table, or -1.
func (n *Normalizer) Resolve(table *domain.RawTable) (map[string]int, []Resolution) {
	index := make(map[string]int, len(table.Headers))
	available := make([]string, 0, len(table.Headers))
	for i, h := range table.Headers {
		name := NormalizeHeader(h)
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
		available = append(available, name)
	}

	columns := make(map[string]int, len(n.aliases))
	attempts := make([]Resolution, 0, len(n.aliases))
	for _, set := range n.aliases {
		column, ok := n.matcher.Match(set.Aliases, available)
		attempts = append(attempts, Resolution{Field: set.Field, Column: column, Found: ok})
		if ok {
			columns[set.Field] = index[column]
		} else {
			columns[set.Field] = -1
		}
	}
	return columns, attempts
}

// Normalize converts table into canonical records.
func (n *Normalizer) Normalize(table *domain.RawTable) ([]domain.FundRecord, error) {
	if table == nil || len(table.Headers) == 0 {
		return nil, ErrEmptyTable
	}

	columns, attempts := n.Resolve(table)

	var missing []string
	for _, set := range n.aliases {
		if set.Required && columns[set.Field] < 0 {
			missing = append(missing, set.Field)
		}
	}
	if len(missing) > 0 {
		headers := make([]string, len(table.Headers))
		for i, h := range table.Headers {
			headers[i] = NormalizeHeader(h)
		}
		return nil, &SchemaError{Missing: missing, Attempts: attempts, Headers: headers}
	}

	fundCol := columns[domain.FieldFundName]
	returnCol := columns[domain.FieldReturn]
	aumCol := columns[domain.FieldAUM]
	strategyCol := columns[domain.FieldStrategy]

	records := make([]domain.FundRecord, 0, len(table.Rows))
	for i := range table.Rows {
		row := i + 1
		fund := strings.TrimSpace(table.Cell(i, fundCol))
		ret := table.Cell(i, returnCol)
		strategy := strings.TrimSpace(table.Cell(i, strategyCol))
		aum := ""
		if aumCol >= 0 {
			aum = table.Cell(i, aumCol)
		}

		if fund == "" && strategy == "" && isBlank(ret) && isBlank(aum) {
			continue
		}

		if fund == "" {
			return nil, &CellError{Row: row, Column: table.Headers[fundCol], Cause: "fund name is empty"}
		}
		if strategy == "" {
			return nil, &CellError{Row: row, Column: table.Headers[strategyCol], Cause: "strategy is empty"}
		}

		value, err := parseNumber(ret)
		if err != nil {
			return nil, &CellError{Row: row, Column: table.Headers[returnCol], Value: ret, Cause: err.Error()}
		}

		record := domain.FundRecord{
			FundName: fund,
			Return:   value / 100,
			Strategy: strategy,
		}

		if !isBlank(aum) {
			assets, err := parseNumber(aum)
			if err != nil {
				return nil, &CellError{Row: row, Column: table.Headers[aumCol], Value: aum, Cause: err.Error()}
			}
			record.AUM = &assets
		}

		records = append(records, record)
	}

	return records, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parseNumber converts a spreadsheet cell to float64, removing thousands
// separators and surrounding whitespace.
func parseNumber(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0, fmt.Errorf("value is empty")
	}
	return parseFinite(clean)
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}
