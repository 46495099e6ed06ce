package exporter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal places written to the CSV report
const (
	ReturnPlaces = 6
	MoneyPlaces  = 2
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json"
	}
}

// FileName returns the export file name for base
func (f Format) FileName(base string) string {
	if f == FormatJSON {
		return "summary.json"
	}
	return base + "." + string(f)
}

// formatReturn renders a fractional return without float noise
func formatReturn(f float64) string {
	return decimal.NewFromFloat(f).Round(ReturnPlaces).String()
}

// formatMoney renders an optional monetary value with two decimals; nil is
// an empty cell
func formatMoney(f *float64) string {
	if f == nil {
		return ""
	}
	return decimal.NewFromFloat(*f).StringFixed(MoneyPlaces)
}
