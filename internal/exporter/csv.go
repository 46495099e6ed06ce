package exporter

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"fundx/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvRow is one line of the combined CSV report
type csvRow struct {
	FundName     string `csv:"fund_name"`
	Return       string `csv:"return"`
	AUM          string `csv:"aum"`
	Strategy     string `csv:"strategy"`
	NetReturnUSD string `csv:"net_return_usd"`
}

// CSVWriter writes the combined dataset as CSV
type CSVWriter struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// NewCSVWriter creates a CSV writer
func NewCSVWriter(bom bool) *CSVWriter {
	return &CSVWriter{BOMPrefix: bom}
}

// Write writes a header row and one row per record. Absent AUM and net
// return values are empty fields.
func (c *CSVWriter) Write(w io.Writer, dataset *domain.CombinedDataset) error {
	if dataset == nil {
		return ErrNoData
	}

	if c.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	rows := make([]csvRow, len(dataset.Records))
	for i, r := range dataset.Records {
		rows[i] = csvRow{
			FundName:     r.FundName,
			Return:       formatReturn(r.Return),
			AUM:          formatMoney(r.AUM),
			Strategy:     r.Strategy,
			NetReturnUSD: formatMoney(r.NetReturnUSD),
		}
	}

	if len(rows) == 0 {
		_, err := io.WriteString(w, "fund_name,return,aum,strategy,net_return_usd\n")
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
