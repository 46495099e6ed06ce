package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundx/internal/dataprocessing"
	"fundx/internal/shared/testutil"
)

func TestCSVWriter_Write(t *testing.T) {
	dataset := dataprocessing.Aggregate(testutil.SampleReportRecords(), testutil.SampleGridRecords())

	tests := []struct {
		name string
		bom  bool
	}{
		{name: "with BOM", bom: true},
		{name: "without BOM", bom: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter(tt.bom).Write(&buf, dataset))

			data := buf.Bytes()
			assert.Equal(t, tt.bom, bytes.HasPrefix(data, utf8BOM))
			data = bytes.TrimPrefix(data, utf8BOM)

			rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
			require.NoError(t, err)
			require.Len(t, rows, 5)

			assert.Equal(t, CombinedHeaders, rows[0])
			assert.Equal(t, []string{"Alpha Fund", "0.125", "1000000.00", "Equity", "125000.00"}, rows[1])
			assert.Equal(t, []string{"Beta Fund", "-0.0325", "250000.50", "Fixed Income", "-8125.02"}, rows[2])
			assert.Equal(t, []string{"Delta Fund", "0.075", "1200000.00", "Macro", "90000.00"}, rows[3])
			// Absent AUM stays empty rather than zero.
			assert.Equal(t, []string{"Epsilon Fund", "-0.0125", "", "Equity", ""}, rows[4])
		})
	}
}

func TestCSVWriter_EmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(false).Write(&buf, dataprocessing.Aggregate()))
	assert.Equal(t, "fund_name,return,aum,strategy,net_return_usd\n", buf.String())
}

func TestCSVWriter_NilDataset(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, NewCSVWriter(true).Write(&buf, nil), ErrNoData)
	assert.Zero(t, buf.Len())
}
