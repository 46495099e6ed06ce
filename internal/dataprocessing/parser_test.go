package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText_SingleRow(t *testing.T) {
	records, errs := ParseText("Alpha Fund | 5.25% | 120.5 | Long/Short")

	require.Empty(t, errs)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "Alpha Fund", r.FundName)
	assert.InDelta(t, 0.0525, r.Return, 1e-12)
	require.NotNil(t, r.AUM)
	assert.Equal(t, 120.5, *r.AUM)
	assert.Equal(t, "Long/Short", r.Strategy)
}

func TestParseText_MalformedRowIsolation(t *testing.T) {
	text := strings.Join([]string{
		"Alpha | 1.5% | 100 | Macro",
		"Beta | n/a | 200 | Credit",
		"Gamma | -2% | 300 | Equity",
	}, "\n")

	records, errs := ParseText(text)

	require.Len(t, records, 2)
	assert.Equal(t, "Alpha", records[0].FundName)
	assert.Equal(t, "Gamma", records[1].FundName)
	assert.InDelta(t, -0.02, records[1].Return, 1e-12)

	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, "Beta | n/a | 200 | Credit", errs[0].Text)
	assert.Contains(t, errs[0].Cause, "return")
}

func TestParseText_HeaderAndSeparatorExcluded(t *testing.T) {
	text := strings.Join([]string{
		"Weekly Fund Performance",
		"Fund Name | Return | AUM | Strategy",
		"----|----|----|----",
		"Alpha | 2% | 50 | Macro",
		"",
		"Page 1 of 1",
	}, "\n")

	records, errs := ParseText(text)

	assert.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "Alpha", records[0].FundName)
}

func TestParseText_LineFailures(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		cause string
	}{
		{"too few fields", "Alpha | 2% | 50", "expected 4 fields"},
		{"non-numeric aum", "Alpha | 2% | lots | Macro", "aum"},
		{"empty fund name", " | 2% | 50 | Macro", "fund name is empty"},
		{"empty strategy", "Alpha | 2% | 50 |  ", "strategy is empty"},
		{"thousands separator in aum", "Alpha | 2% | 1,000 | Macro", "aum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, errs := ParseText(tt.line)
			assert.Empty(t, records)
			require.Len(t, errs, 1)
			assert.Equal(t, 1, errs[0].Line)
			assert.Contains(t, errs[0].Cause, tt.cause)
		})
	}
}

func TestParseText_Tolerances(t *testing.T) {
	text := "Alpha | 3 % | 10 | Macro | extra\r\nBeta|4|20|Credit\r\n"

	records, errs := ParseText(text)

	assert.Empty(t, errs)
	require.Len(t, records, 2)
	assert.InDelta(t, 0.03, records[0].Return, 1e-12)
	assert.Equal(t, "Macro", records[0].Strategy)
	assert.Equal(t, "Credit", records[1].Strategy)
}

func TestParseText_Empty(t *testing.T) {
	records, errs := ParseText("")
	assert.Empty(t, records)
	assert.Empty(t, errs)
}
