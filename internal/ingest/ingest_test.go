package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundx/internal/dataprocessing"
	"fundx/pkg/contracts/domain"
)

func TestPDFTextExtractor_ExtractText(t *testing.T) {
	data := buildPDF(t,
		"Fund Name | Return | AUM | Strategy",
		"Alpha Fund | 5.25% | 120.5 | Long/Short",
		"Beta Fund | -1% | 80 | Macro",
	)

	text, err := NewPDFTextExtractor(nil).ExtractText(context.Background(), "report.pdf", data)
	require.NoError(t, err)
	assert.Contains(t, text, "Alpha Fund | 5.25% | 120.5 | Long/Short")
	assert.Contains(t, text, "Beta Fund | -1% | 80 | Macro")
}

func TestPDFTextExtractor_LinesInOneTextObject(t *testing.T) {
	data := buildFlowPDF(t,
		"Fund Name | Return | AUM | Strategy",
		"Alpha Fund | 5.25% | 120.5 | Long/Short",
		"Beta Fund | -1% | 80 | Macro",
	)

	text, err := NewPDFTextExtractor(nil).ExtractText(context.Background(), "flow.pdf", data)
	require.NoError(t, err)
	assert.Contains(t, strings.Split(text, "\n"), "Alpha Fund | 5.25% | 120.5 | Long/Short")

	records, lineErrs := dataprocessing.ParseText(text)
	assert.Empty(t, lineErrs)
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha Fund", records[0].FundName)
	assert.Equal(t, "Beta Fund", records[1].FundName)
	assert.Equal(t, "Macro", records[1].Strategy)
}

func TestPDFTextExtractor_Errors(t *testing.T) {
	extractor := NewPDFTextExtractor(nil)

	_, err := extractor.ExtractText(context.Background(), "empty.pdf", nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = extractor.ExtractText(context.Background(), "junk.pdf", []byte("not a pdf at all"))
	assert.Error(t, err)
}

func TestWorkbookReader_ReadTable(t *testing.T) {
	data := buildWorkbook(t, "Funds", [][]interface{}{
		{"Fund Name", "Weekly Return (%)", "AUM", "Strategy"},
		{"Alpha", 5.25, 1200.5, "Macro"},
		{"Beta", -1, nil, "Credit"},
	})

	table, err := NewWorkbookReader("", nil).ReadTable(context.Background(), "funds.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, "funds.xlsx", table.Name)
	assert.Equal(t, []string{"Fund Name", "Weekly Return (%)", "AUM", "Strategy"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "5.25", table.Cell(0, 1))
	assert.Equal(t, "1200.5", table.Cell(0, 2))
	assert.Equal(t, "", table.Cell(1, 2))
	assert.Equal(t, "Credit", table.Cell(1, 3))
}

func TestWorkbookReader_NamedSheet(t *testing.T) {
	data := buildWorkbook(t, "Funds", [][]interface{}{{"Fund"}, {"Alpha"}})

	_, err := NewWorkbookReader("Missing", nil).ReadTable(context.Background(), "funds.xlsx", data)
	assert.Error(t, err)

	table, err := NewWorkbookReader("Funds", nil).ReadTable(context.Background(), "funds.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fund"}, table.Headers)
}

func TestWorkbookReader_Errors(t *testing.T) {
	reader := NewWorkbookReader("", nil)

	_, err := reader.ReadTable(context.Background(), "empty.xlsx", nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = reader.ReadTable(context.Background(), "junk.xlsx", []byte("PK not really a zip"))
	assert.Error(t, err)
}

func TestCSVReader_ReadTable(t *testing.T) {
	data := []byte("\xEF\xBB\xBFFund,Return,AUM,Strategy\nAlpha,\"1,5\",100,Macro\nBeta,2\n")

	table, err := NewCSVReader(0, nil).ReadTable(context.Background(), "funds.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Fund", "Return", "AUM", "Strategy"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1,5", table.Cell(0, 1))
	assert.Equal(t, "", table.Cell(1, 3))
}

func TestCSVReader_Semicolon(t *testing.T) {
	table, err := NewCSVReader(';', nil).ReadTable(context.Background(), "funds.csv", []byte("Fund;Return\nAlpha;1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Fund", "Return"}, table.Headers)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		kind domain.DocumentKind
		data []byte
		want bool
	}{
		{"pdf header", domain.DocumentKindPDF, []byte("%PDF-1.7\n"), true},
		{"pdf without header", domain.DocumentKindPDF, []byte("hello"), false},
		{"xlsx zip header", domain.DocumentKindWorkbook, []byte("PK\x03\x04rest"), true},
		{"xlsx without header", domain.DocumentKindWorkbook, []byte("Fund,Return"), false},
		{"csv has no signature", domain.DocumentKindCSV, []byte("anything"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.kind, tt.data))
		})
	}
}
