package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundx/internal/config"
	apierrors "fundx/internal/errors"
	"fundx/internal/exporter"
	"fundx/internal/pipeline"
	"fundx/internal/shared/testutil"
	"fundx/pkg/contracts/domain"
)

type fakeSheet struct {
	table *domain.RawTable
	err   error
	calls int
}

func (f *fakeSheet) FetchTable(ctx context.Context, spreadsheetID, readRange string) (*domain.RawTable, error) {
	f.calls++
	return f.table, f.err
}

func newTestService(t *testing.T, sheet *SheetSource) *ExtractionService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default()
	cfg.Export.OutputDir = t.TempDir()

	p := pipeline.New(pipeline.OptionsFromConfig(cfg.Pipeline), logger)
	exp := exporter.New(cfg.Export, nil, logger)
	return NewExtractionService(p, exp, sheet, 1, logger)
}

func TestExtractionService_Extract(t *testing.T) {
	svc := newTestService(t, nil)

	extraction, err := svc.Extract(context.Background(), ExtractRequest{
		Documents: []pipeline.Document{pipeline.FromTable(testutil.SampleTable("funds"))},
		Preview:   -1,
	})
	require.NoError(t, err)
	require.True(t, extraction.HasData())
	assert.Equal(t, 2, extraction.Dataset.Len())
	require.Len(t, extraction.Preview, 1)
	assert.Equal(t, "Epsilon Fund", extraction.Preview[0].FundName)

	extraction, err = svc.Extract(context.Background(), ExtractRequest{
		Documents: []pipeline.Document{pipeline.FromTable(testutil.SampleTable("funds"))},
		Preview:   0,
	})
	require.NoError(t, err)
	assert.Empty(t, extraction.Preview)
}

func TestExtractionService_NoDocuments(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Extract(context.Background(), ExtractRequest{})
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = svc.Extract(context.Background(), ExtractRequest{IncludeSheet: true})
	assert.ErrorIs(t, err, ErrSheetsDisabled)
}

func TestExtractionService_IncludeSheet(t *testing.T) {
	fetcher := &fakeSheet{table: testutil.SampleTable("sheet:Funds!A1:E10")}
	svc := newTestService(t, NewSheetSource(fetcher, "sheet", "Funds!A1:E10"))
	assert.True(t, svc.SheetsEnabled())

	extraction, err := svc.Extract(context.Background(), ExtractRequest{
		Documents:    []pipeline.Document{pipeline.FromBytes("notes.txt", []byte("x"))},
		Preview:      10,
		IncludeSheet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	require.Len(t, extraction.Reports, 2)
	assert.Equal(t, domain.FileStatusSkipped, extraction.Reports[0].Status)
	assert.Equal(t, domain.DocumentKindTable, extraction.Reports[1].Kind)
	assert.Equal(t, testutil.SampleGridRecords(), extraction.Dataset.FundRecords())
}

func TestExtractionService_SheetFailure(t *testing.T) {
	fetcher := &fakeSheet{err: errors.New("403 forbidden")}
	svc := newTestService(t, NewSheetSource(fetcher, "sheet", "A1:D"))

	_, err := svc.Extract(context.Background(), ExtractRequest{IncludeSheet: true})
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeSource, appErr.Type)
	assert.Equal(t, "A1:D", appErr.Context["range"])
}

func TestExtractionService_Export(t *testing.T) {
	svc := newTestService(t, nil)

	var buf bytes.Buffer
	extraction, err := svc.Export(context.Background(), ExtractRequest{
		Documents: []pipeline.Document{pipeline.FromTable(testutil.SampleTable("funds"))},
	}, exporter.FormatCSV, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, extraction.Dataset.Len())
	assert.Contains(t, buf.String(), "Delta Fund")

	buf.Reset()
	_, err = svc.Export(context.Background(), ExtractRequest{
		Documents: []pipeline.Document{pipeline.FromBytes("empty.pdf", nil)},
	}, exporter.FormatCSV, &buf)
	assert.ErrorIs(t, err, exporter.ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestExtractionService_WriteReports(t *testing.T) {
	svc := newTestService(t, nil)
	extraction, err := svc.Extract(context.Background(), ExtractRequest{
		Documents: []pipeline.Document{pipeline.FromTable(testutil.SampleTable("funds"))},
	})
	require.NoError(t, err)

	paths, err := svc.WriteReports(context.Background(), extraction.Result, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}
