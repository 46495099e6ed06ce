package services

import (
	"context"
	"log/slog"

	"fundx/internal/config"
	apierrors "fundx/internal/errors"
	"fundx/internal/ingest/gsheets"
	"fundx/internal/security"
	"fundx/pkg/contracts/domain"
)

// SheetFetcher reads a spreadsheet range as a table
type SheetFetcher interface {
	FetchTable(ctx context.Context, spreadsheetID, readRange string) (*domain.RawTable, error)
}

// SheetSource is the configured Google Sheets range
type SheetSource struct {
	fetcher       SheetFetcher
	spreadsheetID string
	readRange     string
}

// NewSheetSource wraps fetcher for one configured range
func NewSheetSource(fetcher SheetFetcher, spreadsheetID, readRange string) *SheetSource {
	return &SheetSource{fetcher: fetcher, spreadsheetID: spreadsheetID, readRange: readRange}
}

// NewSheetSourceFromConfig builds a Sheets client from configuration. Sealed
// credential files are opened with the configured passphrase. Returns nil
// when no range is configured.
func NewSheetSourceFromConfig(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*SheetSource, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	clientCfg := gsheets.Config{APIKey: cfg.APIKey, Endpoint: cfg.Endpoint}
	if cfg.CredentialsFile != "" {
		creds, err := security.LoadCredentials(cfg.CredentialsFile, cfg.CredentialsPassphrase, logger)
		if err != nil {
			return nil, apierrors.NewConfigError("failed to load sheets credentials", err).
				WithContext("credentials_file", cfg.CredentialsFile)
		}
		clientCfg.CredentialsJSON = creds
	}

	client, err := gsheets.NewClient(ctx, clientCfg, logger)
	if err != nil {
		return nil, apierrors.NewConfigError("failed to create sheets client", err)
	}
	return NewSheetSource(client, cfg.SpreadsheetID, cfg.Range), nil
}

// Fetch reads the configured range
func (s *SheetSource) Fetch(ctx context.Context) (*domain.RawTable, error) {
	if s == nil {
		return nil, ErrSheetsDisabled
	}
	table, err := s.fetcher.FetchTable(ctx, s.spreadsheetID, s.readRange)
	if err != nil {
		return nil, apierrors.NewSourceError("failed to fetch spreadsheet range", err).
			WithContext("spreadsheet_id", s.spreadsheetID).
			WithContext("range", s.readRange)
	}
	return table, nil
}
