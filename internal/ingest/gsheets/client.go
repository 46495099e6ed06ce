// Package gsheets reads fund tables from Google Sheets ranges.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"fundx/pkg/contracts/domain"
)

// ErrNoRange is returned when a spreadsheet id or range is missing.
var ErrNoRange = errors.New("spreadsheet id and range are required")

// Config selects how the Sheets API is reached.
type Config struct {
	// CredentialsJSON is a service-account key. Takes precedence over APIKey.
	CredentialsJSON []byte
	APIKey          string
	// Endpoint overrides the API base URL.
	Endpoint   string
	HTTPClient *http.Client
}

// Client fetches spreadsheet ranges as RawTables.
type Client struct {
	service *sheets.Service
	logger  *slog.Logger
}

// NewClient creates a read-only Sheets client.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		opts = append(opts, option.WithoutAuthentication())
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		logger:  logger.With(slog.String("component", "gsheets")),
	}, nil
}

// FetchTable reads readRange of spreadsheetID. The first row is the header.
func (c *Client) FetchTable(ctx context.Context, spreadsheetID, readRange string) (*domain.RawTable, error) {
	if spreadsheetID == "" || readRange == "" {
		return nil, ErrNoRange
	}

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to read sheet range",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("range", readRange),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("read %s!%s: %w", spreadsheetID, readRange, err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		grid[i] = cells
	}

	c.logger.InfoContext(ctx, "fetched sheet range",
		slog.String("spreadsheet_id", spreadsheetID),
		slog.String("range", resp.Range),
		slog.Int("total_rows", len(grid)),
	)

	return domain.NewRawTable(TableName(spreadsheetID, readRange), grid), nil
}

// TableName is the document name used for a sheet range in reports.
func TableName(spreadsheetID, readRange string) string {
	return "sheets:" + spreadsheetID + "/" + readRange
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(val)
	}
}
