package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fundx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
	assert.Equal(t, 0.6, cfg.Pipeline.MatchCutoff)
	assert.Equal(t, 10, cfg.Pipeline.PreviewRows)
	assert.Equal(t, "combined_fund_report", cfg.Export.BaseName)
	assert.Equal(t, []string{"xlsx", "csv", "json"}, cfg.Export.Formats)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Sheets.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
pipeline:
  workers: 4
  preview_rows: 25
export:
  output_dir: out
  formats: [xlsx]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 4, cfg.Pipeline.Workers)
				assert.Equal(t, 25, cfg.Pipeline.PreviewRows)
				assert.Equal(t, "out", cfg.Export.OutputDir)
				assert.Equal(t, []string{"xlsx"}, cfg.Export.Formats)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout, "unset keys keep defaults")
			},
		},
		{
			name: "env overrides file",
			file: "pipeline:\n  workers: 4\n",
			env: map[string]string{
				"FUNDX_PIPELINE_WORKERS":        "8",
				"FUNDX_LOGGING_LEVEL":           "debug",
				"FUNDX_SERVER_READ_TIMEOUT":     "5s",
				"FUNDX_SHEETS_SPREADSHEET_ID":   "abc",
				"FUNDX_SHEETS_RANGE":            "Funds!A1:D50",
				"FUNDX_EXPORT_FORMATS":          "csv,json",
				"FUNDX_SECURITY_RATE_LIMIT_RPS": "5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8, cfg.Pipeline.Workers)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.True(t, cfg.Sheets.Enabled())
				assert.Equal(t, []string{"csv", "json"}, cfg.Export.Formats)
				assert.Equal(t, 5.0, cfg.Security.RateLimit.RPS)
			},
		},
		{
			name:    "invalid worker count",
			env:     map[string]string{"FUNDX_PIPELINE_WORKERS": "0"},
			wantErr: "Workers",
		},
		{
			name:    "invalid export format",
			file:    "export:\n  formats: [pdf]\n",
			wantErr: "Formats",
		},
		{
			name:    "spreadsheet id without range",
			env:     map[string]string{"FUNDX_SHEETS_SPREADSHEET_ID": "abc"},
			wantErr: "Range",
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"FUNDX_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestGetConfigFilePath_Env(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 7070\n")
	t.Setenv("FUNDX_CONFIG_FILE", path)
	assert.Equal(t, path, getConfigFilePath())
}
