package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Sheets    SheetsConfig    `yaml:"sheets" envconfig:"SHEETS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	MaxUploadBytes int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PipelineConfig controls extraction and normalization.
type PipelineConfig struct {
	Workers      int     `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	MatchCutoff  float64 `yaml:"match_cutoff" envconfig:"MATCH_CUTOFF" validate:"gt=0,lte=1"`
	NameDrift    float64 `yaml:"name_drift" envconfig:"NAME_DRIFT" validate:"gte=0,lt=1"`
	PreviewRows  int     `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"gte=0,lte=1000"`
	MaxFileBytes int64   `yaml:"max_file_bytes" envconfig:"MAX_FILE_BYTES" validate:"gt=0"`
	Worksheet    string  `yaml:"worksheet" envconfig:"WORKSHEET"`
	CSVDelimiter string  `yaml:"csv_delimiter" envconfig:"CSV_DELIMITER" validate:"len=1"`
}

// ExportConfig controls the report files written after a run.
type ExportConfig struct {
	OutputDir string   `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	BaseName  string   `yaml:"base_name" envconfig:"BASE_NAME" validate:"required"`
	Formats   []string `yaml:"formats" envconfig:"FORMATS" validate:"dive,oneof=xlsx csv json"`
	CSVBOM    bool     `yaml:"csv_bom" envconfig:"CSV_BOM"`
}

// SheetsConfig configures the optional Google Sheets source.
type SheetsConfig struct {
	SpreadsheetID         string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	Range                 string `yaml:"range" envconfig:"RANGE" validate:"required_with=SpreadsheetID"`
	CredentialsFile       string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	CredentialsPassphrase string `yaml:"-" envconfig:"CREDENTIALS_PASSPHRASE"`
	APIKey                string `yaml:"-" envconfig:"API_KEY"`
	Endpoint              string `yaml:"endpoint" envconfig:"ENDPOINT" validate:"omitempty,url"`
}

// Enabled reports whether a spreadsheet range is configured.
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != "" && s.Range != ""
}

// TelemetryConfig controls tracing and metrics.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit YAML file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid %s: failed %q constraint (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"fundx.yaml",
		"configs/fundx.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			MaxUploadBytes: DefaultMaxUploadBytes,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/fundx.log",
		},
		Pipeline: PipelineConfig{
			Workers:      1,
			MatchCutoff:  DefaultMatchCutoff,
			NameDrift:    DefaultNameDrift,
			PreviewRows:  DefaultPreviewRows,
			MaxFileBytes: DefaultMaxFileBytes,
			CSVDelimiter: ",",
		},
		Export: ExportConfig{
			OutputDir: "reports",
			BaseName:  DefaultReportBaseName,
			Formats:   []string{"xlsx", "csv", "json"},
			CSVBOM:    true,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			MetricsEnabled: true,
		},
	}
}
