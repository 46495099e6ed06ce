// Package config provides centralized configuration management for fundx.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), optionally seeded from .env
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FUNDX_<SECTION>_<KEY>:
//
//	FUNDX_SERVER_PORT=8080
//	FUNDX_PIPELINE_WORKERS=4
//	FUNDX_LOGGING_LEVEL=debug
//	FUNDX_SHEETS_SPREADSHEET_ID=1AbC...
//
// # Configuration File
//
// The first of $FUNDX_CONFIG_FILE, ./fundx.yaml and ./configs/fundx.yaml is
// used:
//
//	pipeline:
//	  workers: 4
//	  preview_rows: 10
//	export:
//	  output_dir: reports
//	  formats: [xlsx, csv, json]
//
// # Validation
//
// Struct tags are checked with go-playground/validator after all sources are
// merged; the first failing field is reported.
package config
