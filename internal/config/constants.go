package config

import "time"

// Application constants
const (
	AppName   = "fundx"
	EnvPrefix = "FUNDX"

	DefaultReportBaseName = "combined_fund_report"
	DefaultPreviewRows    = 10
	DefaultMatchCutoff    = 0.6
	DefaultNameDrift      = 0.2

	DefaultMaxFileBytes   = 50 << 20  // 50MB per document
	DefaultMaxUploadBytes = 200 << 20 // 200MB per request
	DefaultRequestTimeout = 2 * time.Minute
)
