package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version of fundx
	Version = "0.3.0"

	// ReportFormatVersion is stamped into JSON summaries; bump it when the
	// combined report columns change.
	ReportFormatVersion = "v1"

	// APIVersion is the prefix of the extraction routes
	APIVersion = "v1"
)

// Set with -ldflags "-X fundx/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// InputFormats lists the document extensions the pipeline decodes
var InputFormats = []string{"pdf", "xlsx", "csv"}

// ExportFormats lists the report formats the exporter can write
var ExportFormats = []string{"xlsx", "csv", "json"}

// VersionInfo describes the running build and what it can read and write
type VersionInfo struct {
	Version       string   `json:"version"`
	BuildTime     string   `json:"build_time"`
	GitCommit     string   `json:"git_commit"`
	GoVersion     string   `json:"go_version"`
	Platform      string   `json:"platform"`
	ReportFormat  string   `json:"report_format"`
	APIVersion    string   `json:"api_version"`
	InputFormats  []string `json:"input_formats"`
	ExportFormats []string `json:"export_formats"`
}

// GetVersionInfo returns the build description served on /api/version
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:       Version,
		BuildTime:     BuildTime,
		GitCommit:     GitCommit,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		ReportFormat:  ReportFormatVersion,
		APIVersion:    APIVersion,
		InputFormats:  append([]string(nil), InputFormats...),
		ExportFormats: append([]string(nil), ExportFormats...),
	}
}

// GetVersionString returns "fundx v<version>"
func GetVersionString() string {
	return "fundx v" + Version
}

// GetFullVersionString adds commit, build time and platform
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (commit %s, built %s, %s, %s)",
		GetVersionString(), info.GitCommit, info.BuildTime, info.GoVersion, info.Platform)
}
