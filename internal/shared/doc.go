// Package shared holds helpers used across fundx packages that belong to no
// single layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - a buffered slog handler with assertion helpers for checking log output
//   - sample report text and spreadsheet grids with their expected records
//
// Packages under shared must not import service or transport packages.
package shared
