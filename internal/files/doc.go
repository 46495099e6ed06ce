// Package files provides file system operations and discovery utilities
// for fund documents.
//
// This package contains two main components:
//
// Discovery: finds supported documents (.pdf, .xlsx, .csv) in a directory,
// sorted by name so runs are reproducible.
//
// Manager: reads documents with a size limit and creates output files. All
// operations are relative to a base directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/data")
//	docs, err := discovery.FindDocuments("inbox")
//
//	manager := files.NewManager("/data")
//	data, err := manager.ReadFile("inbox/funds.xlsx", 50<<20)
package files
