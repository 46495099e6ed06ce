package services

import "errors"

// Extraction service errors
var (
	ErrNoDocuments    = errors.New("no documents to process")
	ErrSheetsDisabled = errors.New("google sheets source is not configured")
)
