// Package api contains the request and response contracts of the fundx HTTP
// API. Version v1 is the current stable API version.
package api

import (
	"fundx/pkg/contracts/domain"
)

// MultipartField is the form field that carries uploaded documents
const MultipartField = "files"

// ExtractQuery holds the query parameters of POST /api/v1/extract
type ExtractQuery struct {
	Preview      int  `query:"preview" validate:"gte=0,lte=1000"`
	IncludeSheet bool `query:"include_sheet"`
}

// ExportQuery holds the query parameters of POST /api/v1/extract/export
type ExportQuery struct {
	Format       string `query:"format" validate:"required,oneof=xlsx csv json"`
	IncludeSheet bool   `query:"include_sheet"`
}

// ExtractResponse is the body returned for an extraction batch
type ExtractResponse struct {
	BatchID    string                  `json:"batch_id"`
	HasData    bool                    `json:"has_data"`
	Message    string                  `json:"message,omitempty"`
	Files      []domain.FileReport     `json:"files"`
	Records    []domain.CombinedRecord `json:"records"`
	Preview    []domain.CombinedRecord `json:"preview"`
	DurationMS int64                   `json:"duration_ms"`

	ReturnByFund       domain.GroupedView `json:"return_by_fund,omitempty"`
	AUMByStrategy      domain.GroupedView `json:"aum_by_strategy,omitempty"`
	ReturnByStrategy   domain.GroupedView `json:"return_by_strategy,omitempty"`
	NearDuplicateFunds []domain.NamePair  `json:"near_duplicate_funds,omitempty"`
}
