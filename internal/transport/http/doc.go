// Package http implements the HTTP handlers of the fundx web service.
//
// Handlers stay thin: they parse the multipart upload and query parameters,
// call the service layer and render JSON or an export attachment. Errors are
// converted to RFC 7807 problem responses by errors.ErrorHandler.
//
// # Endpoints
//
//	POST /api/v1/extract          upload documents, get records and grouped views
//	POST /api/v1/extract/export   upload documents, download xlsx, csv or json
//	GET  /api/health              liveness summary
//	GET  /api/health/ready        readiness (503 when exports are unavailable)
//	GET  /api/health/live         runtime details
//	GET  /api/version             build and format versions
//	GET  /metrics                 Prometheus exposition
//
// Uploads use the repeatable multipart field "files". A batch where no
// document yields data answers has_data=false on /extract and 422 NO_DATA on
// /extract/export.
package http
