// Package services implements the business logic between the HTTP handlers
// and the extraction pipeline.
//
// ExtractionService runs a batch of uploaded documents (plus, on request, the
// configured Google Sheets range) through the pipeline, trims the preview and
// writes exports. HealthService answers liveness, readiness and version
// probes.
//
// Services take a *slog.Logger and return errors that the HTTP layer maps to
// problem responses: exporter.ErrNoData becomes 422, source failures are
// *errors.AppError values of type SOURCE.
package services
