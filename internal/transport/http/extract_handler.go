package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fundx/internal/errors"
	"fundx/internal/exporter"
	"fundx/internal/middleware"
	"fundx/internal/pipeline"
	"fundx/internal/services"
	api "fundx/pkg/contracts/api/v1"
	"fundx/pkg/contracts/domain"
)

// multipartMemory is the part of an upload kept in memory before spilling
// to temporary files
const multipartMemory = 32 << 20

// noDataMessage is returned when no uploaded document produced data
const noDataMessage = "no data available yet"

// ExtractionServiceInterface defines the extraction operations used by the handler
type ExtractionServiceInterface interface {
	Extract(ctx context.Context, req services.ExtractRequest) (*services.Extraction, error)
	Export(ctx context.Context, req services.ExtractRequest, format exporter.Format, w io.Writer) (*services.Extraction, error)
	FileName(format exporter.Format) string
	PreviewRows() int
}

// ExtractHandler handles document upload and extraction requests
type ExtractHandler struct {
	service      ExtractionServiceInterface
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewExtractHandler creates a new extract handler
func NewExtractHandler(service ExtractionServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ExtractHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "extract")),
	}
}

// Routes returns the extraction routes
func (h *ExtractHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))

	r.Post("/", h.Extract)
	r.Post("/export", h.Export)
	return r
}

// Extract handles POST /api/v1/extract
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	query := api.ExtractQuery{Preview: h.service.PreviewRows()}
	if err := h.validator.BindQuery(r, &query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	docs, err := h.readDocuments(r, query.IncludeSheet)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	extraction, err := h.service.Extract(r.Context(), services.ExtractRequest{
		Documents:    docs,
		Preview:      query.Preview,
		IncludeSheet: query.IncludeSheet,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err))
		return
	}

	render.JSON(w, r, newExtractResponse(extraction))
}

// Export handles POST /api/v1/extract/export
func (h *ExtractHandler) Export(w http.ResponseWriter, r *http.Request) {
	var query api.ExportQuery
	if err := h.validator.BindQuery(r, &query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := exporter.ParseFormat(query.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	docs, err := h.readDocuments(r, query.IncludeSheet)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Buffered so a failed export can still be answered with a problem.
	var buf bytes.Buffer
	extraction, err := h.service.Export(r.Context(), services.ExtractRequest{
		Documents:    docs,
		IncludeSheet: query.IncludeSheet,
	}, format, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapExportError(format, err))
		return
	}

	h.logger.InfoContext(r.Context(), "Export served",
		slog.String("batch_id", extraction.BatchID),
		slog.String("format", string(format)),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.service.FileName(format)))
	w.Header().Set("X-Batch-ID", extraction.BatchID)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// readDocuments reads every part of the files field into memory. An empty
// field is accepted only when the spreadsheet range supplies the data.
func (h *ExtractHandler) readDocuments(r *http.Request, allowEmpty bool) ([]pipeline.Document, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, maxErr
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[api.MultipartField]
	if len(headers) == 0 && !allowEmpty {
		return nil, apierrors.ErrMissingFiles
	}

	docs := make([]pipeline.Document, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, apierrors.InvalidRequestWithError(err)
		}
		docs = append(docs, pipeline.FromBytes(filepath.Base(fh.Filename), data))
	}

	h.logger.DebugContext(r.Context(), "Documents received", slog.Int("count", len(docs)))
	return docs, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *ExtractHandler) mapError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoDocuments):
		return apierrors.ErrMissingFiles
	case errors.Is(err, services.ErrSheetsDisabled):
		return apierrors.ErrValidation("include_sheet", "No spreadsheet range is configured")
	case errors.Is(err, exporter.ErrNoData):
		return apierrors.ErrNoData
	default:
		return err
	}
}

func (h *ExtractHandler) mapExportError(format exporter.Format, err error) error {
	if mapped := h.mapError(err); mapped != err {
		return mapped
	}

	var apiErr *apierrors.APIError
	var appErr *apierrors.AppError
	switch {
	case errors.As(err, &apiErr), errors.As(err, &appErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return apierrors.ExportError(string(format), err)
	}
}

func newExtractResponse(e *services.Extraction) api.ExtractResponse {
	resp := api.ExtractResponse{
		BatchID:    e.BatchID,
		HasData:    e.HasData(),
		Files:      e.Reports,
		Records:    []domain.CombinedRecord{},
		Preview:    []domain.CombinedRecord{},
		DurationMS: e.Duration.Milliseconds(),
	}
	if !resp.HasData {
		resp.Message = noDataMessage
		return resp
	}

	d := e.Dataset
	if len(d.Records) > 0 {
		resp.Records = d.Records
	}
	if len(e.Preview) > 0 {
		resp.Preview = e.Preview
	}
	resp.ReturnByFund = d.ReturnByFund
	resp.AUMByStrategy = d.AUMByStrategy
	resp.ReturnByStrategy = d.ReturnByStrategy
	resp.NearDuplicateFunds = d.NearDuplicateFunds
	return resp
}
