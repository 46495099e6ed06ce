package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Render(t *testing.T) {
	tests := []struct {
		name       string
		apiError   *APIError
		wantStatus int
	}{
		{name: "bad request", apiError: ErrInvalidRequest, wantStatus: http.StatusBadRequest},
		{name: "no data", apiError: ErrNoData, wantStatus: http.StatusUnprocessableEntity},
		{name: "payload too large", apiError: ErrPayloadTooLarge, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "export failed", apiError: ExportError("xlsx", errors.New("disk full")), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			require.NoError(t, render.Render(w, r, tt.apiError))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.apiError.ErrorCode, body.ErrorCode)
			assert.Equal(t, tt.apiError.Message, body.Message)
		})
	}
}

func TestHelpers(t *testing.T) {
	err := ErrValidation("preview", "preview must be between 0 and 1000")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, ValidationError{Field: "preview", Message: "preview must be between 0 and 1000"}, err.Details)

	inv := InvalidRequestWithError(errors.New("bad multipart"))
	assert.Equal(t, "bad multipart", inv.Details)

	exp := ExportError("csv", errors.New("boom"))
	assert.Equal(t, "Failed to export csv report", exp.Message)
	assert.Equal(t, CodeExportFailed, exp.ErrorCode)

	multi := NewValidationErrors([]ValidationError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}})
	require.IsType(t, ValidationErrors{}, multi.Details)
	assert.Len(t, multi.Details.(ValidationErrors).Errors, 2)
}

func TestAppError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewParsingError("cannot read report.pdf", cause).WithContext("file", "report.pdf")

	assert.Equal(t, "[PARSING] cannot read report.pdf: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "report.pdf", err.Context["file"])

	var target *AppError
	wrapped := errors.Join(errors.New("outer"), err)
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, ErrTypeParsing, target.Type)

	plain := NewNotFoundError("spreadsheet")
	assert.Equal(t, "[NOT_FOUND] spreadsheet not found", plain.Error())
	assert.Nil(t, plain.Unwrap())

	bare := &AppError{Type: ErrTypeConfig, Message: "bad"}
	bare.WithContext("key", 1)
	assert.Equal(t, 1, bare.Context["key"])
}

func TestAppErrorConstructors(t *testing.T) {
	tests := []struct {
		err    *AppError
		want   ErrorType
		status int
	}{
		{NewParsingError("x", nil), ErrTypeParsing, http.StatusUnprocessableEntity},
		{NewStorageError("x", nil), ErrTypeStorage, http.StatusInternalServerError},
		{NewAppValidationError("x"), ErrTypeValidation, http.StatusBadRequest},
		{NewNotFoundError("x"), ErrTypeNotFound, http.StatusNotFound},
		{NewConfigError("x", nil), ErrTypeConfig, http.StatusInternalServerError},
		{NewSourceError("x", nil), ErrTypeSource, http.StatusBadGateway},
		{&AppError{Type: "OTHER"}, "OTHER", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.True(t, IsType(fmt.Errorf("wrapped: %w", tt.err), tt.want))
		})
	}

	assert.False(t, IsType(errors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(NewParsingError("x", nil), ErrTypeSource))
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusUnprocessableEntity, TypeNoData, "Unprocessable Entity", "No data available yet", "/api/v1/extract/export").
		WithExtension("trace_id", "abc").
		WithExtension("type", "ignored")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeNoData, got["type"], "standard members win over extensions")
	assert.Equal(t, float64(422), got["status"])
	assert.Equal(t, "abc", got["trace_id"])
	assert.Equal(t, "/api/v1/extract/export", got["instance"])

	empty, err := json.Marshal(&ProblemDetails{Type: TypeInternal, Title: "x", Status: 500})
	require.NoError(t, err)
	assert.NotContains(t, string(empty), "detail")
	assert.NotContains(t, string(empty), "instance")
}
