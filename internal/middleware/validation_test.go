package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "fundx/internal/errors"
	"fundx/internal/shared/testutil"
)

func testLogger(t *testing.T) *slog.Logger {
	logger, _ := testutil.NewTestLogger(t)
	return logger
}

type exportQuery struct {
	Preview int    `query:"preview" validate:"gte=0,lte=1000"`
	Format  string `query:"format" validate:"omitempty,oneof=xlsx csv"`
	Sheet   bool   `query:"include_sheet"`
}

func TestValidator_BindQuery(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidator(logger)

	tests := []struct {
		name      string
		url       string
		want      exportQuery
		wantField string
	}{
		{name: "defaults kept", url: "/x", want: exportQuery{Preview: 10}},
		{name: "both set", url: "/x?preview=25&format=csv", want: exportQuery{Preview: 25, Format: "csv"}},
		{name: "zero preview", url: "/x?preview=0", want: exportQuery{Preview: 0}},
		{name: "preview too large", url: "/x?preview=5000", wantField: "preview"},
		{name: "preview not a number", url: "/x?preview=ten", wantField: "preview"},
		{name: "bad format", url: "/x?format=pdf", wantField: "format"},
		{name: "sheet flag", url: "/x?include_sheet=true", want: exportQuery{Preview: 10, Sheet: true}},
		{name: "sheet flag invalid", url: "/x?include_sheet=maybe", wantField: "include_sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := exportQuery{Preview: 10}
			err := v.BindQuery(httptest.NewRequest(http.MethodGet, tt.url, nil), &q)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, q)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			switch d := apiErr.Details.(type) {
			case apierrors.ValidationError:
				assert.Equal(t, tt.wantField, d.Field)
			case apierrors.ValidationErrors:
				require.Len(t, d.Errors, 1)
				assert.Equal(t, tt.wantField, d.Errors[0].Field)
			default:
				t.Fatalf("unexpected details %T", apiErr.Details)
			}
		})
	}
}

func TestValidator_BindQuery_NonPointer(t *testing.T) {
	v := NewValidator(testLogger(t))
	assert.Error(t, v.BindQuery(httptest.NewRequest(http.MethodGet, "/", nil), exportQuery{}))
}

func TestContentTypeValidator(t *testing.T) {
	handler := apierrors.NewErrorHandler(testLogger(t), false)
	h := ContentTypeValidator(handler, "multipart/form-data")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{}"))
	r.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
