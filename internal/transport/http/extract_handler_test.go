package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundx/internal/config"
	apierrors "fundx/internal/errors"
	"fundx/internal/exporter"
	"fundx/internal/middleware"
	"fundx/internal/pipeline"
	"fundx/internal/services"
	"fundx/internal/shared/testutil"
	api "fundx/pkg/contracts/api/v1"
)

const fundsCSV = "Fund Name,Return,AUM,Strategy\n" +
	"Alpha Fund,12.5,1000000,Equity\n" +
	"Beta Fund,-3.25,,Credit\n" +
	"Gamma Fund,1.5,500,Equity\n"

type upload struct {
	name string
	data string
}

func multipartBody(t *testing.T, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(api.MultipartField, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default()
	cfg.Export.OutputDir = t.TempDir()

	svc := services.NewExtractionService(
		pipeline.New(pipeline.OptionsFromConfig(cfg.Pipeline), logger),
		exporter.New(cfg.Export, nil, logger),
		nil,
		2,
		logger,
	)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	h := NewExtractHandler(svc, middleware.NewValidator(logger), errorHandler, logger)

	r := chi.NewRouter()
	r.Mount("/api/v1/extract", h.Routes())
	return r
}

func post(t *testing.T, router http.Handler, url string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files...)
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	return problem
}

func TestExtractHandler_Extract(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/api/v1/extract",
		upload{"funds.csv", fundsCSV},
		upload{"readme.txt", "ignored"},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.HasData)
	assert.Empty(t, resp.Message)
	assert.NotEmpty(t, resp.BatchID)

	require.Len(t, resp.Files, 2)
	assert.Equal(t, "ok", string(resp.Files[0].Status))
	assert.Equal(t, 3, resp.Files[0].Records)
	assert.Equal(t, "skipped", string(resp.Files[1].Status))

	require.Len(t, resp.Records, 3)
	assert.Equal(t, "Alpha Fund", resp.Records[0].FundName)
	assert.Nil(t, resp.Records[1].AUM)
	assert.Nil(t, resp.Records[1].NetReturnUSD)

	// Default preview is the last two records.
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, "Beta Fund", resp.Preview[0].FundName)
	assert.Equal(t, "Gamma Fund", resp.Preview[1].FundName)

	v, ok := resp.AUMByStrategy.Get("Equity")
	require.True(t, ok)
	assert.Equal(t, 1000500.0, v)
	assert.Len(t, resp.ReturnByStrategy, 2)
}

func TestExtractHandler_PreviewParam(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/api/v1/extract?preview=1", upload{"funds.csv", fundsCSV})
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Preview, 1)
	assert.Equal(t, "Gamma Fund", resp.Preview[0].FundName)

	w = post(t, router, "/api/v1/extract?preview=5000", upload{"funds.csv", fundsCSV})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, w)["type"])
}

func TestExtractHandler_NoData(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/api/v1/extract", upload{"broken.pdf", "not really a pdf"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.HasData)
	assert.Equal(t, "no data available yet", resp.Message)
	assert.Empty(t, resp.Records)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "failed", string(resp.Files[0].Status))
	assert.NotEmpty(t, resp.Files[0].Cause)

	w = post(t, router, "/api/v1/extract/export?format=csv", upload{"broken.pdf", "not really a pdf"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apierrors.TypeNoData, decodeProblem(t, w)["type"])
}

func TestExtractHandler_MissingFiles(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/api/v1/extract")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILES", decodeProblem(t, w)["error_code"])

	w = post(t, router, "/api/v1/extract?include_sheet=true")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractHandler_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestExtractHandler_Export(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/api/v1/extract/export?format=csv", upload{"funds.csv", fundsCSV})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, exporter.FormatCSV.ContentType(), w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="combined_fund_report.csv"`, w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Header().Get("X-Batch-ID"))

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(w.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exporter.CombinedHeaders, rows[0])
	assert.Equal(t, "Beta Fund", rows[2][0])
	assert.Equal(t, "", rows[2][2])

	w = post(t, router, "/api/v1/extract/export?format=xlsx", upload{"funds.csv", fundsCSV})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = post(t, router, "/api/v1/extract/export?format=pdf", upload{"funds.csv", fundsCSV})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, router, "/api/v1/extract/export", upload{"funds.csv", fundsCSV})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
