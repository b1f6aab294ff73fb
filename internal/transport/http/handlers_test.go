package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/eda"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/files"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/middleware"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/services"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/shared/testutil"
)

type fakeAnalyzer struct {
	calls []services.AnalysisRequest
	err   error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req services.AnalysisRequest) (*services.AnalysisResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &services.AnalysisResult{
		ID:          "run-1",
		DatasetPath: req.DatasetPath,
		Report:      &eda.Report{Overview: &eda.Overview{Rows: 3}},
	}, nil
}

func newAnalysisRouter(t *testing.T, svc Analyzer) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	eh := apperrors.NewErrorHandler(logger, false)
	h := NewAnalysisHandler(svc, middleware.NewValidator(logger), eh, logger)

	r := chi.NewRouter()
	r.Mount("/api/v1/analyses", h.Routes())
	return r
}

func postJSON(r http.Handler, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestAnalysisHandler_Create(t *testing.T) {
	svc := &fakeAnalyzer{}
	r := newAnalysisRouter(t, svc)

	rec := postJSON(r, `{"dataset_path":"data/raw/comments.csv","top_n":5}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "run-1", body["id"])
	assert.Equal(t, "data/raw/comments.csv", body["dataset_path"])

	require.Len(t, svc.calls, 1)
	assert.Equal(t, 5, svc.calls[0].TopN)
	assert.Empty(t, svc.calls[0].CleanedOutput)
}

func TestAnalysisHandler_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		status      int
		code        string
	}{
		{"malformed json", `{"dataset_path":`, "application/json", http.StatusBadRequest, "INVALID_REQUEST"},
		{"empty body", ``, "application/json", http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown field", `{"dataset_path":"a.csv","cleaned_output":"x.csv"}`, "application/json", http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing path", `{}`, "application/json", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"absolute path", `{"dataset_path":"/etc/passwd.csv"}`, "application/json", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"parent path", `{"dataset_path":"../secret.csv"}`, "application/json", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unsupported extension", `{"dataset_path":"data/x.json"}`, "application/json", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"top_n out of range", `{"dataset_path":"a.csv","top_n":500}`, "application/json", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"wrong content type", `{"dataset_path":"a.csv"}`, "text/plain", http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAnalyzer{}
			rec := postJSON(newAnalysisRouter(t, svc), tt.body, tt.contentType)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			assert.Equal(t, tt.code, body["error_code"])
			assert.Equal(t, float64(tt.status), body["status"])
			assert.Equal(t, "/api/v1/analyses", body["instance"])
			assert.Empty(t, svc.calls)
		})
	}
}

func TestAnalysisHandler_ValidationDetailsUseJSONNames(t *testing.T) {
	rec := postJSON(newAnalysisRouter(t, &fakeAnalyzer{}), `{"dataset_path":"a.csv","delimiter":";;"}`, "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, apperrors.TypeValidation, body["type"])
	details := body["details"].(map[string]interface{})
	errs := details["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "delimiter", errs[0].(map[string]interface{})["field"])
}

func TestAnalysisHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"dataset not found", apperrors.NewNotFoundError("data/raw/x.csv"), http.StatusNotFound, apperrors.TypeDatasetNotFound},
		{"unreadable", apperrors.NewParsingError("bad csv", nil), http.StatusUnprocessableEntity, apperrors.TypeDatasetUnreadable},
		{"missing column", apperrors.NewMissingColumnError("category"), http.StatusUnprocessableEntity, apperrors.TypeColumnMissing},
		{"cancelled", context.Canceled, http.StatusGatewayTimeout, apperrors.TypeTimeout},
		{"unexpected", assert.AnError, http.StatusInternalServerError, apperrors.TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(newAnalysisRouter(t, &fakeAnalyzer{err: tt.err}), `{"dataset_path":"a.csv"}`, "application/json")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.typ, decodeBody(t, rec)["type"])
		})
	}
}

func TestAnalysisHandler_RealService(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.RenderCharts = false
	paths := config.NewPaths(t.TempDir(), cfg.Paths)
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.GetRawPath("labelled.csv"), []byte(testutil.LabelledCommentsCSV), 0644))

	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewAnalysisService(cfg, paths, nil, nil, logger)
	r := newAnalysisRouter(t, svc)

	rec := postJSON(r, `{"dataset_path":"data/raw/labelled.csv","include_chart_data":true}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.Report.Overview.Rows)
	assert.NotEmpty(t, result.ChartData)

	rec = postJSON(r, `{"dataset_path":"data/raw/missing.csv"}`, "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default()

	t.Run("ok", func(t *testing.T) {
		paths := config.NewPaths(t.TempDir(), cfg.Paths)
		require.NoError(t, paths.EnsureDirectories())
		h := NewHealthHandler(services.NewHealthService("test", paths, logger), logger)

		rec := httptest.NewRecorder()
		h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "test", body["version"])
	})

	t.Run("degraded", func(t *testing.T) {
		paths := config.NewPaths(t.TempDir(), cfg.Paths)
		h := NewHealthHandler(services.NewHealthService("test", paths, logger), logger)

		rec := httptest.NewRecorder()
		h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
	})
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apperrors.NewErrorHandler(logger, false)

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		exposition := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# HELP up\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exposition, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "# HELP up")
	})
}

type fakeLister struct {
	files []files.FileInfo
	err   error
	match *string
}

func (f fakeLister) List(ctx context.Context, match string) ([]files.FileInfo, error) {
	if f.match != nil {
		*f.match = match
	}
	return f.files, f.err
}

func TestDatasetHandler_List(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apperrors.NewErrorHandler(logger, false)

	t.Run("ok", func(t *testing.T) {
		h := NewDatasetHandler(fakeLister{files: []files.FileInfo{{RelPath: "data/raw/a.csv", Name: "a.csv", Format: "csv"}}}, eh)
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(1), body["count"])
		first := body["datasets"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "data/raw/a.csv", first["path"])
		assert.NotContains(t, first, "Path")
	})

	t.Run("match", func(t *testing.T) {
		var got string
		h := NewDatasetHandler(fakeLister{files: []files.FileInfo{}, match: &got}, eh)
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets?match=youtube_*", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "youtube_*", got)
		assert.Equal(t, float64(0), decodeBody(t, rec)["count"])
	})

	t.Run("bad pattern", func(t *testing.T) {
		h := NewDatasetHandler(fakeLister{err: apperrors.NewAppValidationError("invalid match pattern")}, eh)
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets?match=%5B", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage error", func(t *testing.T) {
		h := NewDatasetHandler(fakeLister{err: apperrors.NewStorageError("boom", nil)}, eh)
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
