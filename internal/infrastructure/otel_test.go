package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
)

func testTelemetryConfig() config.TelemetryConfig {
	cfg := config.Default().Telemetry
	cfg.TraceExporter = "none"
	return cfg
}

func TestOTelInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	providers, err := InitializeOTel(testTelemetryConfig(), logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_Disabled(t *testing.T) {
	cfg := testTelemetryConfig()
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter, "a no-op meter is always available")
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	cfg := testTelemetryConfig()
	cfg.EnableMetrics = true
	cfg.MetricExporter = "otlp"

	_, err := InitializeOTel(cfg, nil)
	assert.Error(t, err)
}

func TestTraceCorrelation(t *testing.T) {
	cfg := testTelemetryConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "stdout"
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestAnalysisMetrics_ExposedOnPrometheusHandler(t *testing.T) {
	providers, err := InitializeOTel(testTelemetryConfig(), nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordAnalysis(ctx, "comments.csv", 250*time.Millisecond, nil)
	metrics.CommentsFetched.Add(ctx, 7)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "analyses_total")
	assert.Contains(t, body, "analysis_duration_seconds")
	assert.Contains(t, body, "comments_fetched_total")
}

func TestAnalysisMetrics_NilIsSafe(t *testing.T) {
	var m *AnalysisMetrics
	assert.NotPanics(t, func() {
		m.RecordAnalysis(context.Background(), "x", time.Second, nil)
	})
}

func TestSpanHelpers_NonRecordingSpan(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordError(ctx, assert.AnError)
		SetSpanAttributes(ctx, map[string]interface{}{"rows": 3, "ok": true})
	})
}
