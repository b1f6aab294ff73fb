package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/charts"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/eda"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/exporter"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/infrastructure"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/loader"
)

// AnalysisRequest describes one analysis run. Empty fields fall back to the
// configuration.
type AnalysisRequest struct {
	DatasetPath     string   `json:"dataset_path" validate:"required,dataset_path"`
	Delimiter       string   `json:"delimiter,omitempty" validate:"omitempty,len=1"`
	Sheet           string   `json:"sheet,omitempty" validate:"omitempty,max=31"`
	DropColumns     []string `json:"drop_columns,omitempty" validate:"omitempty,dive,required"`
	TargetColumn    string   `json:"target_column,omitempty"`
	TextColumn      string   `json:"text_column,omitempty"`
	TimestampColumn string   `json:"timestamp_column,omitempty"`
	TopN            int      `json:"top_n,omitempty" validate:"omitempty,gte=1,lte=200"`
	SkipCleaning    bool     `json:"skip_cleaning,omitempty"`
	RenderCharts    *bool    `json:"render_charts,omitempty"`
	ExportWorkbook  bool     `json:"export_workbook,omitempty"`
	IncludeCharts   bool     `json:"include_chart_data,omitempty"`

	// CleanedOutput saves the cleaned dataset. Only set by trusted callers.
	CleanedOutput string `json:"-"`
}

// AnalysisResult is the outcome of Analyze.
type AnalysisResult struct {
	ID          string               `json:"id"`
	DatasetPath string               `json:"dataset_path"`
	Cleaning    *loader.CleanSummary `json:"cleaning,omitempty"`
	Report      *eda.Report          `json:"report"`
	Charts      []string             `json:"charts,omitempty"`
	ChartData   []charts.Chart       `json:"chart_data,omitempty"`
	Workbook    string               `json:"workbook,omitempty"`
	Cleaned     string               `json:"cleaned,omitempty"`
	DurationMS  int64                `json:"duration_ms"`
}

// AnalysisService runs the load, clean and analyse pipeline.
type AnalysisService struct {
	cfg     *config.Config
	paths   *config.Paths
	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
	logger  *slog.Logger
}

// NewAnalysisService creates the service. tracer and metrics may be nil.
func NewAnalysisService(cfg *config.Config, paths *config.Paths, tracer trace.Tracer, metrics *infrastructure.AnalysisMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	return &AnalysisService{
		cfg:     cfg,
		paths:   paths,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.With(slog.String("service", "analysis")),
	}
}

// Analyze loads req.DatasetPath, cleans it unless asked not to, and runs every
// analysis. Relative paths resolve against the base directory.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (result *AnalysisResult, err error) {
	start := time.Now()
	id := uuid.New().String()
	path := s.paths.Resolve(req.DatasetPath)

	ctx, span := s.tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.String("analysis.id", id),
		attribute.String("dataset.path", req.DatasetPath),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.RecordAnalysis(ctx, filepath.Base(path), time.Since(start), err)
	}()

	logger := s.logger.With(slog.String("analysis_id", id))
	logger.InfoContext(ctx, "Analysis started", slog.String("dataset", path))

	readOpts, err := s.readOptions(req)
	if err != nil {
		return nil, err
	}

	l := loader.New(path, logger, loader.WithReadOptions(readOpts))
	ds, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RowsLoaded.Add(ctx, int64(ds.Nrow()))
	}
	span.SetAttributes(attribute.Int("dataset.rows", ds.Nrow()))

	result = &AnalysisResult{ID: id, DatasetPath: req.DatasetPath}

	if !req.SkipCleaning {
		opts := loader.CleanOptionsFromConfig(s.cfg.Dataset)
		if len(req.DropColumns) > 0 {
			opts.DropColumns = req.DropColumns
		}
		summary, err := l.Clean(ctx, opts)
		if err != nil {
			return nil, err
		}
		result.Cleaning = summary
		if s.metrics != nil {
			dropped := summary.MissingRowsDropped + summary.DuplicatesDropped
			s.metrics.RowsDropped.Add(ctx, int64(dropped),
				metric.WithAttributes(attribute.String("dataset", filepath.Base(path))))
		}
	}

	if req.CleanedOutput != "" {
		out := s.paths.Resolve(req.CleanedOutput)
		if err := l.Save(out); err != nil {
			return nil, err
		}
		result.Cleaned = out
	}

	snapshot, err := l.Snapshot()
	if err != nil {
		return nil, err
	}

	var renderers charts.Multi
	var png *charts.PNGRenderer
	var recorder *charts.Recorder
	if s.renderCharts(req) {
		png = charts.NewPNGRenderer(s.paths.GetChartPath(id), logger)
		renderers = append(renderers, png)
	}
	if req.IncludeCharts {
		recorder = charts.NewRecorder()
		renderers = append(renderers, recorder)
	}

	report, err := eda.New(snapshot, renderers, logger).Run(ctx, s.runOptions(req))
	if err != nil {
		return nil, err
	}
	result.Report = report
	if png != nil {
		result.Charts = png.Files()
	}
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"dataset.rows_analyzed": snapshot.Nrow(),
		"analysis.skipped":      len(report.Skipped),
		"analysis.charts":       len(result.Charts),
	})
	if recorder != nil {
		result.ChartData = recorder.Charts()
	}

	if req.ExportWorkbook {
		name := fmt.Sprintf("eda_report_%s.xlsx", id)
		if err := exporter.NewWorkbookWriter(s.paths, logger).WriteReport(name, report); err != nil {
			return nil, apperrors.NewStorageError("failed to export workbook", err).WithContext("resource", name)
		}
		result.Workbook = s.paths.GetReportPath(name)
	}

	result.DurationMS = time.Since(start).Milliseconds()
	logger.InfoContext(ctx, "Analysis finished",
		slog.Int("rows", snapshot.Nrow()),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int64("duration_ms", result.DurationMS))
	return result, nil
}

func (s *AnalysisService) readOptions(req AnalysisRequest) (dataset.ReadOptions, error) {
	delim := req.Delimiter
	if delim == "" {
		delim = s.cfg.Dataset.Delimiter
	}
	r, err := dataset.DelimiterFromString(delim)
	if err != nil {
		return dataset.ReadOptions{}, apperrors.NewAppValidationError(err.Error()).WithContext("field", "delimiter")
	}
	return dataset.ReadOptions{
		Delimiter: r,
		NaNValues: s.cfg.Dataset.NaNValues,
		Sheet:     req.Sheet,
	}, nil
}

func (s *AnalysisService) runOptions(req AnalysisRequest) eda.RunOptions {
	opts := eda.RunOptions{
		TargetColumn:    s.cfg.Analysis.TargetColumn,
		TextColumn:      s.cfg.Analysis.TextColumn,
		TimestampColumn: s.cfg.Analysis.TimestampColumn,
		TopN:            s.cfg.Analysis.TopN,
	}
	if req.TargetColumn != "" {
		opts.TargetColumn = req.TargetColumn
	}
	if req.TextColumn != "" {
		opts.TextColumn = req.TextColumn
	}
	if req.TimestampColumn != "" {
		opts.TimestampColumn = req.TimestampColumn
	}
	if req.TopN > 0 {
		opts.TopN = req.TopN
	}
	return opts
}

func (s *AnalysisService) renderCharts(req AnalysisRequest) bool {
	if req.RenderCharts != nil {
		return *req.RenderCharts
	}
	return s.cfg.Analysis.RenderCharts
}
