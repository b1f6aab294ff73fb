// Package services holds the application workflows shared by the command
// line tools and the HTTP API.
//
// AnalysisService runs the full pipeline for one dataset file: load, clean,
// analyse, and optionally render charts and export a workbook. Each call
// builds its own Loader and Analyzer, so a service value is safe for
// concurrent use.
//
//	svc := services.NewAnalysisService(cfg, paths, providers.Tracer, metrics, logger)
//	result, err := svc.Analyze(ctx, services.AnalysisRequest{DatasetPath: "data/raw/comments.csv"})
//
// HealthService reports liveness and the state of the data directories.
package services
