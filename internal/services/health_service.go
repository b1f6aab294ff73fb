package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth represents individual check health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check reports "ok" when every data directory is present, "degraded" otherwise.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		},
		Checks: map[string]ServiceHealth{},
	}

	if s.paths == nil {
		return status
	}
	dirs := map[string]string{
		"data_dir":    s.paths.DataDir,
		"charts_dir":  s.paths.ChartsDir,
		"reports_dir": s.paths.ReportsDir,
	}
	for name, dir := range dirs {
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			status.Checks[name] = ServiceHealth{Status: "unavailable", Message: err.Error()}
			status.Status = "degraded"
		case !info.IsDir():
			status.Checks[name] = ServiceHealth{Status: "unavailable", Message: "not a directory"}
			status.Status = "degraded"
		default:
			status.Checks[name] = ServiceHealth{Status: "ok"}
		}
	}

	if status.Status != "ok" {
		s.logger.WarnContext(ctx, "Health check degraded", slog.Any("checks", status.Checks))
	}
	return status
}
