package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/files"
)

// DatasetService lists the dataset files available for analysis.
type DatasetService struct {
	discovery *files.Discovery
	paths     *config.Paths
	logger    *slog.Logger
}

// NewDatasetService creates a dataset service rooted at paths.BaseDir.
func NewDatasetService(paths *config.Paths, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		discovery: files.NewDiscovery(paths.BaseDir),
		paths:     paths,
		logger:    logger.With(slog.String("service", "dataset")),
	}
}

// List returns the readable files in the raw data directory, oldest first.
// A non-empty match narrows the listing to names matching that glob.
// Their RelPath can be used as an AnalysisRequest.DatasetPath.
func (s *DatasetService) List(ctx context.Context, match string) ([]files.FileInfo, error) {
	var (
		found []files.FileInfo
		err   error
	)
	if match == "" {
		found, err = s.discovery.FindDatasets(s.paths.RawDir)
	} else {
		if _, perr := filepath.Match(match, ""); perr != nil {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid match pattern %q", match)).
				WithContext("resource", match)
		}
		found, err = s.discovery.FindFilesByPattern(s.paths.RawDir, match)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list datasets", err).WithContext("resource", s.paths.RawDir)
	}

	datasets := make([]files.FileInfo, 0, len(found))
	for _, f := range found {
		if files.IsDataset(f.Name) {
			datasets = append(datasets, f)
		}
	}
	s.logger.DebugContext(ctx, "Datasets listed", slog.Int("count", len(datasets)), slog.String("match", match))
	return datasets, nil
}

// Latest returns the most recently modified dataset in the raw data directory.
func (s *DatasetService) Latest(ctx context.Context) (files.FileInfo, error) {
	found, err := s.List(ctx, "")
	if err != nil {
		return files.FileInfo{}, err
	}
	latest, ok := files.GetLatestFile(found)
	if !ok {
		return files.FileInfo{}, apperrors.NewNotFoundError("dataset in " + s.paths.RawDir)
	}
	return latest, nil
}
