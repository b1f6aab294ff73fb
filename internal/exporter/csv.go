package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/eda"
)

// CommentTextHeader is the single column written by the comment scraper.
const CommentTextHeader = "comment_text"

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. paths may be nil, in which
// case relative file paths are used as given.
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSimpleCSV writes a CSV file with headers and records, replacing any existing file
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: headers,
		Records: records,
	})
}

// AppendToCSV appends records to an existing CSV file
func (w *CSVWriter) AppendToCSV(filePath string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Records: records,
		Append:  true,
	})
}

// WriteDataset writes ds with its header. Missing cells are written empty
// so the file reads back with the same missing values.
func (w *CSVWriter) WriteDataset(filePath string, ds *dataset.Dataset) error {
	records := ds.Records("")
	return w.WriteSimpleCSV(filePath, records[0], records[1:])
}

// WriteComments writes one comment per row under the comment_text header.
func (w *CSVWriter) WriteComments(filePath string, comments []string) error {
	stream, err := w.CreateStreamWriter(filePath, []string{CommentTextHeader})
	if err != nil {
		return err
	}
	for _, c := range comments {
		if err := stream.WriteRecord([]string{c}); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write comment: %w", err)
		}
	}
	return stream.Close()
}

// AppendComments adds comments to an existing comment_text file, creating it
// with the header when it does not exist yet.
func (w *CSVWriter) AppendComments(filePath string, comments []string) error {
	if _, err := os.Stat(w.resolvePath(filePath)); os.IsNotExist(err) {
		return w.WriteComments(filePath, comments)
	}
	records := make([][]string, len(comments))
	for i, c := range comments {
		records[i] = []string{c}
	}
	return w.AppendToCSV(filePath, records)
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// resolvePath resolves a relative path. "raw/" paths land in the raw data
// directory, everything else in the reports directory.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}

	slashed := filepath.ToSlash(filePath)
	switch {
	case strings.HasPrefix(slashed, "raw/"):
		return w.paths.GetRawPath(strings.TrimPrefix(slashed, "raw/"))
	case strings.HasPrefix(slashed, "data/"):
		return w.paths.Resolve(filePath)
	default:
		return w.paths.GetReportPath(filePath)
	}
}

// WriteDistribution writes the value counts of d as value,count,percent.
func (w *CSVWriter) WriteDistribution(filePath string, d *eda.Distribution) error {
	records := make([][]string, len(d.Counts))
	for i, c := range d.Counts {
		records[i] = []string{c.Value, formatInt(c.Count), formatFloat(c.Percent)}
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{d.Column, "count", "percent"},
		Records:   records,
		BOMPrefix: true,
	})
}
