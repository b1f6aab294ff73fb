package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/exporter"
)

// Loader reads a labelled comment file and cleans it in place. It owns at
// most one Dataset; hand copies to other components with Snapshot.
type Loader struct {
	path   string
	read   dataset.ReadOptions
	rules  []LabelRule
	logger *slog.Logger
	data   *dataset.Dataset
}

// Option configures a Loader.
type Option func(*Loader)

// WithReadOptions sets the delimiter and missing-value markers used by Load.
func WithReadOptions(opts dataset.ReadOptions) Option {
	return func(l *Loader) { l.read = opts }
}

// WithLabelRules replaces DefaultLabelRules.
func WithLabelRules(rules []LabelRule) Option {
	return func(l *Loader) { l.rules = rules }
}

// New creates a loader for path. Nothing is read until Load.
func New(path string, logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		path:   path,
		rules:  DefaultLabelRules,
		logger: logger.With(slog.String("component", "loader")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromDataset creates a loader that already owns ds.
func FromDataset(ds *dataset.Dataset, logger *slog.Logger, opts ...Option) *Loader {
	l := New("", logger, opts...)
	l.data = ds
	return l
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load parses the file into the Dataset. On failure the previous state is
// kept untouched and nothing partial is stored.
func (l *Loader) Load(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := dataset.ReadFile(ctx, l.path, l.read)
	if err != nil {
		l.logger.ErrorContext(ctx, "Error loading dataset",
			slog.String("path", l.path),
			slog.String("error", err.Error()))
		return nil, loadError(l.path, err)
	}

	l.data = ds
	l.logger.InfoContext(ctx, "Dataset loaded successfully",
		slog.String("path", l.path),
		slog.Int("rows", ds.Nrow()),
		slog.Int("columns", ds.Ncol()))
	return ds, nil
}

func loadError(path string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return apperrors.NewAppError(apperrors.ErrTypeNotFound, fmt.Sprintf("dataset %s not found", path), err).
			WithContext("resource", path)
	default:
		return apperrors.NewParsingError(fmt.Sprintf("failed to read dataset %s", path), err).
			WithContext("resource", path)
	}
}

// Dataset returns the loaded dataset.
func (l *Loader) Dataset() (*dataset.Dataset, error) {
	if l.data == nil {
		return nil, apperrors.NewNotLoadedError("dataset")
	}
	return l.data, nil
}

// Snapshot returns a deep copy of the loaded dataset.
func (l *Loader) Snapshot() (*dataset.Dataset, error) {
	ds, err := l.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Copy(), nil
}

// requireLoaded logs and returns ErrNotLoaded when nothing has been loaded.
func (l *Loader) requireLoaded(operation string) error {
	if l.data != nil {
		return nil
	}
	l.logger.Warn("Load data first", slog.String("operation", operation))
	return apperrors.NewNotLoadedError(operation)
}

// requireColumn logs a diagnostic and returns ErrColumnNotFound when column is absent.
func (l *Loader) requireColumn(column string) error {
	if l.data.HasColumn(column) {
		return nil
	}
	l.logger.Info("Column not found", slog.String("column", column))
	return apperrors.NewMissingColumnError(column)
}

// StandardizeColumnNames lowercases and sanitises every column name.
func (l *Loader) StandardizeColumnNames() (*dataset.Dataset, error) {
	if err := l.requireLoaded("standardize_column_names"); err != nil {
		return nil, err
	}

	names := StandardizeNames(l.data.Names())
	if err := l.data.SetNames(names); err != nil {
		return nil, fmt.Errorf("standardize column names: %w", err)
	}

	l.logger.Info("Column names standardized", slog.Any("columns", names))
	return l.data, nil
}

// DropColumns removes the named columns; unknown names are ignored.
func (l *Loader) DropColumns(names ...string) (*dataset.Dataset, error) {
	if err := l.requireLoaded("drop_columns"); err != nil {
		return nil, err
	}

	dropped := l.data.Drop(names...)
	l.logger.Info("Dropped columns",
		slog.Any("requested", names),
		slog.Any("dropped", dropped),
		slog.Int("rows", l.data.Nrow()),
		slog.Int("columns", l.data.Ncol()))
	return l.data, nil
}

// CleanBracketedLabel strips [..] annotations from column, e.g.
// "[Offensive] Non-personal" becomes "Non-personal".
func (l *Loader) CleanBracketedLabel(column string) (*dataset.Dataset, error) {
	if err := l.requireLoaded("clean_bracketed_label"); err != nil {
		return nil, err
	}
	if err := l.requireColumn(column); err != nil {
		return nil, err
	}

	if err := l.mapColumn(column, stripBrackets); err != nil {
		return nil, err
	}
	l.logger.Info("Cleaned column", slog.String("column", column))
	return l.data, nil
}

// CanonicalizeLabel rewrites known label variants in column using the
// loader's rule table.
func (l *Loader) CanonicalizeLabel(column string) (*dataset.Dataset, error) {
	if err := l.requireLoaded("canonicalize_label"); err != nil {
		return nil, err
	}
	if err := l.requireColumn(column); err != nil {
		return nil, err
	}

	rules := l.rules
	if err := l.mapColumn(column, func(s string) string { return applyRules(rules, s) }); err != nil {
		return nil, err
	}
	l.logger.Info("Cleaned column", slog.String("column", column))
	return l.data, nil
}

// mapColumn rewrites every present cell of column as text. Missing cells stay missing.
func (l *Loader) mapColumn(column string, fn func(string) string) error {
	values, missing, _ := l.data.Strings(column)
	out := make([]*string, len(values))
	for i, v := range values {
		if missing[i] {
			continue
		}
		mapped := fn(v)
		out[i] = &mapped
	}
	if err := l.data.SetColumn(dataset.StringColumn(column, out)); err != nil {
		return fmt.Errorf("rewrite column %q: %w", column, err)
	}
	return nil
}

// Info describes the current dataset.
type Info struct {
	Rows    int                   `json:"rows"`
	Columns int                   `json:"columns"`
	Names   []string              `json:"names"`
	Types   []string              `json:"types"`
	Missing []dataset.ColumnCount `json:"missing"`
}

// Info reports shape, names, types and per-column missing counts.
func (l *Loader) Info() (*Info, error) {
	if err := l.requireLoaded("info"); err != nil {
		return nil, err
	}

	info := &Info{
		Rows:    l.data.Nrow(),
		Columns: l.data.Ncol(),
		Names:   l.data.Names(),
		Types:   l.data.Types(),
		Missing: l.data.MissingCounts(),
	}
	l.logger.Info("Data info",
		slog.Int("rows", info.Rows),
		slog.Int("columns", info.Columns),
		slog.Any("names", info.Names),
		slog.Any("types", info.Types))
	return info, nil
}

// Shape returns the row and column counts.
func (l *Loader) Shape() (rows, cols int, err error) {
	if err := l.requireLoaded("shape"); err != nil {
		return 0, 0, err
	}
	l.logger.Info("Current shape", slog.Int("rows", l.data.Nrow()), slog.Int("columns", l.data.Ncol()))
	return l.data.Nrow(), l.data.Ncol(), nil
}

// ReportMissing returns the missing count of every column.
func (l *Loader) ReportMissing() ([]dataset.ColumnCount, error) {
	if err := l.requireLoaded("report_missing"); err != nil {
		return nil, err
	}

	missing := l.data.MissingCounts()
	attrs := make([]any, 0, len(missing))
	for _, m := range missing {
		attrs = append(attrs, slog.Int(m.Column, m.Count))
	}
	l.logger.Info("Missing values", slog.Group("missing", attrs...))
	return missing, nil
}

// DropMissingRows removes every row holding a missing value and returns how
// many were removed.
func (l *Loader) DropMissingRows() (int, error) {
	if err := l.requireLoaded("drop_missing_rows"); err != nil {
		return 0, err
	}

	original := l.data.Nrow()
	keep := make([]int, 0, original)
	for i, hasMissing := range l.data.RowsWithMissing() {
		if !hasMissing {
			keep = append(keep, i)
		}
	}
	if len(keep) != original {
		if err := l.data.Subset(keep); err != nil {
			return 0, err
		}
	}

	removed := original - l.data.Nrow()
	l.logger.Info("Dropped rows with missing values",
		slog.Int("removed", removed),
		slog.Int("rows", l.data.Nrow()),
		slog.Int("columns", l.data.Ncol()))
	return removed, nil
}

// duplicateMask marks every row that repeats an earlier row on subset
// (all columns when subset is empty).
func (l *Loader) duplicateMask(subset []string) ([]bool, error) {
	for _, column := range subset {
		if err := l.requireColumn(column); err != nil {
			return nil, err
		}
	}
	keys, err := l.data.RowKeys(subset...)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(keys))
	mask := make([]bool, len(keys))
	for i, k := range keys {
		if seen[k] {
			mask[i] = true
			continue
		}
		seen[k] = true
	}
	return mask, nil
}

// ReportDuplicates counts rows that repeat an earlier row, optionally
// comparing only the subset columns.
func (l *Loader) ReportDuplicates(subset ...string) (int, error) {
	if err := l.requireLoaded("report_duplicates"); err != nil {
		return 0, err
	}
	mask, err := l.duplicateMask(subset)
	if err != nil {
		return 0, err
	}

	count := countTrue(mask)
	l.logger.Info("Duplicate rows", slog.Int("duplicates", count), slog.Any("subset", subset))
	return count, nil
}

// DropDuplicates removes repeated rows keeping the first occurrence and
// returns how many were removed.
func (l *Loader) DropDuplicates(subset ...string) (int, error) {
	if err := l.requireLoaded("drop_duplicates"); err != nil {
		return 0, err
	}
	mask, err := l.duplicateMask(subset)
	if err != nil {
		return 0, err
	}

	count := countTrue(mask)
	if count == 0 {
		l.logger.Info("No duplicate rows found")
		return 0, nil
	}

	keep := make([]int, 0, len(mask)-count)
	for i, dup := range mask {
		if !dup {
			keep = append(keep, i)
		}
	}
	if err := l.data.Subset(keep); err != nil {
		return 0, err
	}

	l.logger.Info("Removed duplicate rows",
		slog.Int("removed", count),
		slog.Int("rows", l.data.Nrow()),
		slog.Int("columns", l.data.Ncol()))
	return count, nil
}

// Save writes the dataset to path, as a workbook for .xlsx paths and as CSV
// otherwise.
func (l *Loader) Save(path string) error {
	if err := l.requireLoaded("save"); err != nil {
		return err
	}
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = exporter.NewWorkbookWriter(nil, l.logger).WriteDataset(path, l.data)
	} else {
		err = exporter.NewCSVWriter(nil, l.logger).WriteDataset(path, l.data)
	}
	if err != nil {
		return apperrors.NewStorageError("failed to save dataset", err).WithContext("resource", path)
	}
	l.logger.Info("Dataset saved", slog.String("path", path), slog.Int("rows", l.data.Nrow()))
	return nil
}

func countTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}
