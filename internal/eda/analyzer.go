package eda

import (
	"log/slog"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/charts"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
)

// Default column names.
const (
	DefaultTargetColumn    = "category"
	DefaultTextColumn      = "text"
	DefaultTimestampColumn = "published_at"
	DefaultTopN            = 20

	SubcategoryColumn = "subcategory"
	LanguageColumn    = "language"
	SentimentColumn   = "sentiment"
	LikesColumn       = "likes"
)

// Derived column names cached on the analyzer's copy.
const (
	TextLengthColumn    = "text_length"
	WordCountColumn     = "word_count"
	AvgWordLengthColumn = "avg_word_length"
	HourColumn          = "hour"
	IsWeekendColumn     = "is_weekend"
)

// Histogram bin counts.
const (
	TextLengthBins = 50
	LikesBins      = 40
)

// Analyzer computes descriptive statistics over its own copy of a dataset.
// Derived columns are cached on that copy and never reach the caller's data.
type Analyzer struct {
	data     *dataset.Dataset
	renderer charts.Renderer
	logger   *slog.Logger
}

// New copies ds. A nil renderer discards charts.
func New(ds *dataset.Dataset, renderer charts.Renderer, logger *slog.Logger) *Analyzer {
	if renderer == nil {
		renderer = charts.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analyzer{
		renderer: renderer,
		logger:   logger.With(slog.String("component", "eda")),
	}
	if ds != nil {
		a.data = ds.Copy()
	}
	return a
}

// Dataset returns a copy of the analyzer's data including derived columns.
func (a *Analyzer) Dataset() (*dataset.Dataset, error) {
	if a.data == nil {
		return nil, apperrors.NewNotLoadedError("analyzer")
	}
	return a.data.Copy(), nil
}

func (a *Analyzer) require(operation, column string) error {
	if a.data == nil {
		a.logger.Warn("Load data first", slog.String("operation", operation))
		return apperrors.NewNotLoadedError(operation)
	}
	if column != "" && !a.data.HasColumn(column) {
		a.logger.Info("Column not found",
			slog.String("operation", operation),
			slog.String("column", column))
		return apperrors.NewMissingColumnError(column)
	}
	return nil
}

// render hands a chart to the renderer. Failures are logged and dropped.
func (a *Analyzer) render(title string, draw func() error) {
	if err := draw(); err != nil {
		a.logger.Warn("Chart not rendered",
			slog.String("title", title),
			slog.String("error", err.Error()))
	}
}
