package loader

import (
	"context"
	"log/slog"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
)

// CleanOptions selects the cleaning steps run by Clean. Empty column names skip a step.
type CleanOptions struct {
	DropColumns     []string
	BracketedColumn string
	LanguageColumn  string
	DropMissing     bool
	DuplicateSubset []string
}

// CleanOptionsFromConfig maps the dataset section of the configuration.
func CleanOptionsFromConfig(cfg config.DatasetConfig) CleanOptions {
	return CleanOptions{
		DropColumns:     cfg.DropColumns,
		BracketedColumn: cfg.BracketedColumn,
		LanguageColumn:  cfg.LanguageColumn,
		DropMissing:     cfg.DropMissing,
		DuplicateSubset: cfg.DuplicateSubset,
	}
}

// CleanSummary records what Clean did.
type CleanSummary struct {
	Columns            []string              `json:"columns"`
	Missing            []dataset.ColumnCount `json:"missing"`
	MissingRowsDropped int                   `json:"missing_rows_dropped"`
	DuplicatesFound    int                   `json:"duplicates_found"`
	DuplicatesDropped  int                   `json:"duplicates_dropped"`
	Rows               int                   `json:"rows"`
	Skipped            []string              `json:"skipped,omitempty"`
}

// Clean runs the standard preparation sequence on the loaded dataset:
// standardize names, drop columns, strip bracketed labels, canonicalize
// language labels, report and drop missing rows, report and drop duplicates.
// Steps whose column is absent are skipped and listed in the summary.
func (l *Loader) Clean(ctx context.Context, opts CleanOptions) (*CleanSummary, error) {
	if err := l.requireLoaded("clean"); err != nil {
		return nil, err
	}

	summary := &CleanSummary{}
	soft := func(err error) error {
		if apperrors.IsSoft(err) {
			summary.Skipped = append(summary.Skipped, err.Error())
			return nil
		}
		return err
	}

	if _, err := l.StandardizeColumnNames(); err != nil {
		return nil, err
	}
	if len(opts.DropColumns) > 0 {
		if _, err := l.DropColumns(opts.DropColumns...); err != nil {
			return nil, err
		}
	}
	if opts.BracketedColumn != "" {
		if _, err := l.CleanBracketedLabel(opts.BracketedColumn); soft(err) != nil {
			return nil, err
		}
	}
	if opts.LanguageColumn != "" {
		if _, err := l.CanonicalizeLabel(opts.LanguageColumn); soft(err) != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	missing, err := l.ReportMissing()
	if err != nil {
		return nil, err
	}
	summary.Missing = missing

	if opts.DropMissing {
		if summary.MissingRowsDropped, err = l.DropMissingRows(); err != nil {
			return nil, err
		}
	}

	found, err := l.ReportDuplicates(opts.DuplicateSubset...)
	switch {
	case err == nil:
		summary.DuplicatesFound = found
		if summary.DuplicatesDropped, err = l.DropDuplicates(opts.DuplicateSubset...); err != nil {
			return nil, err
		}
	case soft(err) != nil:
		return nil, err
	}

	summary.Columns = l.data.Names()
	summary.Rows = l.data.Nrow()

	l.logger.InfoContext(ctx, "Dataset cleaned",
		slog.Int("rows", summary.Rows),
		slog.Int("missing_rows_dropped", summary.MissingRowsDropped),
		slog.Int("duplicates_dropped", summary.DuplicatesDropped),
		slog.Int("skipped_steps", len(summary.Skipped)))
	return summary, nil
}
