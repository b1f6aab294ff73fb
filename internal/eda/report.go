package eda

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
)

// RunOptions names the columns used by Run. Zero values fall back to the defaults.
type RunOptions struct {
	TargetColumn    string
	TextColumn      string
	TimestampColumn string
	TopN            int
}

// Skipped records an analysis that did not produce a result.
type Skipped struct {
	Analysis string `json:"analysis"`
	Reason   string `json:"reason"`
	Resource string `json:"resource,omitempty"`
}

// Report collects the results of a full run. Analyses that were skipped
// leave their field nil and appear in Skipped.
type Report struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	Overview      *Overview          `json:"overview,omitempty"`
	Target        *Distribution      `json:"target,omitempty"`
	Subcategory   *Distribution      `json:"subcategory,omitempty"`
	TextLength    *Summary           `json:"text_length,omitempty"`
	WordFrequency []WordCount        `json:"word_frequency,omitempty"`
	Linguistic    *LinguisticSummary `json:"linguistic,omitempty"`
	Engagement    *Summary           `json:"engagement,omitempty"`
	Language      *Distribution      `json:"language,omitempty"`
	PostingTimes  *PostingTimes      `json:"posting_times,omitempty"`
	Findings      *KeyFindings       `json:"key_findings,omitempty"`
	Skipped       []Skipped          `json:"skipped,omitempty"`
}

// Run executes every analysis in order and collects the results. Missing
// columns and empty data are recorded as skipped; any other error stops the run.
func (a *Analyzer) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if err := a.require("run", ""); err != nil {
		return nil, err
	}

	report := &Report{GeneratedAt: time.Now().UTC()}

	steps := []struct {
		name string
		run  func() error
	}{
		{"overview", func() (err error) {
			report.Overview, err = a.Overview()
			return
		}},
		{"target_distribution", func() (err error) {
			report.Target, err = a.TargetDistribution(opts.TargetColumn)
			return
		}},
		{"subcategory_distribution", func() (err error) {
			report.Subcategory, err = a.SubcategoryDistribution()
			return
		}},
		{"text_length_distribution", func() (err error) {
			report.TextLength, err = a.TextLengthDistribution(opts.TextColumn)
			return
		}},
		{"word_frequency", func() (err error) {
			report.WordFrequency, err = a.WordFrequency(opts.TextColumn, opts.TopN)
			return
		}},
		{"linguistic_features", func() (err error) {
			report.Linguistic, err = a.LinguisticFeatures(opts.TextColumn)
			return
		}},
		{"engagement_insights", func() (err error) {
			report.Engagement, err = a.EngagementInsights()
			return
		}},
		{"language_distribution", func() (err error) {
			report.Language, err = a.LanguageDistribution()
			return
		}},
		{"peak_posting_times", func() (err error) {
			report.PostingTimes, err = a.PeakPostingTimes(opts.TimestampColumn)
			return
		}},
		{"key_findings", func() (err error) {
			report.Findings, err = a.KeyFindings()
			return
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := step.run()
		if err == nil {
			continue
		}
		if !apperrors.IsSoft(err) {
			a.logger.ErrorContext(ctx, "Analysis failed",
				slog.String("analysis", step.name),
				slog.String("error", err.Error()))
			return nil, err
		}

		s := Skipped{Analysis: step.name, Reason: err.Error()}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			s.Reason = appErr.Message
			s.Resource = appErr.Resource()
		}
		report.Skipped = append(report.Skipped, s)
	}

	a.logger.InfoContext(ctx, "Analysis complete", slog.Int("skipped", len(report.Skipped)))
	return report, nil
}
