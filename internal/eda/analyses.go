package eda

import (
	"fmt"
	"log/slog"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/charts"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
)

// Overview describes the shape, names, types and missing counts of the data.
type Overview struct {
	Rows    int                   `json:"rows"`
	Columns int                   `json:"columns"`
	Names   []string              `json:"names"`
	Types   []string              `json:"types"`
	Missing []dataset.ColumnCount `json:"missing"`
}

// Overview reports the dataset's shape, columns, types and missing values.
func (a *Analyzer) Overview() (*Overview, error) {
	if err := a.require("overview", ""); err != nil {
		return nil, err
	}
	o := &Overview{
		Rows:    a.data.Nrow(),
		Columns: a.data.Ncol(),
		Names:   a.data.Names(),
		Types:   a.data.Types(),
		Missing: a.data.MissingCounts(),
	}
	a.logger.Info("Dataset overview", slog.Int("rows", o.Rows), slog.Int("columns", o.Columns))
	return o, nil
}

func (a *Analyzer) distribution(column string) *Distribution {
	values, missing, _ := a.data.Strings(column)
	counts := valueCounts(values, missing)
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return &Distribution{Column: column, Total: total, Counts: counts}
}

func barOf(title, xLabel string, counts []ValueCount) charts.Bar {
	b := charts.Bar{Title: title, XLabel: xLabel, YLabel: "count"}
	for _, c := range counts {
		b.Labels = append(b.Labels, c.Value)
		b.Values = append(b.Values, float64(c.Count))
	}
	return b
}

// TargetDistribution counts the values of column with their percentage of
// the non-missing total, and charts the counts. An empty column defaults to
// "category".
func (a *Analyzer) TargetDistribution(column string) (*Distribution, error) {
	if column == "" {
		column = DefaultTargetColumn
	}
	if err := a.require("target_distribution", column); err != nil {
		return nil, err
	}

	d := a.distribution(column)
	d.Total, d.Counts = withPercentages(d.Counts)

	title := "Distribution of " + column
	a.render(title, func() error { return a.renderer.Bar(barOf(title, column, d.Counts)) })
	a.logger.Info("Class percentages", slog.String("column", column), slog.Int("classes", len(d.Counts)))
	return d, nil
}

// SubcategoryDistribution counts the "subcategory" values and charts them.
func (a *Analyzer) SubcategoryDistribution() (*Distribution, error) {
	if err := a.require("subcategory_distribution", SubcategoryColumn); err != nil {
		return nil, err
	}

	d := a.distribution(SubcategoryColumn)
	title := "Subcategory Distribution"
	a.render(title, func() error { return a.renderer.Bar(barOf(title, SubcategoryColumn, d.Counts)) })
	return d, nil
}

// TextLengthDistribution derives text_length (characters of the text form
// of each cell) and summarises it. An empty column defaults to "text".
func (a *Analyzer) TextLengthDistribution(column string) (*Summary, error) {
	if column == "" {
		column = DefaultTextColumn
	}
	if err := a.require("text_length_distribution", column); err != nil {
		return nil, err
	}

	values, missing, _ := a.data.Strings(column)
	texts := asText(values, missing)
	lengths := make([]int, len(texts))
	lengthsF := make([]float64, len(texts))
	for i, t := range texts {
		lengths[i] = textLength(t)
		lengthsF[i] = float64(lengths[i])
	}
	if err := a.data.SetColumn(dataset.IntColumn(TextLengthColumn, lengths, nil)); err != nil {
		return nil, fmt.Errorf("text length distribution: %w", err)
	}

	a.render("Text Length Distribution", func() error {
		return a.renderer.Histogram(charts.Histogram{
			Title:  "Text Length Distribution",
			XLabel: TextLengthColumn,
			Values: lengthsF,
			Bins:   TextLengthBins,
		})
	})

	s := Describe(TextLengthColumn, lengthsF)
	a.logger.Info("Text length summary", slog.Int("count", s.Count), slog.Float64("mean", s.Mean))
	return &s, nil
}

// WordFrequency returns the topN most frequent words of column and charts
// them. Missing cells are skipped. Empty column defaults to "text", topN <= 0 to 20.
func (a *Analyzer) WordFrequency(column string, topN int) ([]WordCount, error) {
	if column == "" {
		column = DefaultTextColumn
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	if err := a.require("word_frequency", column); err != nil {
		return nil, err
	}

	values, missing, _ := a.data.Strings(column)
	texts := make([]string, 0, len(values))
	for i, v := range values {
		if !missing[i] {
			texts = append(texts, v)
		}
	}
	words := topWords(texts, topN)

	title := fmt.Sprintf("Top %d Most Frequent Words", topN)
	bar := charts.Bar{Title: title, XLabel: "word", YLabel: "count"}
	for _, w := range words {
		bar.Labels = append(bar.Labels, w.Word)
		bar.Values = append(bar.Values, float64(w.Count))
	}
	a.render(title, func() error { return a.renderer.Bar(bar) })
	return words, nil
}

// LinguisticSummary summarises the per-row word count and mean word length.
type LinguisticSummary struct {
	WordCount     Summary `json:"word_count"`
	AvgWordLength Summary `json:"avg_word_length"`
}

// LinguisticFeatures derives word_count and avg_word_length from column and
// summarises both. Empty column defaults to "text".
func (a *Analyzer) LinguisticFeatures(column string) (*LinguisticSummary, error) {
	if column == "" {
		column = DefaultTextColumn
	}
	if err := a.require("linguistic_features", column); err != nil {
		return nil, err
	}

	values, missing, _ := a.data.Strings(column)
	texts := asText(values, missing)
	counts := make([]int, len(texts))
	countsF := make([]float64, len(texts))
	avg := make([]float64, len(texts))
	for i, t := range texts {
		counts[i], avg[i] = wordStats(t)
		countsF[i] = float64(counts[i])
	}
	if err := a.data.SetColumn(dataset.IntColumn(WordCountColumn, counts, nil)); err != nil {
		return nil, fmt.Errorf("linguistic features: %w", err)
	}
	if err := a.data.SetColumn(dataset.FloatColumn(AvgWordLengthColumn, avg)); err != nil {
		return nil, fmt.Errorf("linguistic features: %w", err)
	}

	return &LinguisticSummary{
		WordCount:     Describe(WordCountColumn, countsF),
		AvgWordLength: Describe(AvgWordLengthColumn, avg),
	}, nil
}

// EngagementInsights summarises the numeric "likes" values and charts them.
// Non-numeric cells are left out of the statistics.
func (a *Analyzer) EngagementInsights() (*Summary, error) {
	if err := a.require("engagement_insights", LikesColumn); err != nil {
		return nil, err
	}

	likes, _ := a.data.Floats(LikesColumn)
	s := Describe(LikesColumn, likes)
	if s.Count < a.data.Nrow() {
		a.logger.Info("Likes values skipped",
			slog.Int("skipped", a.data.Nrow()-s.Count))
	}

	a.render("Likes Distribution", func() error {
		return a.renderer.Histogram(charts.Histogram{
			Title:  "Likes Distribution",
			XLabel: LikesColumn,
			Values: likes,
			Bins:   LikesBins,
		})
	})
	return &s, nil
}

// LanguageDistribution counts "language" values with percentages and draws a pie chart.
func (a *Analyzer) LanguageDistribution() (*Distribution, error) {
	if err := a.require("language_distribution", LanguageColumn); err != nil {
		return nil, err
	}

	d := a.distribution(LanguageColumn)
	d.Total, d.Counts = withPercentages(d.Counts)

	pie := charts.Pie{Title: "Language Distribution"}
	for _, c := range d.Counts {
		pie.Labels = append(pie.Labels, c.Value)
		pie.Values = append(pie.Values, float64(c.Count))
	}
	a.render(pie.Title, func() error { return a.renderer.Pie(pie) })
	return d, nil
}

// HourCount is the number of posts in one local hour of the day.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// PostingTimes is the posting-time profile in East Africa Time.
type PostingTimes struct {
	Column      string      `json:"column"`
	Parsed      int         `json:"parsed"`
	Unparseable int         `json:"unparseable"`
	ByHour      []HourCount `json:"by_hour"`
	PeakHour    int         `json:"peak_hour"`
	PeakCount   int         `json:"peak_count"`
	Weekend     int         `json:"weekend"`
	Weekday     int         `json:"weekday"`
}

// PeakPostingTimes parses column as timestamps, converts them to EAT and
// counts posts per local hour 0-23. Unparseable values are left out of this
// analysis only. The peak is the earliest hour with the highest count.
// Empty column defaults to "published_at".
func (a *Analyzer) PeakPostingTimes(column string) (*PostingTimes, error) {
	if column == "" {
		column = DefaultTimestampColumn
	}
	if err := a.require("peak_posting_times", column); err != nil {
		return nil, err
	}

	values, missing, _ := a.data.Strings(column)
	hours := make([]int, len(values))
	weekend := make([]bool, len(values))
	unparsed := make([]bool, len(values))

	pt := &PostingTimes{Column: column, ByHour: make([]HourCount, 24)}
	for h := range pt.ByHour {
		pt.ByHour[h].Hour = h
	}

	for i, v := range values {
		if missing[i] {
			unparsed[i] = true
			continue
		}
		t, ok := parseTimestamp(v)
		if !ok {
			unparsed[i] = true
			continue
		}
		hours[i] = t.Hour()
		weekend[i] = isWeekend(t)
		pt.ByHour[hours[i]].Count++
		if weekend[i] {
			pt.Weekend++
		} else {
			pt.Weekday++
		}
		pt.Parsed++
	}
	pt.Unparseable = len(values) - pt.Parsed

	if pt.Parsed == 0 {
		a.logger.Info("No parseable timestamps", slog.String("column", column))
		return nil, apperrors.NewNoDataError(column, fmt.Sprintf("no parseable timestamps in %q", column))
	}

	if err := a.data.SetColumn(dataset.IntColumn(HourColumn, hours, unparsed)); err != nil {
		return nil, fmt.Errorf("peak posting times: %w", err)
	}
	if err := a.data.SetColumn(dataset.BoolColumn(IsWeekendColumn, weekend, unparsed)); err != nil {
		return nil, fmt.Errorf("peak posting times: %w", err)
	}

	for _, hc := range pt.ByHour {
		if hc.Count > pt.PeakCount {
			pt.PeakHour, pt.PeakCount = hc.Hour, hc.Count
		}
	}

	line := charts.Line{
		Title:   "Posts by Hour of Day (EAT)",
		XLabel:  "hour",
		YLabel:  "posts",
		Markers: true,
	}
	for _, hc := range pt.ByHour {
		line.X = append(line.X, float64(hc.Hour))
		line.Y = append(line.Y, float64(hc.Count))
	}
	a.render(line.Title, func() error { return a.renderer.Line(line) })

	a.logger.Info("Peak posting hour",
		slog.Int("hour", pt.PeakHour),
		slog.Int("count", pt.PeakCount),
		slog.Int("unparseable", pt.Unparseable))
	return pt, nil
}

// KeyFindings is the closing summary of the analysis.
type KeyFindings struct {
	TotalSamples  int      `json:"total_samples"`
	TopCategory   string   `json:"top_category,omitempty"`
	TopSentiment  string   `json:"top_sentiment,omitempty"`
	TopLanguage   string   `json:"top_language,omitempty"`
	AvgTextLength *float64 `json:"avg_text_length,omitempty"`
}

// KeyFindings reports the row count, the most frequent category, sentiment
// and language when those columns exist, and the mean text length.
func (a *Analyzer) KeyFindings() (*KeyFindings, error) {
	if err := a.require("key_findings", ""); err != nil {
		return nil, err
	}

	kf := &KeyFindings{TotalSamples: a.data.Nrow()}
	if a.data.HasColumn(DefaultTargetColumn) {
		kf.TopCategory = a.distribution(DefaultTargetColumn).Top()
	}
	if a.data.HasColumn(SentimentColumn) {
		kf.TopSentiment = a.distribution(SentimentColumn).Top()
	}
	if a.data.HasColumn(LanguageColumn) {
		kf.TopLanguage = a.distribution(LanguageColumn).Top()
	}
	if a.data.HasColumn(DefaultTextColumn) && a.data.Nrow() > 0 {
		values, missing, _ := a.data.Strings(DefaultTextColumn)
		total := 0
		for _, t := range asText(values, missing) {
			total += textLength(t)
		}
		avg := round2(float64(total) / float64(len(values)))
		kf.AvgTextLength = &avg
	}

	a.logger.Info("Key findings",
		slog.Int("total_samples", kf.TotalSamples),
		slog.String("top_category", kf.TopCategory),
		slog.String("top_language", kf.TopLanguage))
	return kf, nil
}
