package eda

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
)

const ruleWidth = 60

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf("\n%s\n%s\n", title, strings.Repeat("=", ruleWidth))
}

func (p *printer) table(header string, rows [][]string) {
	if p.err != nil {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	p.err = tw.Flush()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}

func summaryRows(summaries ...Summary) (string, [][]string) {
	header := "stat"
	for _, s := range summaries {
		header += "\t" + s.Column
	}
	stats := []struct {
		name string
		get  func(Summary) string
	}{
		{"count", func(s Summary) string { return fmt.Sprint(s.Count) }},
		{"mean", func(s Summary) string { return num(s.Mean) }},
		{"std", func(s Summary) string { return num(s.Std) }},
		{"min", func(s Summary) string { return num(s.Min) }},
		{"25%", func(s Summary) string { return num(s.Q25) }},
		{"50%", func(s Summary) string { return num(s.Median) }},
		{"75%", func(s Summary) string { return num(s.Q75) }},
		{"max", func(s Summary) string { return num(s.Max) }},
	}
	rows := make([][]string, len(stats))
	for i, st := range stats {
		row := []string{st.name}
		for _, s := range summaries {
			row = append(row, st.get(s))
		}
		rows[i] = row
	}
	return header, rows
}

func (p *printer) distribution(d *Distribution, percentages bool) {
	header := d.Column + "\tcount"
	if percentages {
		header += "\tpercent"
	}
	rows := make([][]string, len(d.Counts))
	for i, c := range d.Counts {
		row := []string{c.Value, fmt.Sprint(c.Count)}
		if percentages {
			row = append(row, fmt.Sprintf("%.2f", c.Percent))
		}
		rows[i] = row
	}
	p.table(header, rows)
}

// Print writes the report as human-readable sections.
func (r *Report) Print(w io.Writer) error {
	p := &printer{w: w}

	if o := r.Overview; o != nil {
		p.section("DATASET OVERVIEW")
		p.printf("Shape: (%d, %d)\n\n", o.Rows, o.Columns)
		rows := make([][]string, len(o.Names))
		for i, name := range o.Names {
			rows[i] = []string{name, o.Types[i], fmt.Sprint(o.Missing[i].Count)}
		}
		p.table("column\ttype\tmissing", rows)
	}

	if r.Target != nil {
		p.section("CLASS PERCENTAGES")
		p.distribution(r.Target, true)
	}

	if r.Subcategory != nil {
		p.section("SUBCATEGORY DISTRIBUTION")
		p.distribution(r.Subcategory, false)
	}

	if r.TextLength != nil {
		p.section("TEXT LENGTH SUMMARY")
		p.table(summaryRows(*r.TextLength))
	}

	if r.WordFrequency != nil {
		p.section("MOST FREQUENT WORDS")
		rows := make([][]string, len(r.WordFrequency))
		for i, wc := range r.WordFrequency {
			rows[i] = []string{wc.Word, fmt.Sprint(wc.Count)}
		}
		p.table("word\tcount", rows)
	}

	if r.Linguistic != nil {
		p.section("LINGUISTIC FEATURE SUMMARY")
		p.table(summaryRows(r.Linguistic.WordCount, r.Linguistic.AvgWordLength))
	}

	if r.Engagement != nil {
		p.section("ENGAGEMENT INSIGHTS (LIKES)")
		p.table(summaryRows(*r.Engagement))
	}

	if r.Language != nil {
		p.section("LANGUAGE PERCENTAGES")
		p.distribution(r.Language, true)
	}

	if pt := r.PostingTimes; pt != nil {
		p.section("PEAK POSTING TIMES (EAT, UTC+3)")
		rows := make([][]string, len(pt.ByHour))
		for i, hc := range pt.ByHour {
			rows[i] = []string{fmt.Sprintf("%02d", hc.Hour), fmt.Sprint(hc.Count)}
		}
		p.table("hour\tposts", rows)
		p.printf("\nPeak hour: %02d:00 (%d posts)\n", pt.PeakHour, pt.PeakCount)
		p.printf("Weekend posts: %d\nWeekday posts: %d\n", pt.Weekend, pt.Weekday)
		if pt.Unparseable > 0 {
			p.printf("Unparseable timestamps: %d\n", pt.Unparseable)
		}
	}

	if kf := r.Findings; kf != nil {
		p.section("KEY FINDINGS SUMMARY")
		p.printf("Total Samples: %d\n", kf.TotalSamples)
		if kf.TopCategory != "" {
			p.printf("Top Category: %s\n", kf.TopCategory)
		}
		if kf.TopSentiment != "" {
			p.printf("Top Sentiment: %s\n", kf.TopSentiment)
		}
		if kf.TopLanguage != "" {
			p.printf("Most Common Language: %s\n", kf.TopLanguage)
		}
		if kf.AvgTextLength != nil {
			p.printf("Average Text Length: %.2f characters\n", *kf.AvgTextLength)
		}
	}

	if len(r.Skipped) > 0 {
		p.section("SKIPPED")
		for _, s := range r.Skipped {
			p.printf("%s: %s\n", s.Analysis, s.Reason)
		}
	}

	return p.err
}
