// Package charts renders the analyzer's figures. Chart specs are plain
// values; a Renderer decides whether they become PNG files, in-memory
// records or nothing at all.
package charts

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyChart is returned when a chart has no data to draw.
var ErrEmptyChart = errors.New("chart has no data")

// Kind names a chart type.
type Kind string

const (
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
	KindLine      Kind = "line"
	KindPie       Kind = "pie"
)

// Bar is a categorical bar chart.
type Bar struct {
	Title  string    `json:"title"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Histogram bins Values into Bins equal-width buckets.
type Histogram struct {
	Title  string    `json:"title"`
	XLabel string    `json:"x_label,omitempty"`
	Values []float64 `json:"values"`
	Bins   int       `json:"bins"`
}

// Line is an x/y series, optionally drawn with point markers.
type Line struct {
	Title   string    `json:"title"`
	XLabel  string    `json:"x_label,omitempty"`
	YLabel  string    `json:"y_label,omitempty"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Markers bool      `json:"markers"`
}

// Pie shows each label's share of the total.
type Pie struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Renderer draws charts. Implementations must be safe to call with any of the
// chart values above and report ErrEmptyChart for charts without data.
type Renderer interface {
	Bar(c Bar) error
	Histogram(c Histogram) error
	Line(c Line) error
	Pie(c Pie) error
}

// Discard drops every chart.
type Discard struct{}

func (Discard) Bar(Bar) error             { return nil }
func (Discard) Histogram(Histogram) error { return nil }
func (Discard) Line(Line) error           { return nil }
func (Discard) Pie(Pie) error             { return nil }

// Multi fans every chart out to each renderer. All renderers are called;
// their errors are joined.
type Multi []Renderer

func (m Multi) Bar(c Bar) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Bar(c))
	}
	return errors.Join(errs...)
}

func (m Multi) Histogram(c Histogram) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Histogram(c))
	}
	return errors.Join(errs...)
}

func (m Multi) Line(c Line) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Line(c))
	}
	return errors.Join(errs...)
}

func (m Multi) Pie(c Pie) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Pie(c))
	}
	return errors.Join(errs...)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a chart title into a file name stem.
func Slug(title string) string {
	s := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "_"), "_")
	if s == "" {
		return "chart"
	}
	return s
}

func validateBar(c Bar) error {
	if len(c.Labels) == 0 || len(c.Labels) != len(c.Values) {
		return ErrEmptyChart
	}
	return nil
}

func validatePie(c Pie) error {
	if len(c.Labels) == 0 || len(c.Labels) != len(c.Values) {
		return ErrEmptyChart
	}
	total := 0.0
	for _, v := range c.Values {
		total += v
	}
	if total <= 0 {
		return ErrEmptyChart
	}
	return nil
}

func validateLine(c Line) error {
	if len(c.X) == 0 || len(c.X) != len(c.Y) {
		return ErrEmptyChart
	}
	return nil
}
