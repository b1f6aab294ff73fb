package charts

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// PNGRenderer writes each chart as a PNG file named after its title.
type PNGRenderer struct {
	dir    string
	width  vg.Length
	height vg.Length
	logger *slog.Logger

	mu    sync.Mutex
	files []string
}

// NewPNGRenderer renders into dir, creating it on first use.
func NewPNGRenderer(dir string, logger *slog.Logger) *PNGRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PNGRenderer{
		dir:    dir,
		width:  8 * vg.Inch,
		height: 5 * vg.Inch,
		logger: logger.With(slog.String("component", "charts")),
	}
}

// Files returns the paths written so far, in order.
func (r *PNGRenderer) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

func (r *PNGRenderer) path(title string) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create charts directory: %w", err)
	}
	return filepath.Join(r.dir, Slug(title)+".png"), nil
}

func (r *PNGRenderer) saved(kind Kind, path string) {
	r.mu.Lock()
	r.files = append(r.files, path)
	r.mu.Unlock()
	r.logger.Info("Chart saved", slog.String("kind", string(kind)), slog.String("path", path))
}

func (r *PNGRenderer) save(p *plot.Plot, kind Kind, title string) error {
	path, err := r.path(title)
	if err != nil {
		return err
	}
	if err := p.Save(r.width, r.height, path); err != nil {
		return fmt.Errorf("failed to save %s chart: %w", kind, err)
	}
	r.saved(kind, path)
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// Bar renders a bar chart with one nominal tick per label.
func (r *PNGRenderer) Bar(c Bar) error {
	if err := validateBar(c); err != nil {
		return err
	}

	p := newPlot(c.Title, c.XLabel, c.YLabel)
	bars, err := plotter.NewBarChart(plotter.Values(c.Values), vg.Points(18))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(c.Labels...)

	if len(c.Labels) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	return r.save(p, KindBar, c.Title)
}

// Histogram renders the finite values in c.Bins buckets.
func (r *PNGRenderer) Histogram(c Histogram) error {
	values := finite(c.Values)
	if len(values) == 0 {
		return ErrEmptyChart
	}
	bins := c.Bins
	if bins <= 0 {
		bins = 10
	}

	p := newPlot(c.Title, c.XLabel, "Frequency")
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	h.FillColor = barColor
	p.Add(h)

	return r.save(p, KindHistogram, c.Title)
}

// Line renders an x/y line, with point markers when requested.
func (r *PNGRenderer) Line(c Line) error {
	if err := validateLine(c); err != nil {
		return err
	}

	p := newPlot(c.Title, c.XLabel, c.YLabel)
	xys := make(plotter.XYs, len(c.X))
	for i := range c.X {
		xys[i].X = c.X[i]
		xys[i].Y = c.Y[i]
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to build line chart: %w", err)
	}
	line.Color = barColor
	if c.Markers {
		points.Shape = draw.CircleGlyph{}
		points.Color = barColor
		p.Add(line, points)
	} else {
		p.Add(line)
	}
	p.Add(plotter.NewGrid())

	return r.save(p, KindLine, c.Title)
}

// Pie renders a pie chart with go-chart; slice labels carry their percentage.
func (r *PNGRenderer) Pie(c Pie) error {
	if err := validatePie(c); err != nil {
		return err
	}

	total := 0.0
	for _, v := range c.Values {
		total += v
	}
	values := make([]chart.Value, len(c.Values))
	for i, v := range c.Values {
		values[i] = chart.Value{
			Value: v,
			Label: fmt.Sprintf("%s (%.1f%%)", c.Labels[i], v/total*100),
		}
	}

	pie := chart.PieChart{
		Title:  c.Title,
		Width:  int(r.height.Points() * 1.5),
		Height: int(r.height.Points() * 1.5),
		Values: values,
	}

	path, err := r.path(c.Title)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := pie.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	r.saved(KindPie, path)
	return nil
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
