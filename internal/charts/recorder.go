package charts

import "sync"

// Chart is one recorded chart.
type Chart struct {
	Kind      Kind       `json:"kind"`
	Bar       *Bar       `json:"bar,omitempty"`
	Histogram *Histogram `json:"histogram,omitempty"`
	Line      *Line      `json:"line,omitempty"`
	Pie       *Pie       `json:"pie,omitempty"`
}

// Title returns the title of whichever chart is set.
func (c Chart) Title() string {
	switch {
	case c.Bar != nil:
		return c.Bar.Title
	case c.Histogram != nil:
		return c.Histogram.Title
	case c.Line != nil:
		return c.Line.Title
	case c.Pie != nil:
		return c.Pie.Title
	}
	return ""
}

// Recorder keeps chart specs in memory.
type Recorder struct {
	mu     sync.Mutex
	charts []Chart
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(c Chart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts = append(r.charts, c)
}

// Bar records c.
func (r *Recorder) Bar(c Bar) error {
	if err := validateBar(c); err != nil {
		return err
	}
	r.add(Chart{Kind: KindBar, Bar: &c})
	return nil
}

// Histogram records c.
// Missing values are dropped so the record stays JSON-encodable.
func (r *Recorder) Histogram(c Histogram) error {
	c.Values = finite(c.Values)
	if len(c.Values) == 0 {
		return ErrEmptyChart
	}
	r.add(Chart{Kind: KindHistogram, Histogram: &c})
	return nil
}

// Line records c.
func (r *Recorder) Line(c Line) error {
	if err := validateLine(c); err != nil {
		return err
	}
	r.add(Chart{Kind: KindLine, Line: &c})
	return nil
}

// Pie records c.
func (r *Recorder) Pie(c Pie) error {
	if err := validatePie(c); err != nil {
		return err
	}
	r.add(Chart{Kind: KindPie, Pie: &c})
	return nil
}

// Charts returns a copy of everything recorded so far.
func (r *Recorder) Charts() []Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Chart, len(r.charts))
	copy(out, r.charts)
	return out
}
