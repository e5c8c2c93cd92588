// Package chart renders the analysis charts to image files with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size is a chart size in inches.
type Size struct {
	Width, Height float64
}

// DefaultSize matches the 12x6 inch trend figure.
func DefaultSize() Size { return Size{Width: 12, Height: 6} }

func (s Size) lengths() (vg.Length, vg.Length) {
	w, h := s.Width, s.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultSize().Width, DefaultSize().Height
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// Line is one named series of a line chart.
type Line struct {
	Name string
	X    []float64
	Y    []float64
}

// LineChart describes a multi-series line chart with a legend.
type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	Lines  []Line
	Size   Size
}

// Save renders the chart to path; the image format follows the extension.
func (c LineChart) Save(path string) error {
	if len(c.Lines) == 0 {
		return errors.New("line chart has no series")
	}
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, l := range c.Lines {
		if len(l.X) != len(l.Y) {
			return fmt.Errorf("series %q: %d x values vs %d y values", l.Name, len(l.X), len(l.Y))
		}
		pts := make(plotter.XYs, len(l.X))
		for j := range l.X {
			pts[j].X = l.X[j]
			pts[j].Y = l.Y[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", l.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(l.Name, line)
	}
	// whole years on the x axis
	p.X.Tick.Marker = integerTicks{}
	p.Y.Min = 0

	w, h := c.Size.lengths()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// BarChart describes a single-series bar chart with named categories.
type BarChart struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	// LabelRotation is the category label angle in degrees.
	LabelRotation float64
	Size          Size
}

// Save renders the chart to path; the image format follows the extension.
func (c BarChart) Save(path string) error {
	if len(c.Values) == 0 {
		return errors.New("bar chart has no values")
	}
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("bar chart: %d labels vs %d values", len(c.Labels), len(c.Values))
	}
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	bars, err := plotter.NewBarChart(plotter.Values(c.Values), vg.Points(20))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(c.Labels...)
	if c.LabelRotation != 0 {
		p.X.Tick.Label.Rotation = c.LabelRotation * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	p.Y.Min = 0

	w, h := c.Size.lengths()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// integerTicks labels only whole numbers.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	lo, hi := math.Ceil(min), math.Floor(max)
	step := math.Max(1, math.Ceil((hi-lo)/10))
	for v := lo; v <= hi; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}
