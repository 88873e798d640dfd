package charts

import (
	"delivery-time-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	width  = 900
	height = 420
)

var (
	histogramColor = drawing.ColorFromHex("FF7F50")
	groupColor     = drawing.ColorFromHex("00BFFF")
	scatterColor   = drawing.ColorFromHex("32CD32")
)

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col,
		StrokeColor: col,
		StrokeWidth: 1,
	}
}

// Histogram renders h as a PNG bar chart.
func Histogram(w io.Writer, title string, h domain.Histogram) error {
	if len(h.Bins) == 0 {
		return fmt.Errorf("render histogram %s: no bins", h.Column)
	}

	bars := make([]chart.Value, 0, len(h.Bins))
	for i, b := range h.Bins {
		label := ""
		// Label every fifth bin to keep the axis readable.
		if i%5 == 0 || i == len(h.Bins)-1 {
			label = fmt.Sprintf("%.1f", b.Lo)
		}
		bars = append(bars, chart.Value{Value: float64(b.Count), Label: label, Style: barStyle(histogramColor)})
	}

	return renderBars(w, title, bars)
}

// GroupMeans renders one bar per category.
func GroupMeans(w io.Writer, title string, groups []domain.GroupMean) error {
	if len(groups) == 0 {
		return errors.New("render group means: no groups")
	}

	bars := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		bars = append(bars, chart.Value{Value: g.Mean, Label: g.Category, Style: barStyle(groupColor)})
	}
	return renderBars(w, title, bars)
}

// Medians renders the median of each box as a bar, labelled with the
// interquartile range.
func Medians(w io.Writer, title string, boxes []domain.BoxStats) error {
	if len(boxes) == 0 {
		return errors.New("render medians: no groups")
	}

	bars := make([]chart.Value, 0, len(boxes))
	for _, b := range boxes {
		bars = append(bars, chart.Value{
			Value: b.Median,
			Label: fmt.Sprintf("%s (IQR %.0f-%.0f)", b.Category, b.Q1, b.Q3),
			Style: barStyle(groupColor),
		})
	}
	return renderBars(w, title, bars)
}

func renderBars(w io.Writer, title string, bars []chart.Value) error {
	barWidth := max(6, (width-120)/len(bars)-4)

	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: 4,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontSize: 8},
		YAxis:      chart.YAxis{Style: chart.Style{FontSize: 8}},
		Bars:       bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart %q: %w", title, err)
	}
	return nil
}

// Trend renders the scatter with its least squares line.
func Trend(w io.Writer, title string, pts domain.Scatter, fit domain.Trendline) error {
	if len(pts.X) < 2 {
		return errors.New("render trend: need at least 2 points")
	}

	scatter := chart.ContinuousSeries{
		Name:    "observations",
		XValues: pts.X,
		YValues: pts.Y,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
			DotColor:    scatterColor,
		},
	}

	lo, hi := slices.Min(pts.X), slices.Max(pts.X)
	line := chart.ContinuousSeries{
		Name:    fmt.Sprintf("OLS: y = %.2f %+.2fx", fit.Intercept, fit.Slope),
		XValues: []float64{lo, hi},
		YValues: []float64{fit.At(lo), fit.At(hi)},
		Style:   chart.Style{StrokeColor: drawing.ColorRed, StrokeWidth: 2},
	}

	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: fit.X},
		YAxis:      chart.YAxis{Name: fit.Y},
		Series:     []chart.Series{scatter, line},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render trend %q: %w", title, err)
	}
	return nil
}
