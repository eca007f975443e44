// Package render draws a dataset series and its goal/control overlay with go-chart.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/logging"
	"github.com/iafilius/xcontrol/src/overlay"
	"github.com/iafilius/xcontrol/src/settings"
	"github.com/iafilius/xcontrol/src/uihelpers"
)

// ErrNoData is returned when the series has no numeric values to plot.
var ErrNoData = errors.New("no numeric values to plot")

// Options configures a chart render.
type Options struct {
	Width, Height int
	Title         string
	// Scale names the y axis scale: linear, log, pow or sqrt.
	Scale    string
	Exponent float64
	// ValueAxisLeft draws the value axis on the left; go-chart's primary axis is on the right.
	ValueAxisLeft bool
	Blurred       bool
	// Dark paints the canvas dark and lightens axis text; pair it with overlay.DarkTheme.
	Dark  bool
	Theme overlay.Theme
	Hint  string
}

var (
	darkCanvas = drawing.Color{R: 18, G: 18, B: 18, A: 255}
	darkText   = drawing.Color{R: 200, G: 200, B: 200, A: 255}
)

// DefaultOptions returns a light-theme render at the minimum chart size.
func DefaultOptions() Options {
	w, h := uihelpers.ComputeChartDimensions(0)
	return Options{Width: w, Height: h, Scale: "linear", Theme: overlay.DefaultTheme()}
}

// pointStyle returns a line style with emphasized points.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
		DotWidth:    3,
		DotColor:    col,
	}
}

// Build assembles the go-chart chart for seriesID with the overlay selected by st.
func Build(ds dataset.Dataset, seriesID string, st settings.Settings, opts Options) (chart.Chart, error) {
	scale, err := overlay.ParseScale(opts.Scale, opts.Exponent)
	if err != nil {
		return chart.Chart{}, err
	}
	ys := ds.Series(seriesID)
	labels := ds.XLabels()
	var xs, vs []float64
	var ticks []chart.Tick
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for i, y := range ys {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: labels[i]})
		v := scale(y)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, x)
		vs = append(vs, v)
		minY, maxY = math.Min(minY, v), math.Max(maxY, v)
	}
	if len(vs) == 0 {
		return chart.Chart{}, fmt.Errorf("series %q: %w", seriesID, ErrNoData)
	}

	model := overlay.Model{Dataset: ds, SeriesID: seriesID, Scale: scale, HasRightAxis: !opts.ValueAxisLeft}
	ov := overlay.SeriesFor(model, st, opts.Theme)
	for _, v := range overlayValues(model, st, scale) {
		minY, maxY = math.Min(minY, v), math.Max(maxY, v)
	}

	nMin, nMax := uihelpers.NiceBounds(minY, maxY)
	var yTicks []chart.Tick
	for _, v := range uihelpers.BuildNumericTicks(nMin, nMax, 6) {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: uihelpers.FormatNumericTick(v)})
	}
	if len(yTicks) >= 2 {
		nMin, nMax = yTicks[0].Value, yTicks[len(yTicks)-1].Value
	}

	// Pad to at least two X values for go-chart
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		vs = append(vs, vs[0])
		ticks = append(ticks, chart.Tick{Value: xs[1], Label: ""})
	}

	series := chart.ContinuousSeries{Name: seriesID, XValues: xs, YValues: vs, Style: pointStyle(chart.ColorAlternateGray)}
	var axisStyle chart.Style
	if opts.Dark {
		axisStyle = chart.Style{FontColor: darkText, StrokeColor: darkText}
		series.Style = pointStyle(darkText)
	}
	yAxis := chart.YAxis{Name: axisName(opts.Scale), Range: &chart.ContinuousRange{Min: nMin, Max: nMax}, Ticks: yTicks, Style: axisStyle}
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Style: axisStyle,
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(ticks)) + 0.5},
		},
	}
	if opts.Dark {
		ch.Background.FillColor = darkCanvas
		ch.Canvas.FillColor = darkCanvas
		ch.TitleStyle = chart.Style{FontColor: darkText}
	}
	if opts.ValueAxisLeft {
		series.YAxis = chart.YAxisSecondary
		ch.YAxisSecondary = yAxis
		// go-chart sizes the secondary range from the primary ticks, so the hidden axis keeps them.
		ch.YAxis = chart.YAxis{Style: chart.Hidden(), Range: &chart.ContinuousRange{Min: nMin, Max: nMax}, Ticks: yTicks}
	} else {
		ch.YAxis = yAxis
	}
	ch.Series = []chart.Series{series}
	ch.Elements = []chart.Renderable{OverlayElement(ov, nMin, nMax, opts.Blurred)}
	return ch, nil
}

// overlayValues returns the plotted values of every overlay line so the y range keeps
// them inside the plot.
func overlayValues(m overlay.Model, st settings.Settings, scale overlay.ScaleTransform) []float64 {
	var raw []float64
	switch {
	case !st.ShowGoal:
	case st.ShowCustom:
		if set, ok := overlay.Limits(m); ok {
			for _, b := range set.Defined() {
				v, _ := set.Get(b)
				raw = append(raw, v)
			}
		}
	case st.GoalValue != nil:
		raw = append(raw, *st.GoalValue)
	}
	var out []float64
	for _, v := range raw {
		t := scale(v)
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			out = append(out, t)
		}
	}
	return out
}

func axisName(scale string) string {
	switch scale {
	case "", "linear":
		return ""
	default:
		return scale
	}
}

// RenderPNG writes the chart as PNG to w. Nothing is written when rendering fails.
func RenderPNG(w io.Writer, ds dataset.Dataset, seriesID string, st settings.Settings, opts Options) error {
	img, err := RenderImage(ds, seriesID, st, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

// RenderImage renders the chart to an in-memory image.
func RenderImage(ds dataset.Dataset, seriesID string, st settings.Settings, opts Options) (image.Image, error) {
	ch, err := Build(ds, seriesID, st, opts)
	if err != nil {
		return nil, err
	}
	img, err := renderImage(ch)
	if err != nil {
		return nil, err
	}
	if opts.Hint != "" {
		return DrawHint(img, opts.Hint, opts.Theme.Palette.Accent), nil
	}
	return img, nil
}

// DrawnLimits returns the codes of the control lines the overlay actually draws for
// seriesID: none when the goal or the control overlay is off, and no band the axis scale
// cannot place.
func DrawnLimits(ds dataset.Dataset, seriesID string, st settings.Settings, opts Options) []string {
	if !st.ShowGoal || !st.ShowCustom {
		return nil
	}
	scale, err := overlay.ParseScale(opts.Scale, opts.Exponent)
	if err != nil {
		return nil
	}
	m := overlay.Model{Dataset: ds, SeriesID: seriesID, Scale: scale, HasRightAxis: !opts.ValueAxisLeft}
	// Omission does not depend on the plot size; any rectangle will do.
	g := overlay.ControlSeries(m, st, opts.Theme).RenderItem(overlay.Rect{W: 1, H: 1, YMax: 1})
	var codes []string
	for _, l := range g.Lines() {
		codes = append(codes, l.Band.Code())
	}
	return codes
}

func renderImage(ch chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}

// Blank returns a white image, used in place of a chart that failed to render.
func Blank(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		w, h = uihelpers.ComputeChartDimensions(0)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// RenderOrBlank renders the chart or logs the failure and returns a blank image.
func RenderOrBlank(ds dataset.Dataset, seriesID string, st settings.Settings, opts Options) image.Image {
	img, err := RenderImage(ds, seriesID, st, opts)
	if err != nil {
		logging.Warnf("[render] chart render error: %v; showing blank fallback", err)
		return Blank(opts.Width, opts.Height)
	}
	return img
}
