package render

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/xcontrol/src/overlay"
)

// OverlayElement returns a chart element drawing s inside the plot box. blurred applies
// the series blur opacity to every primitive.
func OverlayElement(s *overlay.Series, yMin, yMax float64, blurred bool) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		if s == nil {
			return
		}
		g := s.RenderItem(NewCartesian(canvasBox, yMin, yMax))
		if blurred && s.BlurOpacity < 1 {
			g = g.Blurred()
		}
		DrawGroup(r, g, defaults)
	}
}

// DrawGroup draws every primitive of g. Primitives with non-finite positions are skipped.
func DrawGroup(r chart.Renderer, g overlay.Group, defaults chart.Style) {
	for _, e := range g.Children {
		switch v := e.(type) {
		case *overlay.Line:
			drawLine(r, v)
		case *overlay.Label:
			drawLabel(r, v, defaults)
		}
	}
}

func drawLine(r chart.Renderer, l *overlay.Line) {
	if !finite(l.X1, l.X2, l.Y1, l.Y2) {
		return
	}
	r.ResetStyle()
	r.SetStrokeColor(l.Color)
	r.SetStrokeWidth(l.StrokeWidth)
	r.SetStrokeDashArray(l.Dash)
	r.MoveTo(px(l.X1), px(l.Y1))
	r.LineTo(px(l.X2), px(l.Y2))
	r.Stroke()
	r.ResetStyle()
}

func drawLabel(r chart.Renderer, l *overlay.Label, defaults chart.Style) {
	if l.Text == "" || !finite(l.X, l.Y) {
		return
	}
	r.ResetStyle()
	if f := defaults.GetFont(); f != nil {
		r.SetFont(f)
	}
	r.SetFontColor(l.Color)
	r.SetFontSize(l.Font.Size)
	tb := r.MeasureText(l.Text)
	x := px(l.X)
	if l.Align == overlay.AlignRight {
		x -= tb.Width()
	}
	// Label.Y is the top of the text box; go-chart draws text from its baseline.
	r.Text(l.Text, x, px(l.Y)+tb.Height())
	r.ResetStyle()
}

func px(v float64) int { return int(math.Round(v)) }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
