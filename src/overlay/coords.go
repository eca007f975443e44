package overlay

// CoordinateSystem is the plot area of a cartesian chart as laid out by the chart engine.
type CoordinateSystem interface {
	// Origin is the left edge of the plot area in pixels.
	Origin() float64
	// Width is the plot area width in pixels.
	Width() float64
	// Coord maps an (x, y) data point to pixels. A nil x means only y matters.
	Coord(x any, y float64) (px, py float64)
}

// Rect is a linear CoordinateSystem over a pixel rectangle and a y domain. It has no x
// domain: Coord always reports the left edge for px.
type Rect struct {
	X, Y, W, H float64
	YMin, YMax float64
}

func (r Rect) Origin() float64 { return r.X }
func (r Rect) Width() float64  { return r.W }

func (r Rect) Coord(x any, y float64) (float64, float64) {
	span := r.YMax - r.YMin
	if span == 0 {
		span = 1
	}
	py := r.Y + r.H - (y-r.YMin)/span*r.H
	return r.X, py
}

// labelAnchor puts labels on the side opposite the value axis: with no right axis the
// value axis is on the left, so labels hug the right end of the line.
func labelAnchor(cs CoordinateSystem, hasRightAxis bool) (Align, float64) {
	start := cs.Origin()
	end := start + cs.Width()
	if !hasRightAxis {
		return AlignRight, end
	}
	return AlignLeft, start
}
