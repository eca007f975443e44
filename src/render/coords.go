package render

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Cartesian is the overlay coordinate system of a go-chart plot: the canvas box the
// chart hands to its elements plus the y range the series were drawn with.
type Cartesian struct {
	Box    chart.Box
	YRange *chart.ContinuousRange
}

// NewCartesian maps [yMin,yMax] onto the height of box the same way go-chart maps series.
func NewCartesian(box chart.Box, yMin, yMax float64) Cartesian {
	return Cartesian{
		Box:    box,
		YRange: &chart.ContinuousRange{Min: yMin, Max: yMax, Domain: box.Height()},
	}
}

func (c Cartesian) Origin() float64 { return float64(c.Box.Left) }
func (c Cartesian) Width() float64  { return float64(c.Box.Width()) }

// Coord ignores x: overlays only need the y position of a value.
func (c Cartesian) Coord(_ any, y float64) (float64, float64) {
	if c.YRange == nil || c.YRange.GetDelta() == 0 || math.IsNaN(y) {
		return float64(c.Box.Left), math.NaN()
	}
	return float64(c.Box.Left), float64(c.Box.Bottom - c.YRange.Translate(y))
}
