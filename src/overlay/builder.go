// Package overlay turns goal and control-limit values into pixel-space lines and labels
// for a cartesian chart.
//
// Builders are pure: they read only their arguments, return a fresh Group per call and
// never fail. Values that cannot be placed (undefined bands, values the axis scale cannot
// represent) are left out of the Group instead of being reported.
package overlay

import (
	"github.com/iafilius/xcontrol/src/bands"
)

// Options controls label text and placement.
type Options struct {
	// ShowLabels writes band codes into labels; otherwise labels carry empty text.
	ShowLabels bool
	// HasRightAxis is set when the chart draws a value axis on the right side.
	HasRightAxis bool
}

// BuildGoalLine draws a single full-width goal line at goal with text above it.
func BuildGoalLine(goal float64, text string, scale ScaleTransform, cs CoordinateSystem, th Theme, opts Options) Group {
	v, ok := scale.apply(goal)
	if !ok {
		return Group{}
	}
	_, y := cs.Coord(nil, v)
	align, labelX := labelAnchor(cs, opts.HasRightAxis)
	color := th.Palette.Neutral
	return Group{Children: []Element{
		&Line{
			X1: cs.Origin(), X2: cs.Origin() + cs.Width(),
			Y1: y, Y2: y,
			StrokeWidth: th.GoalLineWidth,
			Color:       color,
			Dash:        th.dash(),
			BlurOpacity: th.BlurOpacity,
			Band:        bands.Center,
		},
		&Label{
			X: labelX, Y: labelTop(y, th),
			Align:       align,
			Text:        text,
			Font:        th.Font,
			Color:       color,
			BlurOpacity: th.BlurOpacity,
			Band:        bands.Center,
		},
	}}
}

// BuildControl draws one line and one label for every defined band of set. Bands are
// independent: each is transformed and mapped on its own.
func BuildControl(set bands.Set, scale ScaleTransform, cs CoordinateSystem, th Theme, opts Options) Group {
	align, labelX := labelAnchor(cs, opts.HasRightAxis)
	g := Group{Children: make([]Element, 0, 2*set.Len())}
	for _, desc := range bands.Descriptors {
		raw, ok := set.Get(desc.Band)
		if !ok {
			continue
		}
		v, ok := scale.apply(raw)
		if !ok {
			continue
		}
		_, y := cs.Coord(nil, v)
		line, label := bandPrimitives(desc, y, cs, th)
		label.X, label.Align = labelX, align
		if opts.ShowLabels {
			label.Text = desc.Code
		}
		g.Children = append(g.Children, line, label)
	}
	return g
}

func bandPrimitives(desc bands.Descriptor, y float64, cs CoordinateSystem, th Theme) (*Line, *Label) {
	color := th.Palette.Color(desc.Class)
	line := &Line{
		X1: cs.Origin(), X2: cs.Origin() + cs.Width(),
		Y1: y, Y2: y,
		StrokeWidth: th.BandLineWidth,
		Color:       color,
		Dash:        th.dash(),
		BlurOpacity: th.BlurOpacity,
		Band:        desc.Band,
	}
	label := &Label{
		Y:           labelTop(y, th),
		Font:        th.Font,
		Color:       color,
		BlurOpacity: th.BlurOpacity,
		Band:        desc.Band,
	}
	return line, label
}

// labelTop places the label box so its bottom sits LabelMargin above the line.
func labelTop(y float64, th Theme) float64 {
	return y - th.Font.Size - th.LabelMargin
}
