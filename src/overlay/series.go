package overlay

import (
	"github.com/iafilius/xcontrol/src/bands"
	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/logging"
	"github.com/iafilius/xcontrol/src/settings"
)

// GoalLineSeriesID identifies the overlay series in the chart's series list.
const GoalLineSeriesID = "goal-line"

// Model is the slice of the chart model the overlays depend on.
type Model struct {
	Dataset dataset.Dataset
	// SeriesID is the identifier of the first series; summary keys are prefixed with it.
	SeriesID     string
	Scale        ScaleTransform
	HasRightAxis bool
}

// Point is the single data point a custom series carries so the chart engine keeps it.
type Point struct {
	X dataset.XValue
	Y float64
}

// Series is a custom overlay series. RenderItem may be called any number of times per
// frame; it only reads values captured when the series was built.
//
// Data and Z describe the series to a host engine that needs a data point to keep a
// custom series alive and orders series by z. go-chart draws elements above every
// series and needs neither; the renderer reads only BlurOpacity and RenderItem.
type Series struct {
	ID          string
	Data        []Point
	Z           int
	BlurOpacity float64

	render func(cs CoordinateSystem) Group
}

// RenderItem produces the overlay primitives for the given plot area.
func (s *Series) RenderItem(cs CoordinateSystem) Group {
	if s == nil || s.render == nil || cs == nil {
		return Group{}
	}
	return s.render(cs)
}

// GoalLineSeries builds the plain goal line series, or nil when the goal is off or unset.
func GoalLineSeries(m Model, st settings.Settings, th Theme) *Series {
	if !st.ShowGoal || st.GoalValue == nil {
		return nil
	}
	goal := *st.GoalValue
	y, _ := m.Scale.apply(goal)
	scale, label := m.Scale, st.GoalLabel
	opts := Options{HasRightAxis: m.HasRightAxis}
	return &Series{
		ID:          GoalLineSeriesID,
		Data:        []Point{{X: dataset.FirstNonNullX(m.Dataset), Y: y}},
		Z:           th.ZIndex,
		BlurOpacity: th.BlurOpacity,
		render: func(cs CoordinateSystem) Group {
			return BuildGoalLine(goal, label, scale, cs, th, opts)
		},
	}
}

// ControlSeries builds the control-limit overlay from the series summary values, or nil
// when the goal is off or the center value is missing.
func ControlSeries(m Model, st settings.Settings, th Theme) *Series {
	center, deviation := dataset.Aggregates(m.Dataset, m.SeriesID)
	if !st.ShowGoal || !center.Defined() {
		if st.ShowGoal {
			logging.Debugf("[overlay] no %s for series %q; control overlay skipped", dataset.FieldCenter, m.SeriesID)
		}
		return nil
	}
	set := bands.Compute(center, deviation)
	c, _ := center.Get()
	y, _ := m.Scale.apply(c)
	scale := m.Scale
	opts := Options{ShowLabels: st.ShowBandLabels, HasRightAxis: m.HasRightAxis}
	return &Series{
		ID:          GoalLineSeriesID,
		Data:        []Point{{X: dataset.FirstNonNullX(m.Dataset), Y: y}},
		Z:           th.ZIndex,
		BlurOpacity: th.BlurOpacity,
		render: func(cs CoordinateSystem) Group {
			return BuildControl(set, scale, cs, th, opts)
		},
	}
}

// SeriesFor picks the control overlay when the custom feature is on and the goal line otherwise.
func SeriesFor(m Model, st settings.Settings, th Theme) *Series {
	if st.ShowCustom {
		return ControlSeries(m, st, th)
	}
	return GoalLineSeries(m, st, th)
}

// Limits computes the band set a ControlSeries would draw; ok is false when the series
// would be skipped.
func Limits(m Model) (bands.Set, bool) {
	center, deviation := dataset.Aggregates(m.Dataset, m.SeriesID)
	if !center.Defined() {
		return bands.Set{}, false
	}
	return bands.Compute(center, deviation), true
}
