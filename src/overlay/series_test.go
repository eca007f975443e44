package overlay

import (
	"reflect"
	"testing"

	"github.com/iafilius/xcontrol/src/bands"
	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/settings"
)

func controlModel(rows dataset.Dataset) Model {
	return Model{Dataset: rows, SeriesID: "12", Scale: Linear()}
}

func enabled() settings.Settings {
	s := settings.Default()
	s.ShowGoal = true
	return s
}

func TestControlSeries_DisabledCases(t *testing.T) {
	full := dataset.Dataset{{"12:CL": 100.0, "12:STDDEV": 10.0, dataset.XAxisKey: "Mon"}}
	off := settings.Default()
	if ControlSeries(controlModel(full), off, DefaultTheme()) != nil {
		t.Fatalf("graph.show_goal off must disable the overlay")
	}
	noCL := dataset.Dataset{{"12:STDDEV": 10.0}}
	if ControlSeries(controlModel(noCL), enabled(), DefaultTheme()) != nil {
		t.Fatalf("missing CL must disable the overlay")
	}
	badCL := dataset.Dataset{{"12:CL": "abc", "12:STDDEV": 10.0}}
	if ControlSeries(controlModel(badCL), enabled(), DefaultTheme()) != nil {
		t.Fatalf("non-numeric CL must disable the overlay")
	}
	if ControlSeries(controlModel(nil), enabled(), DefaultTheme()) != nil {
		t.Fatalf("empty dataset must disable the overlay")
	}
}

func TestControlSeries_RenderItem(t *testing.T) {
	rows := dataset.Dataset{
		{"12:CL": 100.0, "12:STDDEV": 10.0, dataset.XAxisKey: nil},
		{dataset.XAxisKey: "Tue"},
	}
	s := ControlSeries(controlModel(rows), enabled(), DefaultTheme())
	if s == nil {
		t.Fatalf("expected a series")
	}
	if s.ID != GoalLineSeriesID || s.Z != DefaultTheme().ZIndex || s.BlurOpacity != DefaultBlurOpacity {
		t.Fatalf("unexpected series header %+v", s)
	}
	if len(s.Data) != 1 || s.Data[0].X.Value() != "Tue" || s.Data[0].Y != 100 {
		t.Fatalf("anchor point %+v", s.Data)
	}
	a := s.RenderItem(plot)
	b := s.RenderItem(plot)
	if a.Len() != 14 || !reflect.DeepEqual(a, b) {
		t.Fatalf("RenderItem must be repeatable: %d vs %d children", a.Len(), b.Len())
	}
	// A second plot size yields new geometry from the same series.
	small := Rect{X: 0, Y: 0, W: 100, H: 50, YMin: 0, YMax: 150}
	c := s.RenderItem(small)
	if c.Lines()[0].X2 != 100 {
		t.Fatalf("RenderItem must follow the coordinate system passed in")
	}
}

func TestControlSeries_MissingDeviation(t *testing.T) {
	rows := dataset.Dataset{{"12:CL": 50.0}}
	s := ControlSeries(controlModel(rows), enabled(), DefaultTheme())
	g := s.RenderItem(plot)
	if len(g.Lines()) != 1 || len(g.Labels()) != 1 {
		t.Fatalf("expected the center band only, got %d children", g.Len())
	}
	if s.Data[0].X.Value() != dataset.MissingX {
		t.Fatalf("x placeholder expected, got %v", s.Data[0].X.Value())
	}
}

func TestGoalLineSeries(t *testing.T) {
	m := Model{Dataset: dataset.Dataset{{dataset.XAxisKey: 3.0}}, Scale: Linear()}
	st := settings.Default()
	st.ShowCustom = false
	if GoalLineSeries(m, st, DefaultTheme()) != nil {
		t.Fatalf("goal off must yield nil")
	}
	st.ShowGoal = true
	if GoalLineSeries(m, st, DefaultTheme()) != nil {
		t.Fatalf("missing goal value must yield nil")
	}
	st = st.WithGoal(60)
	s := GoalLineSeries(m, st, DefaultTheme())
	if s == nil || s.Data[0].X.Value() != 3.0 || s.Data[0].Y != 60 {
		t.Fatalf("unexpected goal series %+v", s)
	}
	g := s.RenderItem(plot)
	if g.Len() != 2 || g.Labels()[0].Text != "Goal" {
		t.Fatalf("goal render %+v", g.Children)
	}
}

func TestSeriesFor_Dispatch(t *testing.T) {
	rows := dataset.Dataset{{"12:CL": 100.0, "12:STDDEV": 10.0}}
	m := controlModel(rows)
	st := enabled().WithGoal(5)
	if got := SeriesFor(m, st, DefaultTheme()).RenderItem(plot); got.Len() != 14 {
		t.Fatalf("custom feature on: expected control overlay, got %d children", got.Len())
	}
	st.ShowCustom = false
	if got := SeriesFor(m, st, DefaultTheme()).RenderItem(plot); got.Len() != 2 {
		t.Fatalf("custom feature off: expected goal line, got %d children", got.Len())
	}
}

func TestSeries_NilSafe(t *testing.T) {
	var s *Series
	if s.RenderItem(plot).Len() != 0 {
		t.Fatalf("nil series renders nothing")
	}
}

func TestLimits(t *testing.T) {
	set, ok := Limits(controlModel(dataset.Dataset{{"12:CL": 10.0, "12:STDDEV": 10.0}}))
	if !ok || set.Len() != 7 {
		t.Fatalf("limits got ok=%v len=%d", ok, set.Len())
	}
	if v, _ := set.Get(bands.LowerFar); v != 0 {
		t.Fatalf("LCL got %v", v)
	}
	if _, ok := Limits(controlModel(nil)); ok {
		t.Fatalf("no dataset, no limits")
	}
}
