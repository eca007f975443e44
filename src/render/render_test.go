package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/xcontrol/src/bands"
	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/overlay"
	"github.com/iafilius/xcontrol/src/settings"
)

func sampleDataset() dataset.Dataset {
	return dataset.Dataset{
		{dataset.XAxisKey: "Mon", "card": 98.0, "card:CL": 100.0, "card:STDDEV": 10.0},
		{dataset.XAxisKey: "Tue", "card": 104.0},
		{dataset.XAxisKey: "Wed", "card": 91.0},
		{dataset.XAxisKey: "Thu", "card": 133.0},
		{dataset.XAxisKey: "Fri", "card": 100.0},
	}
}

func goalOn() settings.Settings {
	st := settings.Default()
	st.ShowGoal = true
	return st
}

func TestCartesian_MatchesGoChartTranslation(t *testing.T) {
	box := chart.Box{Top: 10, Left: 20, Right: 620, Bottom: 310}
	c := NewCartesian(box, 0, 150)
	if c.Origin() != 20 || c.Width() != 600 {
		t.Fatalf("origin/width got %v/%v", c.Origin(), c.Width())
	}
	if _, y := c.Coord(nil, 150); y != 10 {
		t.Fatalf("max should map to the top edge, got %v", y)
	}
	if _, y := c.Coord(nil, 0); y != 310 {
		t.Fatalf("min should map to the bottom edge, got %v", y)
	}
	_, hi := c.Coord(nil, 130)
	_, lo := c.Coord(nil, 70)
	if !(hi < lo) {
		t.Fatalf("larger values must be higher on screen: y(130)=%v y(70)=%v", hi, lo)
	}
}

func TestBuild_RangeCoversControlLimits(t *testing.T) {
	ch, err := Build(sampleDataset(), "card", goalOn(), DefaultOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rng, ok := ch.YAxis.Range.(*chart.ContinuousRange)
	if !ok {
		t.Fatalf("expected ContinuousRange")
	}
	// UCL = 130, LCL = 70; the data max is 133
	if rng.Min > 70 || rng.Max < 133 {
		t.Fatalf("y range [%v,%v] clips limits or data", rng.Min, rng.Max)
	}
	if len(ch.Elements) != 1 {
		t.Fatalf("expected the overlay element, got %d elements", len(ch.Elements))
	}
}

func TestBuild_ValueAxisLeft(t *testing.T) {
	opts := DefaultOptions()
	opts.ValueAxisLeft = true
	ch, err := Build(sampleDataset(), "card", goalOn(), opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ch.YAxisSecondary.Range == nil || !ch.YAxis.Style.Hidden {
		t.Fatalf("left axis mode should use the secondary axis and hide the primary")
	}
	s := ch.Series[0].(chart.ContinuousSeries)
	if s.YAxis != chart.YAxisSecondary {
		t.Fatalf("series should be bound to the secondary axis")
	}
}

func TestBuild_NoData(t *testing.T) {
	ds := dataset.Dataset{{dataset.XAxisKey: "a", "card": "n/a"}}
	if _, err := Build(ds, "card", goalOn(), DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	img := RenderOrBlank(ds, "card", goalOn(), DefaultOptions())
	opts := DefaultOptions()
	if b := img.Bounds(); b.Dx() != opts.Width || b.Dy() != opts.Height {
		t.Fatalf("blank fallback size %v", b)
	}
}

func TestBuild_HugeValuesKeepFewTicks(t *testing.T) {
	ds := dataset.Dataset{
		{dataset.XAxisKey: "a", "big": 1e17},
		{dataset.XAxisKey: "b", "big": 1e17 + 16},
	}
	ch, err := Build(ds, "big", settings.Default(), DefaultOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if n := len(ch.YAxis.Ticks); n < 2 || n > 64 {
		t.Fatalf("tick count %d", n)
	}
}

func TestBuild_UnknownScale(t *testing.T) {
	opts := DefaultOptions()
	opts.Scale = "symlog"
	if _, err := Build(sampleDataset(), "card", goalOn(), opts); err == nil {
		t.Fatalf("expected an error for an unknown scale")
	}
}

func TestRenderPNG_Dimensions(t *testing.T) {
	for _, blurred := range []bool{false, true} {
		opts := DefaultOptions()
		opts.Width, opts.Height = 900, 320
		opts.Blurred = blurred
		opts.Hint = LimitsHint([]string{"CL", "UCL", "LCL"})
		var buf bytes.Buffer
		if err := RenderPNG(&buf, sampleDataset(), "card", goalOn(), opts); err != nil {
			t.Fatalf("render: %v", err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 900 || b.Dy() != 320 {
			t.Fatalf("unexpected size %v", b)
		}
	}
}

func TestRenderImage_OverlayChangesPixels(t *testing.T) {
	opts := DefaultOptions()
	with, err := RenderImage(sampleDataset(), "card", goalOn(), opts)
	if err != nil {
		t.Fatalf("render with overlay: %v", err)
	}
	without, err := RenderImage(sampleDataset(), "card", settings.Default(), opts)
	if err != nil {
		t.Fatalf("render without overlay: %v", err)
	}
	if countDiff(with, without) == 0 {
		t.Fatalf("overlay did not change the rendered image")
	}
}

func TestRenderImage_DarkCanvas(t *testing.T) {
	opts := DefaultOptions()
	opts.Dark = true
	opts.Theme = overlay.DarkTheme()
	img, err := RenderImage(sampleDataset(), "card", goalOn(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 > 40 || g>>8 > 40 || b>>8 > 40 {
		t.Fatalf("expected a dark corner, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func countDiff(a, b image.Image) int {
	n := 0
	r := a.Bounds().Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ar, ag, ab, _ := a.At(x, y).RGBA()
			br, bg, bb, _ := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb {
				n++
			}
		}
	}
	return n
}

func TestDrawGroup_StrokesBandColor(t *testing.T) {
	r, err := chart.PNG(200, 100)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	red := drawing.Color{R: 255, G: 0, B: 0, A: 255}
	g := overlay.Group{Children: []overlay.Element{
		&overlay.Line{X1: 10, X2: 190, Y1: 50, Y2: 50, StrokeWidth: 6, Color: red, Dash: []float64{30, 4}, Band: bands.UpperFar},
	}}
	DrawGroup(r, g, chart.Style{})
	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	cr, cg, _, _ := img.At(20, 50).RGBA()
	if cr>>8 < 200 || cg>>8 > 80 {
		t.Fatalf("expected a red pixel on the line, got r=%d g=%d", cr>>8, cg>>8)
	}
}

func TestDrawHint_KeepsBounds(t *testing.T) {
	img := Blank(300, 120)
	accent := overlay.DefaultTheme().Palette.Accent
	out := DrawHint(img, "Hint: test", accent)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("hint changed bounds")
	}
	if countDiff(img, out) == 0 {
		t.Fatalf("hint drew nothing")
	}
	if DrawHint(img, "  ", accent) != img {
		t.Fatalf("empty hint must return the input image")
	}
	// The accent stripe sits at the left edge of the box.
	r, g, b, _ := out.At(9, 110).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Fatalf("expected the accent stripe, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestDrawHint_WrapsLongText(t *testing.T) {
	img := Blank(200, 200)
	long := LimitsHint([]string{"CL", "UCLB", "UCLA", "UCL", "LCLB", "LCLA", "LCL"})
	out := DrawHint(img, long, nil)
	// A single 7px-per-glyph line would need far more than 200px; wrapped text stacks
	// lines so the box reaches well above the bottom 30 rows.
	if countDiff(img, out) == 0 {
		t.Fatalf("hint drew nothing")
	}
	r, _, _, _ := out.At(12, 120).RGBA()
	if r>>8 > 200 {
		t.Fatalf("wrapped hint box should cover y=120")
	}
}

func TestDrawnLimits(t *testing.T) {
	ds := dataset.Dataset{{dataset.XAxisKey: "a", "card": 12.0, "card:CL": 10.0, "card:STDDEV": 10.0}}
	opts := DefaultOptions()
	if got := DrawnLimits(ds, "card", goalOn(), opts); len(got) != 7 {
		t.Fatalf("linear axis draws all seven bands, got %v", got)
	}
	opts.Scale = "log"
	got := DrawnLimits(ds, "card", goalOn(), opts)
	if len(got) != 6 {
		t.Fatalf("log axis cannot place LCL=0, got %v", got)
	}
	for _, c := range got {
		if c == "LCL" {
			t.Fatalf("LCL listed although it is not drawn: %v", got)
		}
	}
	if got := DrawnLimits(ds, "card", settings.Default(), DefaultOptions()); got != nil {
		t.Fatalf("goal off draws nothing, got %v", got)
	}
}

func TestRenderImage_ValueAxisLeft(t *testing.T) {
	opts := DefaultOptions()
	opts.ValueAxisLeft = true
	with, err := RenderImage(sampleDataset(), "card", goalOn(), opts)
	if err != nil {
		t.Fatalf("render with left axis: %v", err)
	}
	without, err := RenderImage(sampleDataset(), "card", settings.Default(), opts)
	if err != nil {
		t.Fatalf("render without overlay: %v", err)
	}
	if countDiff(with, without) == 0 {
		t.Fatalf("overlay missing with the value axis on the left")
	}
	var buf bytes.Buffer
	if err := RenderPNG(&buf, sampleDataset(), "card", goalOn(), opts); err != nil {
		t.Fatalf("png with left axis: %v", err)
	}
}

func TestRenderImage_BlurFadesOverlay(t *testing.T) {
	opts := DefaultOptions()
	sharp, err := RenderImage(sampleDataset(), "card", goalOn(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	opts.Blurred = true
	faded, err := RenderImage(sampleDataset(), "card", goalOn(), opts)
	if err != nil {
		t.Fatalf("render blurred: %v", err)
	}
	if countDiff(sharp, faded) == 0 {
		t.Fatalf("blurred overlay should differ from the sharp one")
	}
}

func TestRenderPNG_WritesNothingOnError(t *testing.T) {
	opts := DefaultOptions()
	opts.Scale = "symlog"
	var buf bytes.Buffer
	if err := RenderPNG(&buf, sampleDataset(), "card", goalOn(), opts); err == nil {
		t.Fatalf("expected an error")
	}
	if buf.Len() != 0 {
		t.Fatalf("partial output written: %d bytes", buf.Len())
	}
}
