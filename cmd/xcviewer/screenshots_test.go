package main

import (
	"errors"
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"

	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/settings"
	"github.com/iafilius/xcontrol/src/uihelpers"
)

const sampleJSONL = `{"x":"Mon","card":98,"card:CL":100,"card:STDDEV":10}
{"x":"Tue","card":104}
{"x":"Wed","card":91}
{"x":"Thu","card":133}
{"x":"Fri","card":100}
`

func writeSample(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.jsonl")
	if err := os.WriteFile(p, []byte(sampleJSONL), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return p
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

// TestScreenshots_WidthsFollowOverride ensures every variant shares the headless width.
func TestScreenshots_WidthsFollowOverride(t *testing.T) {
	screenshotWidthOverride = 1400
	defer func() { screenshotWidthOverride = 0 }()

	outDir := t.TempDir()
	if err := RunScreenshotsMode(writeSample(t), "", "", outDir); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	wantW, wantH := uihelpers.ComputeChartDimensions(1400)
	for _, shot := range screenshotSet {
		w, h := decodeSize(t, filepath.Join(outDir, shot.name))
		if w != wantW || h != wantH {
			t.Fatalf("%s: got %dx%d want %dx%d", shot.name, w, h, wantW, wantH)
		}
	}
	if w, h := decodeSize(t, filepath.Join(outDir, "card.png")); w != 6*uihelpers.GridCellPx || h != 4*uihelpers.GridCellPx {
		t.Fatalf("card.png: got %dx%d", w, h)
	}
}

func decodeImage(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func diffPixels(a, b image.Image) int {
	n := 0
	r := a.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			r1, g1, b1, _ := a.At(x, y).RGBA()
			r2, g2, b2, _ := b.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 {
				n++
			}
		}
	}
	return n
}

// TestScreenshots_VariantsDiffer fails when a variant silently falls back to the same image.
func TestScreenshots_VariantsDiffer(t *testing.T) {
	outDir := t.TempDir()
	if err := RunScreenshotsMode(writeSample(t), "", "card", outDir); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	control := decodeImage(t, filepath.Join(outDir, "control.png"))
	for _, name := range []string{"goal_line.png", "control_blurred.png", "control_right_axis.png"} {
		if diffPixels(control, decodeImage(t, filepath.Join(outDir, name))) == 0 {
			t.Fatalf("%s is identical to control.png", name)
		}
	}
}

func TestScreenshots_Errors(t *testing.T) {
	if err := RunScreenshotsMode("", "", "", t.TempDir()); err == nil {
		t.Fatalf("missing file must fail")
	}
	empty := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(empty, []byte(`{"x":"a"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RunScreenshotsMode(empty, "", "", t.TempDir()); err == nil {
		t.Fatalf("dataset without series must fail")
	}
	regions := filepath.Join(t.TempDir(), "regions.jsonl")
	if err := os.WriteFile(regions, []byte(`{"x":"a","region":"EU","card":1}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RunScreenshotsMode(regions, "", "card", t.TempDir()); !errors.Is(err, settings.ErrInvalid) {
		t.Fatalf("extra dimension: expected ErrInvalid, got %v", err)
	}
}

func TestEffectiveSettings_TogglesOverrideFile(t *testing.T) {
	s := newState("", "", "card")
	s.st.GoalLabel = "Target"
	s.showCustom = false
	st := effectiveSettings(s)
	if !st.ShowGoal || st.ShowCustom || st.GoalLabel != "Target" {
		t.Fatalf("unexpected settings %+v", st)
	}
	if !st.BandLabelToggleHidden() {
		t.Fatalf("band label toggle must hide without control bands")
	}
}

func TestLimitsSummary(t *testing.T) {
	s := newState("", "", "card")
	ds, err := dataset.Load(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s.ds = ds
	if got := limitsSummary(s); got != "CL=100  UCLB=110  UCLA=120  UCL=130  LCLB=90.0  LCLA=80.0  LCL=70.0" {
		t.Fatalf("summary %q", got)
	}
	s.seriesID = "other"
	if got := limitsSummary(s); got != "No control limits for this series" {
		t.Fatalf("summary %q", got)
	}
}

func TestRenderChart_BlankWithoutData(t *testing.T) {
	s := newState("", "", "")
	img := renderChart(s)
	w, h := chartSize(s)
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("blank size %v", img.Bounds())
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("/a/b.jsonl", 60); got != "/a/b.jsonl" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/very/long/directory/name/that/keeps/going/and/going/data.jsonl"
	if got := truncatePath(long, 30); len(got) > 30 || filepath.Base(got) != "...data.jsonl" {
		t.Fatalf("truncated %q", got)
	}
}
