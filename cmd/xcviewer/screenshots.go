package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/logging"
	"github.com/iafilius/xcontrol/src/render"
	"github.com/iafilius/xcontrol/src/settings"
	"github.com/iafilius/xcontrol/src/uihelpers"
)

// screenshot is one headless render variant.
type screenshot struct {
	name  string
	setup func(*uiState)
}

var screenshotSet = []screenshot{
	{"control.png", func(*uiState) {}},
	{"control_no_labels.png", func(s *uiState) { s.showBandLabels = false }},
	{"control_blurred.png", func(s *uiState) { s.blurred = true }},
	{"control_right_axis.png", func(s *uiState) { s.leftAxis = false }},
	{"control_hints.png", func(s *uiState) { s.showHints = true }},
	{"goal_line.png", func(s *uiState) { s.showCustom = false }},
	{"control_light.png", func(s *uiState) { s.darkChart = false }},
}

// RunScreenshotsMode renders the overlay variants of one series and writes them as PNGs
// under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(filePath, configPath, seriesID, outDir string) error {
	if filePath == "" {
		return fmt.Errorf("screenshots need a dataset file")
	}
	ds, err := dataset.Load(filePath)
	if err != nil {
		return err
	}
	if err := settings.Xcontrol.CheckDimensions(ds.DimensionKeys()); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	st, err := settings.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if seriesID == "" {
		keys := ds.SeriesKeys()
		if len(keys) == 0 {
			return fmt.Errorf("%s: no series to plot", filePath)
		}
		seriesID = keys[0]
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	for _, shot := range screenshotSet {
		state := newState(filePath, configPath, seriesID)
		state.ds, state.st = ds, st
		shot.setup(state)
		if err := writePNG(filepath.Join(outDir, shot.name), state, chartOptions(state)); err != nil {
			return err
		}
	}

	// Dashboard card at the default grid size.
	state := newState(filePath, configPath, seriesID)
	state.ds, state.st = ds, st
	opts := chartOptions(state)
	def := settings.Xcontrol.DefaultSize
	opts.Width, opts.Height = uihelpers.GridToPixels(def.Width, def.Height, settings.Xcontrol.MinSize.Width, settings.Xcontrol.MinSize.Height)
	if err := writePNG(filepath.Join(outDir, "card.png"), state, opts); err != nil {
		return err
	}
	logging.Infof("[screenshots] wrote %d images to %s", len(screenshotSet)+1, outDir)
	return nil
}

func writePNG(path string, state *uiState, opts render.Options) error {
	img, err := render.RenderImage(state.ds, state.seriesID, effectiveSettings(state), opts)
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
