package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/export"
	"github.com/iafilius/xcontrol/src/logging"
	"github.com/iafilius/xcontrol/src/overlay"
	"github.com/iafilius/xcontrol/src/render"
	"github.com/iafilius/xcontrol/src/settings"
	"github.com/iafilius/xcontrol/src/uihelpers"
)

type uiState struct {
	app        fyne.App
	window     fyne.Window
	filePath   string
	configPath string
	seriesID   string

	ds dataset.Dataset
	// st holds the loaded settings file; the toggles below override its switches
	st settings.Settings

	// toggles
	showGoal       bool
	showCustom     bool
	showBandLabels bool
	blurred        bool
	showHints      bool
	leftAxis       bool
	darkChart      bool

	// widgets
	chartCanvas   *canvas.Image
	seriesSelect  *widget.Select
	bandLabelsChk *widget.Check
	limitsLabel   *widget.Label
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func newState(filePath, configPath, seriesID string) *uiState {
	def := settings.Default()
	return &uiState{
		filePath:       filePath,
		configPath:     configPath,
		seriesID:       seriesID,
		st:             def,
		showGoal:       true,
		showCustom:     def.ShowCustom,
		showBandLabels: def.ShowBandLabels,
		leftAxis:       true,
		darkChart:      true,
	}
}

func main() {
	var (
		fileFlag, seriesFlag, configFlag, shotsDir, logLevel string
		shots                                                bool
	)
	flag.StringVar(&fileFlag, "file", "", "Path to a dataset JSONL file")
	flag.StringVar(&seriesFlag, "series", "", "Series to plot (default: first series in the file)")
	flag.StringVar(&configFlag, "config", "", "Settings YAML file")
	flag.BoolVar(&shots, "screenshots", false, "Render screenshots headlessly and exit")
	flag.StringVar(&shotsDir, "screenshots-dir", "screenshots", "Output directory for -screenshots")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()
	logging.SetLogLevel(logLevel)

	if shots {
		if err := RunScreenshotsMode(fileFlag, configFlag, seriesFlag, shotsDir); err != nil {
			logging.Errorf("[viewer] screenshots: %v", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.xcontrol.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow(settings.Xcontrol.UIName + " Viewer")
	w.Resize(fyne.NewSize(1100, 700))

	state := newState(fileFlag, configFlag, seriesFlag)
	state.app, state.window = a, w

	fileLabel := widget.NewLabel(truncatePath(state.filePath, 60))
	state.seriesSelect = widget.NewSelect([]string{}, nil)
	state.seriesSelect.PlaceHolder = "Series"
	state.limitsLabel = widget.NewLabel("")

	// callbacks are assigned after the canvas exists
	goalChk := widget.NewCheck("Show goal", nil)
	customChk := widget.NewCheck("Control bands", nil)
	state.bandLabelsChk = widget.NewCheck("Band labels", nil)
	blurChk := widget.NewCheck("Blur", nil)
	hintsChk := widget.NewCheck("Hints", nil)
	leftChk := widget.NewCheck("Left axis", nil)
	darkChk := widget.NewCheck("Dark chart", nil)

	state.chartCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.chartCanvas.SetMinSize(fyne.NewSize(900, 320))

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFileDialog(state, fileLabel) }),
		widget.NewButton("Reload", func() { loadAll(state, fileLabel) }),
		widget.NewLabel("Series:"), state.seriesSelect,
		goalChk, customChk, state.bandLabelsChk, blurChk, hintsChk, leftChk, darkChk,
		widget.NewLabel("File:"), fileLabel,
	)
	content := container.NewBorder(top, state.limitsLabel, nil, nil, container.NewVScroll(state.chartCanvas))
	w.SetContent(content)

	// Redraw on window resize so the chart follows the width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					if curW := int(c.Size().Width); curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawChart(state) })
					}
				}
			}
		}()
	}

	toggle := func(dst *bool) func(bool) {
		return func(b bool) {
			*dst = b
			savePrefs(state)
			updateToggleVisibility(state)
			redrawChart(state)
		}
	}
	goalChk.OnChanged = toggle(&state.showGoal)
	customChk.OnChanged = toggle(&state.showCustom)
	state.bandLabelsChk.OnChanged = toggle(&state.showBandLabels)
	blurChk.OnChanged = toggle(&state.blurred)
	hintsChk.OnChanged = toggle(&state.showHints)
	leftChk.OnChanged = toggle(&state.leftAxis)
	darkChk.OnChanged = toggle(&state.darkChart)
	state.seriesSelect.OnChanged = func(v string) {
		if v == state.seriesID {
			return
		}
		state.seriesID = v
		savePrefs(state)
		redrawChart(state)
	}

	buildMenus(state, fileLabel)
	loadPrefs(state, fileLabel)
	goalChk.SetChecked(state.showGoal)
	customChk.SetChecked(state.showCustom)
	state.bandLabelsChk.SetChecked(state.showBandLabels)
	blurChk.SetChecked(state.blurred)
	hintsChk.SetChecked(state.showHints)
	leftChk.SetChecked(state.leftAxis)
	darkChk.SetChecked(state.darkChart)
	loadAll(state, fileLabel)

	w.ShowAndRun()
}

// menus and dialogs
func buildMenus(state *uiState, fileLabel *widget.Label) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.filePath = f
			fileLabel.SetText(truncatePath(state.filePath, 60))
			savePrefs(state)
			loadAll(state, fileLabel)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state, fileLabel) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state, fileLabel) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state, fileLabel) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart…", func() { exportChartPNG(state) }),
		fyne.NewMenuItem("Export Limits…", func() { exportLimits(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	if canv := state.window.Canvas(); canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

func openFileDialog(state *uiState, fileLabel *widget.Label) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		fileLabel.SetText(truncatePath(state.filePath, 60))
		addRecentFile(state, state.filePath)
		savePrefs(state)
		loadAll(state, fileLabel)
	}, state.window)
	d.Show()
}

// loadAll reads the dataset and settings file, then redraws.
func loadAll(state *uiState, fileLabel *widget.Label) {
	if state.filePath == "" {
		return
	}
	ds, err := dataset.Load(state.filePath)
	if err != nil {
		showError(state, err)
		return
	}
	if err := settings.Xcontrol.CheckDimensions(ds.DimensionKeys()); err != nil {
		showError(state, err)
		return
	}
	st, err := settings.LoadOrDefault(state.configPath)
	if err != nil {
		showError(state, err)
		return
	}
	state.ds, state.st = ds, st
	keys := ds.SeriesKeys()
	if !contains(keys, state.seriesID) && len(keys) > 0 {
		state.seriesID = keys[0]
	}
	logging.Infof("[viewer] loaded %d rows from %s; series=%v", len(ds), state.filePath, keys)
	if state.seriesSelect != nil {
		state.seriesSelect.Options = keys
		state.seriesSelect.Selected = state.seriesID
		state.seriesSelect.Refresh()
	}
	if fileLabel != nil {
		fileLabel.SetText(truncatePath(state.filePath, 60))
	}
	updateToggleVisibility(state)
	redrawChart(state)
}

func showError(state *uiState, err error) {
	logging.Warnf("[viewer] %v", err)
	if state.window != nil {
		dialog.ShowError(err, state.window)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// effectiveSettings applies the viewer toggles on top of the loaded settings.
func effectiveSettings(state *uiState) settings.Settings {
	st := state.st
	st.ShowGoal = state.showGoal
	st.ShowCustom = state.showCustom
	st.ShowBandLabels = state.showBandLabels
	return st
}

// updateToggleVisibility hides the band label toggle unless both goal and control bands are on.
func updateToggleVisibility(state *uiState) {
	if state.bandLabelsChk == nil {
		return
	}
	if effectiveSettings(state).BandLabelToggleHidden() {
		state.bandLabelsChk.Hide()
	} else {
		state.bandLabelsChk.Show()
	}
}

func redrawChart(state *uiState) {
	img := renderChart(state)
	if state.chartCanvas != nil {
		state.chartCanvas.Image = img
		cw, chh := chartSize(state)
		state.chartCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.chartCanvas.Refresh()
	}
	if state.limitsLabel != nil {
		state.limitsLabel.SetText(limitsSummary(state))
	}
}

// chartOptions derives render options from the current toggles and window size.
func chartOptions(state *uiState) render.Options {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = chartSize(state)
	opts.Title = state.seriesID
	opts.Blurred = state.blurred
	opts.ValueAxisLeft = state.leftAxis
	if state.darkChart {
		opts.Dark, opts.Theme = true, overlay.DarkTheme()
	}
	if state.showHints {
		opts.Hint = render.LimitsHint(render.DrawnLimits(state.ds, state.seriesID, effectiveSettings(state), opts))
	}
	return opts
}

func renderChart(state *uiState) image.Image {
	opts := chartOptions(state)
	if len(state.ds) == 0 || state.seriesID == "" {
		return render.Blank(opts.Width, opts.Height)
	}
	return render.RenderOrBlank(state.ds, state.seriesID, effectiveSettings(state), opts)
}

// limitsSummary renders the defined limits as "CL=100  UCL=130 ...".
func limitsSummary(state *uiState) string {
	set, ok := overlay.Limits(overlay.Model{Dataset: state.ds, SeriesID: state.seriesID})
	if !ok {
		return "No control limits for this series"
	}
	var parts []string
	for _, b := range set.Defined() {
		v, _ := set.Get(b)
		parts = append(parts, fmt.Sprintf("%s=%s", b.Code(), uihelpers.FormatNumericTick(v)))
	}
	return strings.Join(parts, "  ")
}

// screenshotWidthOverride pins the chart width when there is no window (tests, screenshots).
var screenshotWidthOverride int

// chartSize computes a chart size from the current window width.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		if screenshotWidthOverride > 0 {
			return uihelpers.ComputeChartDimensions(screenshotWidthOverride)
		}
		return uihelpers.ComputeChartDimensions(1100)
	}
	sz := state.window.Canvas().Size()
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

func exportChartPNG(state *uiState) {
	if state == nil || state.window == nil || state.chartCanvas == nil || state.chartCanvas.Image == nil {
		return
	}
	img := state.chartCanvas.Image
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			showError(state, err)
		}
	}, state.window)
	fs.SetFileName(state.seriesID + "_chart.png")
	fs.Show()
}

func exportLimits(state *uiState) {
	set, ok := overlay.Limits(overlay.Model{Dataset: state.ds, SeriesID: state.seriesID})
	if !ok {
		dialog.ShowInformation("Export", "No control limits to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		// excelize writes by path
		wc.Close()
		if err := export.Save(path, state.seriesID, set); err != nil {
			showError(state, err)
		}
	}, state.window)
	fs.SetFileName(state.seriesID + "_limits.xlsx")
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}
func addRecentFile(state *uiState, path string) {
	filtered := []string{path}
	for _, f := range recentFiles(state) {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	state.app.Preferences().SetString("recentFiles", strings.Join(filtered, "\n"))
}
func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("lastConfig", state.configPath)
	prefs.SetString("lastSeries", state.seriesID)
	prefs.SetBool("showGoal", state.showGoal)
	prefs.SetBool("showCustom", state.showCustom)
	prefs.SetBool("showBandLabels", state.showBandLabels)
	prefs.SetBool("blurred", state.blurred)
	prefs.SetBool("showHints", state.showHints)
	prefs.SetBool("leftAxis", state.leftAxis)
	prefs.SetBool("darkChart", state.darkChart)
}

// loadPrefs restores the last session; command line flags win over stored values.
func loadPrefs(state *uiState, fileLabel *widget.Label) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if state.filePath == "" {
		state.filePath = prefs.StringWithFallback("lastFile", "")
		if fileLabel != nil {
			fileLabel.SetText(truncatePath(state.filePath, 60))
		}
	}
	if state.configPath == "" {
		state.configPath = prefs.StringWithFallback("lastConfig", "")
	}
	if state.seriesID == "" {
		state.seriesID = prefs.StringWithFallback("lastSeries", "")
	}
	state.showGoal = prefs.BoolWithFallback("showGoal", state.showGoal)
	state.showCustom = prefs.BoolWithFallback("showCustom", state.showCustom)
	state.showBandLabels = prefs.BoolWithFallback("showBandLabels", state.showBandLabels)
	state.blurred = prefs.BoolWithFallback("blurred", state.blurred)
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
	state.leftAxis = prefs.BoolWithFallback("leftAxis", state.leftAxis)
	state.darkChart = prefs.BoolWithFallback("darkChart", state.darkChart)
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
