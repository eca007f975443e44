package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iafilius/xcontrol/src/bands"
	"github.com/iafilius/xcontrol/src/dataset"
	"github.com/iafilius/xcontrol/src/export"
	"github.com/iafilius/xcontrol/src/logging"
	"github.com/iafilius/xcontrol/src/overlay"
	"github.com/iafilius/xcontrol/src/render"
	"github.com/iafilius/xcontrol/src/settings"
	"github.com/iafilius/xcontrol/src/uihelpers"
)

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "xcontrol",
		Short:         "Control chart limits and goal-line overlays",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetLogLevel(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.AddCommand(newBandsCmd(), newRenderCmd(), newExportCmd())
	return root
}

func newBandsCmd() *cobra.Command {
	var (
		center, stddev, exponent float64
		scale                    string
		asJSON                   bool
	)
	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Compute the seven control bands for a center and standard deviation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transform, err := overlay.ParseScale(scale, exponent)
			if err != nil {
				return err
			}
			dev := bands.None
			if cmd.Flags().Changed("stddev") {
				dev = bands.Some(stddev)
			}
			set := bands.Compute(bands.Some(center), dev)
			if !set.Active() {
				return fmt.Errorf("center %v is not a finite number", center)
			}
			if asJSON {
				return export.WriteJSON(cmd.OutOrStdout(), "", set, true)
			}
			return writeBandTable(cmd.OutOrStdout(), set, transform)
		},
	}
	cmd.Flags().Float64Var(&center, "center", 0, "Center line value (CL)")
	cmd.Flags().Float64Var(&stddev, "stddev", 0, "Standard deviation; omit to compute the center line only")
	cmd.Flags().StringVar(&scale, "scale", "linear", "Axis scale: linear, log, pow, sqrt")
	cmd.Flags().Float64Var(&exponent, "exponent", 0, "Exponent for the pow scale")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	_ = cmd.MarkFlagRequired("center")
	return cmd
}

// writeBandTable prints every band in drawing order with its axis-space value.
func writeBandTable(w io.Writer, set bands.Set, scale overlay.ScaleTransform) error {
	axis := set.Map(scale)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tVALUE\tAXIS")
	for _, b := range bands.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Code(), cell(set, b), cell(axis, b))
	}
	return tw.Flush()
}

// cell formats a band level, "-" when undefined or not placeable on the axis.
func cell(s bands.Set, b bands.Band) string {
	v, ok := s.Get(b)
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 8, 64)
}

func newRenderCmd() *cobra.Command {
	var (
		dataPath, seriesID, configPath, outPath string
		scale                                   string
		exponent                                float64
		blur, rightAxis, hint, dark             bool
		width                                   int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a series with its goal or control overlay to PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(dataPath)
			if err != nil {
				return err
			}
			st, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			opts := render.DefaultOptions()
			opts.Width, opts.Height = uihelpers.ComputeChartDimensions(width)
			opts.Title = seriesID
			opts.Scale, opts.Exponent = scale, exponent
			opts.Blurred = blur
			opts.ValueAxisLeft = !rightAxis
			if dark {
				opts.Dark, opts.Theme = true, overlay.DarkTheme()
			}
			if hint {
				opts.Hint = render.LimitsHint(render.DrawnLimits(ds, seriesID, st, opts))
			}
			if outPath == "" {
				outPath = seriesID + ".png"
			}
			defer logging.TimeTrack(time.Now(), "render "+outPath)
			var buf bytes.Buffer
			if err := render.RenderPNG(&buf, ds, seriesID, st, opts); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			logging.Debug("chart written", "out", outPath, "bytes", buf.Len())
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "Dataset JSONL file")
	cmd.Flags().StringVar(&seriesID, "series", "", "Series identifier (column key)")
	cmd.Flags().StringVar(&configPath, "config", "", "Settings YAML file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output PNG (default: <series>.png)")
	cmd.Flags().StringVar(&scale, "scale", "linear", "Axis scale: linear, log, pow, sqrt")
	cmd.Flags().Float64Var(&exponent, "exponent", 0, "Exponent for the pow scale")
	cmd.Flags().BoolVar(&blur, "blur", false, "Draw the overlay in its blurred state")
	cmd.Flags().BoolVar(&rightAxis, "right-axis", false, "Draw the value axis on the right")
	cmd.Flags().BoolVar(&hint, "hint", false, "Print the drawn limit codes in the chart corner")
	cmd.Flags().BoolVar(&dark, "dark", false, "Dark canvas and overlay colors")
	cmd.Flags().IntVar(&width, "width", 0, "Chart width in pixels (clamped to the minimum size)")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("series")
	return cmd
}

// loadDataset reads the JSONL dataset and rejects column layouts the chart cannot plot.
func loadDataset(path string) (dataset.Dataset, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	if err := settings.Xcontrol.CheckDimensions(ds.DimensionKeys()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// loadSettings reads the YAML settings; without a file the goal overlay is switched on so
// the CLI shows something useful.
func loadSettings(path string) (settings.Settings, error) {
	if path == "" {
		st := settings.Default()
		st.ShowGoal = true
		return st, nil
	}
	return settings.Load(path)
}

func newExportCmd() *cobra.Command {
	var dataPath, seriesID, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the control limits of a series to XLSX or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(dataPath)
			if err != nil {
				return err
			}
			set, ok := overlay.Limits(overlay.Model{Dataset: ds, SeriesID: seriesID})
			if !ok {
				return fmt.Errorf("series %q has no %s value", seriesID, dataset.AggregateKey(seriesID, dataset.FieldCenter))
			}
			if err := export.Save(outPath, seriesID, set); err != nil {
				return err
			}
			logging.Info("limits exported", "series", seriesID, "count", set.Len(), "out", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "Dataset JSONL file")
	cmd.Flags().StringVar(&seriesID, "series", "", "Series identifier (column key)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (.xlsx or .json)")
	for _, f := range []string{"data", "series", "out"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
