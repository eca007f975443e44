package uihelpers

import (
	"math"
	"strconv"
)

// Chart size limits in pixels. The height floor leaves room for seven stacked band
// labels plus the x-axis; the ceiling keeps wide windows from producing a tall chart.
const (
	MinChartWidth  = 800
	MinChartHeight = 280
	MaxChartHeight = 520
	ChartAspect    = 0.33
)

// ComputeChartDimensions returns the chart size for a canvas rawW pixels wide. The
// width never drops below MinChartWidth and the height follows ChartAspect within the
// height limits.
func ComputeChartDimensions(rawW int) (int, int) {
	w := max(rawW, MinChartWidth)
	h := int(math.Round(float64(w) * ChartAspect))
	return w, min(max(h, MinChartHeight), MaxChartHeight)
}

// GridCellPx is the pixel size of one dashboard grid cell.
const GridCellPx = 96

// GridToPixels converts a card size in grid cells to pixels, never going below minW x minH cells.
func GridToPixels(w, h, minW, minH int) (int, int) {
	if w < minW {
		w = minW
	}
	if h < minH {
		h = minH
	}
	return w * GridCellPx, h * GridCellPx
}

// pow10Floor returns 10^floor(log10(x)) safeguarding tiny values.
func pow10Floor(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(x)))
}

// round6 rounds to 6 decimal places to stabilize test comparisons / labels prep.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// NiceBounds expands [min,max] by a 5% margin and rounds outward to the magnitude of the span.
func NiceBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := pow10Floor(span)
	a = math.Floor(a/mag) * mag
	b = math.Ceil(b/mag) * mag
	return a, b
}

// maxTicks bounds BuildNumericTicks whatever the input range.
const maxTicks = 64

// BuildNumericTicks generates up to n tick marks spanning [min,max] using the 1,2,2.5,5 pattern.
// Returns slice of raw numeric positions (label formatting left to caller for domain specific units).
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := pow10Floor(span / float64(n-1))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	count := int(math.Round((end-start)/bestStep)) + 1
	if count > maxTicks {
		count = maxTicks
	}
	var out []float64
	for i := 0; i < count; i++ {
		v := round6(start + float64(i)*bestStep)
		// Steps below the float spacing of v collapse onto the previous tick.
		if len(out) > 0 && v <= out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// FormatNumericTick provides a compact tick label.
func FormatNumericTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
