package overlay

import (
	"fmt"
	"math"
	"strings"
)

// ScaleTransform maps a raw value to the value plotted on the y axis.
type ScaleTransform func(float64) float64

// Linear is the identity transform.
func Linear() ScaleTransform { return func(v float64) float64 { return v } }

// Log is a sign-preserving base-10 log. Zero maps to -Inf, which overlays treat as undefined.
func Log() ScaleTransform {
	return func(v float64) float64 {
		if v < 0 {
			return -math.Log10(-v)
		}
		return math.Log10(v)
	}
}

// Pow is a sign-preserving power transform, e.g. exponent 0.5 for a square-root axis.
func Pow(exponent float64) ScaleTransform {
	return func(v float64) float64 {
		if v < 0 {
			return -math.Pow(-v, exponent)
		}
		return math.Pow(v, exponent)
	}
}

// ParseScale resolves an axis scale name ("linear", "log", "pow", "sqrt").
func ParseScale(name string, exponent float64) (ScaleTransform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear", "ordinal", "timeseries":
		return Linear(), nil
	case "log":
		return Log(), nil
	case "pow":
		if exponent == 0 || math.IsNaN(exponent) || math.IsInf(exponent, 0) {
			return nil, fmt.Errorf("pow scale needs a finite non-zero exponent, got %v", exponent)
		}
		return Pow(exponent), nil
	case "sqrt":
		return Pow(0.5), nil
	default:
		return nil, fmt.Errorf("unknown scale %q", name)
	}
}

func (s ScaleTransform) apply(v float64) (float64, bool) {
	if s != nil {
		v = s(v)
	}
	return v, !math.IsNaN(v) && !math.IsInf(v, 0)
}
