package overlay

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/xcontrol/src/bands"
)

// GoalLineDash is the dash/gap pattern shared by every overlay line.
var GoalLineDash = []float64{3, 4}

// Palette resolves band color classes to colors.
type Palette struct {
	Accent  drawing.Color
	Neutral drawing.Color
	Alert   drawing.Color
}

// Color returns the palette entry for class.
func (p Palette) Color(class bands.ColorClass) drawing.Color {
	switch class {
	case bands.ClassAccent:
		return p.Accent
	case bands.ClassAlert:
		return p.Alert
	default:
		return p.Neutral
	}
}

// Theme carries every style constant the overlay builders read.
type Theme struct {
	Palette Palette
	Font    Font
	// LabelMargin is the gap between a line and the bottom of its label.
	LabelMargin   float64
	GoalLineWidth float64
	BandLineWidth float64
	Dash          []float64
	BlurOpacity   float64
	ZIndex        int
}

// DefaultBlurOpacity is the alpha factor of a de-emphasized overlay, e.g. while another
// series is hovered.
const DefaultBlurOpacity = 0.25

// TextMedium is the neutral text color used for the goal line and inner bands.
var TextMedium = drawing.Color{R: 0x69, G: 0x6e, B: 0x7b, A: 255}

// DefaultTheme returns the light theme styling.
func DefaultTheme() Theme {
	return Theme{
		Palette: Palette{
			Accent:  drawing.Color{R: 0, G: 0, B: 255, A: 255},
			Neutral: TextMedium,
			Alert:   drawing.Color{R: 255, G: 0, B: 0, A: 255},
		},
		Font:          Font{Family: "Lato", Size: 14, Weight: 700},
		LabelMargin:   4,
		GoalLineWidth: 2,
		BandLineWidth: 1,
		Dash:          GoalLineDash,
		BlurOpacity:   DefaultBlurOpacity,
		ZIndex:        7,
	}
}

// DarkTheme keeps the light geometry but lifts the neutral color for dark backgrounds.
func DarkTheme() Theme {
	th := DefaultTheme()
	th.Palette.Neutral = drawing.Color{R: 0xb0, G: 0xb4, B: 0xbd, A: 255}
	th.Palette.Accent = drawing.Color{R: 0x50, G: 0x9e, B: 0xe3, A: 255}
	return th
}

func (th Theme) dash() []float64 {
	if len(th.Dash) == 0 {
		return append([]float64(nil), GoalLineDash...)
	}
	return append([]float64(nil), th.Dash...)
}
