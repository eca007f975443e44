package settings

import "fmt"

// Size is a dashboard card size in grid cells.
type Size struct {
	Width, Height int
}

// Definition registers the chart type with the host visualization list.
type Definition struct {
	Identifier    string
	UIName        string
	Noun          string
	IconName      string
	MaxDimensions int
	MinSize       Size
	DefaultSize   Size
}

// Xcontrol is the control chart definition: a cartesian chart restricted to one x dimension.
var Xcontrol = Definition{
	Identifier:    "xcontrol",
	UIName:        "Xcontrol",
	Noun:          "xcontrol chart",
	IconName:      "xcontrol",
	MaxDimensions: 1,
	MinSize:       Size{Width: 4, Height: 3},
	DefaultSize:   Size{Width: 6, Height: 4},
}

// AcceptsDimensions reports whether n x-axis columns can be plotted.
func (d Definition) AcceptsDimensions(n int) bool {
	return n >= 1 && (d.MaxDimensions <= 0 || n <= d.MaxDimensions)
}

// CheckDimensions returns an ErrInvalid error when the dataset's categorical columns
// cannot be plotted by this chart type.
func (d Definition) CheckDimensions(keys []string) error {
	if d.AcceptsDimensions(len(keys)) {
		return nil
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: %s needs an x dimension column", ErrInvalid, d.Noun)
	}
	return fmt.Errorf("%w: %s takes at most %d dimension, got %d %v", ErrInvalid, d.Noun, d.MaxDimensions, len(keys), keys)
}
