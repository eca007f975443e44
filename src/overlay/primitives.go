package overlay

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/xcontrol/src/bands"
)

// Kind tags an overlay element.
type Kind int

const (
	KindLine Kind = iota
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindLabel:
		return "text"
	default:
		return "unknown"
	}
}

// Element is a drawable overlay primitive: *Line or *Label.
type Element interface {
	Kind() Kind
	// Source is the band the element belongs to.
	Source() bands.Band
}

// Align is the horizontal text anchor of a label.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

func (a Align) String() string {
	if a == AlignRight {
		return "right"
	}
	return "left"
}

// Font describes label text.
type Font struct {
	Family string
	Size   float64
	Weight int
}

// Line is a horizontal reference line in pixel space.
type Line struct {
	X1, X2, Y1, Y2 float64
	StrokeWidth    float64
	Color          drawing.Color
	Dash           []float64
	// BlurOpacity is applied when the chart is de-emphasized.
	BlurOpacity float64
	Band        bands.Band
}

func (l *Line) Kind() Kind         { return KindLine }
func (l *Line) Source() bands.Band { return l.Band }

// Label is a text primitive. Y is the top of the text box.
type Label struct {
	X, Y        float64
	Align       Align
	Text        string
	Font        Font
	Color       drawing.Color
	BlurOpacity float64
	Band        bands.Band
}

func (l *Label) Kind() Kind         { return KindLabel }
func (l *Label) Source() bands.Band { return l.Band }

// Group is the root node handed to the chart engine. Children never contains nil.
type Group struct {
	Children []Element
}

// Len returns the number of children.
func (g Group) Len() int { return len(g.Children) }

// Lines returns the line children in order.
func (g Group) Lines() []*Line {
	var out []*Line
	for _, e := range g.Children {
		if l, ok := e.(*Line); ok {
			out = append(out, l)
		}
	}
	return out
}

// Labels returns the label children in order.
func (g Group) Labels() []*Label {
	var out []*Label
	for _, e := range g.Children {
		if l, ok := e.(*Label); ok {
			out = append(out, l)
		}
	}
	return out
}

// Blurred returns a copy of g where every element's color alpha is scaled by its blur
// opacity. The receiver is not modified.
func (g Group) Blurred() Group {
	out := Group{Children: make([]Element, 0, len(g.Children))}
	for _, e := range g.Children {
		switch v := e.(type) {
		case *Line:
			c := *v
			c.Dash = append([]float64(nil), v.Dash...)
			c.Color = fade(v.Color, v.BlurOpacity)
			out.Children = append(out.Children, &c)
		case *Label:
			c := *v
			c.Color = fade(v.Color, v.BlurOpacity)
			out.Children = append(out.Children, &c)
		}
	}
	return out
}

func fade(c drawing.Color, opacity float64) drawing.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return c.WithAlpha(uint8(float64(c.A)*opacity + 0.5))
}
