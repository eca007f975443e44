package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	hintPad     = 6
	hintStripe  = 3
	hintLeading = 4
)

// DrawHint returns a copy of img with text in a dark box at the bottom-left corner. Text
// wider than the image wraps at word boundaries; a stripe in accent marks the box so it
// reads as belonging to the overlay.
func DrawHint(img image.Image, text string, accent color.Color) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: out, Src: image.White, Face: face}
	maxW := b.Dx() - 2*(hintPad+hintStripe) - 16
	lines := wrapHint(dr, text, maxW)

	lineH := face.Metrics().Height.Ceil() + hintLeading
	textW := 0
	for _, l := range lines {
		if w := dr.MeasureString(l).Ceil(); w > textW {
			textW = w
		}
	}
	left := b.Min.X + 8
	box := image.Rect(left, b.Max.Y-6-len(lines)*lineH-hintPad, left+hintStripe+textW+2*hintPad, b.Max.Y-6)
	draw.Draw(out, box, image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)
	if accent != nil {
		stripe := image.Rect(box.Min.X, box.Min.Y, box.Min.X+hintStripe, box.Max.Y)
		draw.Draw(out, stripe, image.NewUniform(accent), image.Point{}, draw.Over)
	}

	x := box.Min.X + hintStripe + hintPad
	y := box.Min.Y + hintPad/2 + face.Metrics().Ascent.Ceil()
	for _, l := range lines {
		dr.Dot = fixed.P(x, y)
		dr.DrawString(l)
		y += lineH
	}
	return out
}

// wrapHint splits text into lines no wider than maxW pixels. A single word longer than
// maxW keeps its own line.
func wrapHint(dr *font.Drawer, text string, maxW int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(text) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if cur != "" && dr.MeasureString(next).Ceil() > maxW {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// LimitsHint summarizes which overlay lines are drawn, e.g. "CL UCL LCL".
func LimitsHint(codes []string) string {
	if len(codes) == 0 {
		return "Hint: no control limits drawn for this series."
	}
	return "Hint: lines shown " + strings.Join(codes, " ") + ". Points beyond UCL/LCL are out of control."
}
