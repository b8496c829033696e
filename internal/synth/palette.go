package synth

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultClasses returns the stock two-class layout: a red square (class 0)
// and a blue circle (class 1).
func DefaultClasses() []ClassSpec {
	return []ClassSpec{
		{Name: "square", Shape: KindRectangle, Color: color.NRGBA{R: 255, A: 255}},
		{Name: "circle", Shape: KindEllipse, Color: color.NRGBA{B: 255, A: 255}},
	}
}

// Palette builds k classes with visually distinct fill colors. Hues are
// spaced evenly around the color wheel and shapes alternate between
// rectangle and ellipse.
func Palette(k int) []ClassSpec {
	if k <= 0 {
		return nil
	}
	if k <= 2 {
		return DefaultClasses()[:k]
	}
	classes := make([]ClassSpec, k)
	for i := 0; i < k; i++ {
		hue := 360 * float64(i) / float64(k)
		r, g, b := colorful.Hsv(hue, 0.85, 0.9).Clamped().RGB255()
		shape := KindRectangle
		if i%2 == 1 {
			shape = KindEllipse
		}
		classes[i] = ClassSpec{
			Name:  fmt.Sprintf("class-%d", i),
			Shape: shape,
			Color: color.NRGBA{R: r, G: g, B: b, A: 255},
		}
	}
	return classes
}

// HexColor formats a fill color as "#RRGGBB".
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHexColor parses a "#RRGGBB" string into an opaque fill color.
func ParseHexColor(hex string) (color.NRGBA, error) {
	cf, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
