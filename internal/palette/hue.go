package palette

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// Saturation and value used for every foreground hue. High saturation at
// full value keeps neighbouring categories visually separable.
const (
	hueSaturation = 0.8
	hueValue      = 1.0
)

// hueWheel builds the rgb-mode color table for n categories: slot 0 is
// the background, fixed to pure black, and the remaining n-1 categories
// are spread evenly around the hue circle.
func hueWheel(n int) []RGB {
	colors := make([]RGB, n)
	if n < 2 {
		return colors
	}

	foreground := n - 1
	hues := make([]float64, foreground)
	if foreground > 1 {
		// Hues step by 360/n degrees, leaving a gap before wrapping back
		// to the background-adjacent red at 0.
		floats.Span(hues, 0, 360*float64(foreground-1)/float64(n))
	}

	for i, h := range hues {
		r, g, b := colorful.Hsv(h, hueSaturation, hueValue).RGB255()
		colors[i+1] = RGB{R: r, G: g, B: b}
	}
	return colors
}
