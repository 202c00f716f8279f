// Package palette assigns colors to the symmetry copies of a packed
// shape. Copies within the unit cell each get their own hue; periodic
// images reuse the copy's hue, washed out.
package palette

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds one RGBA color per shape copy in the unit cell.
type Palette []color.RGBA

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hsb converts HSV components (hue in degrees, saturation and
// brightness in [0, 1]) to RGBA using go-colorful.
func hsb(h, s, b float64) color.RGBA {
	c := colorful.Hsv(h, clamp(s, 0, 1), clamp(b, 0, 1))
	red, green, blue := c.RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: 255}
}

// ForCopies returns a palette of n colors with evenly spaced hues. The
// starting hue and per-color saturation/brightness jitter come from the
// given source, so a seed pins the whole scheme.
func ForCopies(n int, r *rand.Rand) Palette {
	if n < 1 {
		n = 1
	}

	p := make(Palette, n)
	offset := r.Float64() * 360
	for i := range p {
		hue := offset + float64(i)*360/float64(n)
		for hue >= 360 {
			hue -= 360
		}
		p[i] = hsb(hue, 0.55+r.Float64()*0.25, 0.55+r.Float64()*0.25)
	}
	return p
}

// At returns the color for the i-th shape copy, cycling when the index
// runs past the palette.
func (p Palette) At(i int) color.RGBA {
	return p[i%len(p)]
}

// Dimmed washes a color out for use on periodic-image copies: brightness
// nudged up, saturation cut, alpha halved.
func Dimmed(c color.RGBA) color.RGBA {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, v := cf.Hsv()

	out := hsb(h, s*0.45, clamp(v+0.2, 0, 1))
	out.A = c.A / 2
	return out
}
