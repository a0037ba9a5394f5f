// Package palette picks ball colours.
package palette

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/geom"
)

var (
	Background = colorful.Color{R: 127.0 / 255, G: 127.0 / 255, B: 127.0 / 255}
	Foreground = colorful.Color{R: 1, G: 1, B: 1}
)

// RandomHue returns a fully saturated mid-lightness colour of random hue.
func RandomHue(rng *rand.Rand) colorful.Color {
	return colorful.Hsl(rng.Float64()*360, 1, 0.5)
}

// Radial shades a position by where it sits in the boundary: hue follows
// the angle measured from straight down, saturation grows towards the rim.
func Radial(p r2.Point, bound geom.Circle) colorful.Color {
	d := p.Sub(bound.Center)
	angle := math.Atan2(d.X, d.Y) * 180 / math.Pi
	hue := math.Mod(360-angle, 360)
	s := 0.0
	if bound.Radius > 0 {
		s = EaseOutQuint(math.Min(d.Norm()/bound.Radius, 1))
	}
	return colorful.Hsv(hue, s, 1)
}

func EaseOutQuint(t float64) float64 {
	t = 1 - t
	return 1 - t*t*t*t*t
}

// RGBA converts to 8-bit channels with full opacity.
func RGBA(c colorful.Color) (r, g, b, a uint8) {
	r, g, b = c.Clamped().RGB255()
	return r, g, b, 255
}
