package palette

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/geom"
)

func TestEaseOutQuint(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{1, 1},
		{0.5, 1 - math.Pow(0.5, 5)},
	}
	for _, tt := range tests {
		if got := EaseOutQuint(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EaseOutQuint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRadial(t *testing.T) {
	bound := geom.Circle{Center: r2.Point{X: 100, Y: 100}, Radius: 50}

	centre := Radial(bound.Center, bound)
	if _, s, v := centre.Hsv(); s != 0 || math.Abs(v-1) > 1e-9 {
		t.Errorf("centre should be white, got s=%v v=%v", s, v)
	}

	rim := Radial(r2.Point{X: 100, Y: 150}, bound)
	if _, s, _ := rim.Hsv(); math.Abs(s-1) > 1e-9 {
		t.Errorf("rim should be fully saturated, got %v", s)
	}

	left := Radial(r2.Point{X: 60, Y: 100}, bound)
	right := Radial(r2.Point{X: 140, Y: 100}, bound)
	hl, _, _ := left.Hsv()
	hr, _, _ := right.Hsv()
	if math.Abs(hl-hr) < 90 {
		t.Errorf("opposite sides should differ in hue: %v vs %v", hl, hr)
	}
}

func TestRandomHue(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		c := RandomHue(rng)
		if !c.IsValid() {
			t.Fatalf("invalid colour %v", c)
		}
		if _, _, _, a := RGBA(c); a != 255 {
			t.Errorf("alpha = %d, want 255", a)
		}
		if _, s, l := c.Hsl(); math.Abs(s-1) > 1e-6 || math.Abs(l-0.5) > 1e-6 {
			t.Errorf("unexpected saturation/lightness: %v %v", s, l)
		}
	}
}
