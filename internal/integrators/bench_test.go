package integrators

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

func BenchmarkProjectile(b *testing.B) {
	integrator := NewProjectile(500, 0.1)
	bound := geom.Circle{Center: r2.Point{X: 640, Y: 360}, Radius: 324}
	ball := dynamo.NewBall(r2.Point{X: 640, Y: 360}, 10, r2.Point{X: 300, Y: -200}, colorful.Color{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(&ball, bound, 1.0/60)
	}
}

func BenchmarkProjectileDampingOnly(b *testing.B) {
	integrator := NewProjectile(0, 0.1)
	bound := geom.Circle{Radius: 1e9}
	ball := dynamo.NewBall(r2.Point{}, 10, r2.Point{X: 1e6, Y: 1e6}, colorful.Color{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(&ball, bound, 1.0/60)
	}
}
