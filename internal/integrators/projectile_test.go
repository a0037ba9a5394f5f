package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

var wide = geom.Circle{Center: r2.Point{}, Radius: 1e6}

func ball(pos, vel r2.Point, r float64) dynamo.Ball {
	return dynamo.NewBall(pos, r, vel, colorful.Color{})
}

func TestProjectileGravity(t *testing.T) {
	p := NewProjectile(10, 0)
	b := ball(r2.Point{}, r2.Point{X: 3, Y: -4}, 1)

	dt := 0.5
	p.Step(&b, wide, dt)

	wantPos := r2.Point{X: 3 * dt, Y: -4*dt + 0.5*10*dt*dt}
	if math.Abs(b.Center.X-wantPos.X) > 1e-12 || math.Abs(b.Center.Y-wantPos.Y) > 1e-12 {
		t.Errorf("position = %v, want %v", b.Center, wantPos)
	}
	if b.Velocity.X != 3 || math.Abs(b.Velocity.Y-1) > 1e-12 {
		t.Errorf("velocity = %v, want (3, 1)", b.Velocity)
	}
}

func TestProjectileDampingIsLinearInSpeed(t *testing.T) {
	p := NewProjectile(0, 0.5)
	b := ball(r2.Point{}, r2.Point{X: 100, Y: 0}, 1)

	p.Step(&b, wide, 0.1)

	// v -= v * k * dt  ->  100 * (1 - 0.05)
	if math.Abs(b.Velocity.X-95) > 1e-9 {
		t.Errorf("velocity = %v, want 95", b.Velocity.X)
	}
	if b.Velocity.Y != 0 {
		t.Errorf("damping changed direction: %v", b.Velocity)
	}
}

func TestProjectileSnapsSlowBallsToRest(t *testing.T) {
	p := NewProjectile(0, 0.1)
	b := ball(r2.Point{}, r2.Point{X: 0.005, Y: 0.003}, 1)

	p.Step(&b, wide, 1.0/60)

	if b.Velocity != (r2.Point{}) {
		t.Errorf("velocity = %v, want exactly zero", b.Velocity)
	}
}

func TestProjectileReflectsAtBoundary(t *testing.T) {
	bound := geom.Circle{Center: r2.Point{}, Radius: 10}
	p := NewProjectile(0, 0)
	b := ball(r2.Point{X: 9, Y: 0}, r2.Point{X: 5, Y: 2}, 1)

	p.Step(&b, bound, 0.01)

	if b.Velocity.X >= 0 {
		t.Errorf("normal component not reflected: %v", b.Velocity)
	}
	if math.Abs(b.Velocity.Norm()-math.Hypot(5, 2)) > 1e-9 {
		t.Errorf("reflection changed speed: %v", b.Velocity.Norm())
	}
	// Position is left for containment to correct.
	if b.Center.X <= 9 {
		t.Errorf("integrator corrected position: %v", b.Center)
	}
}

func TestProjectileInteriorBallNotReflected(t *testing.T) {
	bound := geom.Circle{Center: r2.Point{}, Radius: 10}
	p := NewProjectile(0, 0)
	b := ball(r2.Point{X: 1, Y: 0}, r2.Point{X: 5, Y: 0}, 1)

	p.Step(&b, bound, 0.01)

	if b.Velocity != (r2.Point{X: 5}) {
		t.Errorf("velocity = %v, want unchanged", b.Velocity)
	}
}

func TestDisplacement(t *testing.T) {
	got := Displacement(r2.Point{X: 1, Y: 1}, 2, 3)
	want := r2.Point{X: 3, Y: 3 + 9}
	if got != want {
		t.Errorf("Displacement = %v, want %v", got, want)
	}
}

func TestProjectileParams(t *testing.T) {
	p := NewProjectile(1, 2)
	if err := p.SetParam("gravity", 9.81); err != nil {
		t.Fatalf("SetParam gravity: %v", err)
	}
	if p.GetParams()["gravity"] != 9.81 {
		t.Errorf("gravity = %v, want 9.81", p.Gravity)
	}
	if err := p.SetParam("damping", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := p.SetParam("mass", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
