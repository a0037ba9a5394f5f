package integrators

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

const (
	DefaultMoveEps = 1e-4
	DefaultStopEps = 1e-2
)

// Projectile moves a ball under constant downward gravity with drag
// proportional to speed, and reflects its velocity off the boundary.
// Position is not corrected here; containment runs after collisions.
type Projectile struct {
	Gravity float64
	Damping float64
	MoveEps float64 // damping applies above this speed
	StopEps float64 // speeds below this snap to zero
}

func NewProjectile(gravity, damping float64) *Projectile {
	return &Projectile{
		Gravity: gravity,
		Damping: damping,
		MoveEps: DefaultMoveEps,
		StopEps: DefaultStopEps,
	}
}

// Displacement is the gravity-only position change after time t.
func Displacement(v r2.Point, gravity, t float64) r2.Point {
	return v.Mul(t).Add(r2.Point{Y: 0.5 * gravity * t * t})
}

func (p *Projectile) Step(b *dynamo.Ball, bound geom.Circle, dt float64) {
	b.Center = b.Center.Add(Displacement(b.Velocity, p.Gravity, dt))
	b.Velocity.Y += p.Gravity * dt

	if speed := b.Velocity.Norm(); speed > p.MoveEps {
		b.Velocity = b.Velocity.Sub(b.Velocity.Normalize().Mul(p.Damping * speed * dt))
	}
	if b.Velocity.Norm() < p.StopEps {
		b.Velocity = r2.Point{}
	}

	d := b.Center.Sub(bound.Center)
	dist := d.Norm()
	if dist == 0 || dist+b.Radius < bound.Radius {
		return
	}
	n := d.Mul(1 / dist)
	b.Velocity = b.Velocity.Sub(n.Mul(2 * b.Velocity.Dot(n)))
}

func (p *Projectile) GetParams() map[string]float64 {
	return map[string]float64{"gravity": p.Gravity, "damping": p.Damping}
}

func (p *Projectile) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		p.Gravity = value
	case "damping":
		if value < 0 {
			return fmt.Errorf("%w: damping %v is negative", dynamo.ErrParameterBounds, value)
		}
		p.Damping = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}
